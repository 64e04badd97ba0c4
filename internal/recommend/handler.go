package recommend

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aniboard/internal/auth"
	"aniboard/internal/catalog"
	"aniboard/internal/taxonomy"
	"aniboard/pkg/models"
)

// LibraryReader loads the full library snapshot backing a recommendation.
type LibraryReader interface {
	Snapshot(ctx context.Context, userID string) ([]models.LibraryEntry, error)
}

type Handler struct {
	Service *Service
	Library LibraryReader
}

func NewHandler(svc *Service, lib LibraryReader) *Handler {
	return &Handler{Service: svc, Library: lib}
}

// RegisterRoutes expects a group with optional authentication; anonymous
// callers get the trending-backed fallback.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations", h.list)
}

func (h *Handler) list(c *gin.Context) {
	facet := taxonomy.Parse(c.DefaultQuery("facet", string(taxonomy.FacetUnified)))

	userID := "anonymous"
	var entries []models.LibraryEntry
	if claims := auth.GetClaims(c); claims != nil {
		userID = claims.UserID
		snapshot, err := h.Library.Snapshot(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load library failed"})
			return
		}
		entries = snapshot
	}

	items, err := h.Service.Recommend(c.Request.Context(), userID, facet, entries)
	if err != nil {
		if errors.Is(err, catalog.ErrRemote) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recommendations failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facet": facet,
		"items": items,
	})
}
