package feed

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aniboard/internal/catalog"
	"aniboard/internal/taxonomy"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed", h.get)
}

func (h *Handler) get(c *gin.Context) {
	facet := taxonomy.Parse(c.DefaultQuery("facet", string(taxonomy.FacetUnified)))

	sections, err := h.Service.Fetch(c.Request.Context(), facet)
	if err != nil {
		if errors.Is(err, catalog.ErrRemote) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "feed fetch failed"})
		return
	}

	c.JSON(http.StatusOK, sections)
}
