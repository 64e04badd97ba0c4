package search

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aniboard/internal/catalog"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
	rg.GET("/series/:id", h.series)
}

func (h *Handler) search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}

	res, err := h.Service.Search(c.Request.Context(), term)
	if err != nil {
		h.remoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) series(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	d, err := h.Service.Detail(c.Request.Context(), id)
	if err != nil {
		h.remoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) remoteError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrRemote) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog request failed"})
}
