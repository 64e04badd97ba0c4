package playback

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Manager *Manager
}

func NewHandler(m *Manager) *Handler {
	return &Handler{Manager: m}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/playback/providers", h.providers)
	rg.POST("/playback/sessions", h.open)
	rg.GET("/playback/sessions/:id", h.current)
	rg.POST("/playback/sessions/:id/cycle", h.cycle)
	rg.DELETE("/playback/sessions/:id", h.close)
}

func (h *Handler) providers(c *gin.Context) {
	list := h.Manager.Providers()
	out := make([]gin.H, 0, len(list))
	for _, p := range list {
		out = append(out, gin.H{"id": p.ID, "name": p.Name, "kind": p.Kind})
	}
	c.JSON(http.StatusOK, gin.H{"providers": out})
}

type openReq struct {
	MediaID     int    `json:"media_id"`
	SecondaryID string `json:"secondary_id"`
	Episode     int    `json:"episode"`
	Title       string `json:"title"`
}

func (h *Handler) open(c *gin.Context) {
	var req openReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.MediaID <= 0 || req.Episode <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_id and episode required"})
		return
	}

	s := h.Manager.Open(req.MediaID, req.SecondaryID, req.Episode, req.Title)
	h.respondSession(c, http.StatusCreated, s)
}

func (h *Handler) current(c *gin.Context) {
	s := h.Manager.Get(c.Param("id"))
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.respondSession(c, http.StatusOK, s)
}

func (h *Handler) cycle(c *gin.Context) {
	s := h.Manager.Get(c.Param("id"))
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	s.Cycle()
	h.respondSession(c, http.StatusOK, s)
}

func (h *Handler) close(c *gin.Context) {
	h.Manager.Close(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

func (h *Handler) respondSession(c *gin.Context, status int, s *Session) {
	p, url := s.Current()
	c.JSON(status, gin.H{
		"session_id":   s.ID,
		"media_id":     s.MediaID,
		"episode":      s.Episode,
		"title":        s.Title,
		"active_index": s.ActiveIndex(),
		"provider": gin.H{
			"id":   p.ID,
			"name": p.Name,
			"kind": p.Kind,
		},
		"url": url,
	})
}
