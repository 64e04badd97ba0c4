package library

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"aniboard/internal/auth"
	"aniboard/internal/progress"
	synchub "aniboard/internal/sync"
	"aniboard/pkg/models"
)

// Invalidator is notified after every mutation so per-user cached
// computations are recomputed on the next read.
type Invalidator interface {
	InvalidateUser(userID string)
}

type Handler struct {
	Repo        *Repo
	History     *progress.Repo
	Hub         *synchub.Hub
	Invalidator Invalidator

	log zerolog.Logger
}

func NewHandler(repo *Repo, history *progress.Repo, hub *synchub.Hub, inv Invalidator, log zerolog.Logger) *Handler {
	return &Handler{
		Repo:        repo,
		History:     history,
		Hub:         hub,
		Invalidator: inv,
		log:         log.With().Str("component", "library").Logger(),
	}
}

// RegisterRoutes registers the mutation routes; they require authentication.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/library", h.upsert)
	rg.PUT("/library/:media_id", h.upsert)
	rg.DELETE("/library/:media_id", h.remove)
	rg.GET("/library/:media_id", h.getOne)
}

// RegisterReadRoutes registers the listing route; unauthenticated callers get
// an empty library rather than an error.
func (h *Handler) RegisterReadRoutes(rg *gin.RouterGroup) {
	rg.GET("/library", h.list)
}

type upsertReq struct {
	MediaID         int    `json:"media_id"` // required for POST
	MediaKind       string `json:"media_kind"`
	Status          string `json:"status"`
	ProgressVolume  *int   `json:"progress_volume,omitempty"`
	ProgressChapter *int   `json:"progress_chapter,omitempty"`
	ProgressEpisode *int   `json:"progress_episode,omitempty"`
	Title           string `json:"title"`
	CoverURL        string `json:"cover_url"`
}

func (h *Handler) upsert(c *gin.Context) {
	claims := auth.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	mediaID := req.MediaID
	if mediaID == 0 {
		mediaID = parseInt(c.Param("media_id"), 0)
	}
	if mediaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_id required"})
		return
	}

	for _, p := range []*int{req.ProgressVolume, req.ProgressChapter, req.ProgressEpisode} {
		if p != nil && *p < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be >= 0"})
			return
		}
	}

	existing, err := h.Repo.Get(c.Request.Context(), claims.UserID, mediaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	entry := models.LibraryEntry{UserID: claims.UserID, MediaID: mediaID}
	if existing != nil {
		entry = *existing
	}

	// partial upsert: supplied fields overwrite, omitted fields survive
	if req.MediaKind != "" {
		kind := normalizeKind(req.MediaKind)
		if kind == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "media_kind must be one of: ANIME, MANGA, MANHWA, MANHUA"})
			return
		}
		entry.MediaKind = kind
	}
	if req.Status != "" {
		status := normalizeStatus(req.Status)
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: READING, COMPLETED, PLAN_TO_READ, DROPPED"})
			return
		}
		entry.Status = status
	}
	if entry.MediaKind == "" || entry.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_kind and status required for a new entry"})
		return
	}
	if req.ProgressVolume != nil {
		entry.ProgressVolume = *req.ProgressVolume
	}
	if req.ProgressChapter != nil {
		entry.ProgressChapter = *req.ProgressChapter
	}
	if req.ProgressEpisode != nil {
		entry.ProgressEpisode = *req.ProgressEpisode
	}
	if req.Title != "" {
		entry.Title = req.Title
	}
	if req.CoverURL != "" {
		entry.CoverURL = req.CoverURL
	}

	if err := h.Repo.Upsert(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, mediaID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}

	if h.History != nil && progressChanged(existing, saved) {
		// history is best-effort, a failed append never fails the upsert
		err := h.History.Add(c.Request.Context(), models.ProgressHistory{
			UserID:  claims.UserID,
			MediaID: mediaID,
			Volume:  saved.ProgressVolume,
			Chapter: saved.ProgressChapter,
			Episode: saved.ProgressEpisode,
			At:      time.Now().UTC(),
		})
		if err != nil {
			h.log.Warn().Err(err).Int("media_id", mediaID).Msg("progress history append failed")
		}
	}

	h.afterMutation(claims.UserID, synchub.LibraryEvent{
		Type:            synchub.EventLibraryUpdate,
		UserID:          claims.UserID,
		MediaID:         mediaID,
		MediaKind:       saved.MediaKind,
		Status:          saved.Status,
		ProgressVolume:  saved.ProgressVolume,
		ProgressChapter: saved.ProgressChapter,
		ProgressEpisode: saved.ProgressEpisode,
		At:              time.Now().UTC(),
	})

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mediaID := parseInt(c.Param("media_id"), 0)
	if mediaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_id required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, mediaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.afterMutation(claims.UserID, synchub.LibraryEvent{
		Type:    synchub.EventLibraryDelete,
		UserID:  claims.UserID,
		MediaID: mediaID,
		At:      time.Now().UTC(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.GetClaims(c)
	if claims == nil {
		// reads never fail on missing identity, they see an empty library
		c.JSON(http.StatusOK, gin.H{"total": 0, "items": []models.LibraryEntry{}})
		return
	}

	q := ListQuery{
		Limit:  parseInt(c.Query("limit"), 0),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q.Status = normalizeStatus(s)
		if q.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
	}
	if k := strings.TrimSpace(c.Query("kind")); k != "" {
		q.Kind = normalizeKind(k)
		if q.Kind == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind filter"})
			return
		}
	}

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if items == nil {
		items = []models.LibraryEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "items": items})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mediaID := parseInt(c.Param("media_id"), 0)
	if mediaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_id required"})
		return
	}

	e, err := h.Repo.Get(c.Request.Context(), claims.UserID, mediaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) afterMutation(userID string, ev synchub.LibraryEvent) {
	if h.Invalidator != nil {
		h.Invalidator.InvalidateUser(userID)
	}
	if h.Hub != nil {
		go h.Hub.Broadcast(ev)
	}
}

func progressChanged(before, after *models.LibraryEntry) bool {
	if before == nil {
		return after.ProgressVolume > 0 || after.ProgressChapter > 0 || after.ProgressEpisode > 0
	}
	return before.ProgressVolume != after.ProgressVolume ||
		before.ProgressChapter != after.ProgressChapter ||
		before.ProgressEpisode != after.ProgressEpisode
}

func normalizeStatus(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case models.StatusReading:
		return models.StatusReading
	case models.StatusCompleted:
		return models.StatusCompleted
	case models.StatusPlanToRead, "PLAN TO READ":
		return models.StatusPlanToRead
	case models.StatusDropped:
		return models.StatusDropped
	default:
		return ""
	}
}

func normalizeKind(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ANIME":
		return "ANIME"
	case "MANGA":
		return "MANGA"
	case "MANHWA":
		return "MANHWA"
	case "MANHUA":
		return "MANHUA"
	default:
		return ""
	}
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
