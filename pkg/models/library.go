package models

import "time"

// Library entry lifecycle statuses.
const (
	StatusReading    = "READING"
	StatusCompleted  = "COMPLETED"
	StatusPlanToRead = "PLAN_TO_READ"
	StatusDropped    = "DROPPED"
)

// LibraryEntry is one row of a user's library. The sqlite store owns it; the
// engine only ever holds read snapshots. Title and CoverURL are denormalized
// copies of catalog fields so the library renders without a catalog call.
type LibraryEntry struct {
	UserID          string     `json:"user_id"`
	MediaID         int        `json:"media_id"`
	MediaKind       string     `json:"media_kind"` // ANIME, MANGA, MANHWA or MANHUA
	Status          string     `json:"status"`
	ProgressVolume  int        `json:"progress_volume"`
	ProgressChapter int        `json:"progress_chapter"`
	ProgressEpisode int        `json:"progress_episode"`
	Title           string     `json:"title"`
	CoverURL        string     `json:"cover_url,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"` // nil sorts as oldest
}
