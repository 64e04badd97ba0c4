package sync

import "time"

// Event types carried on the sync feed. Clients holding cached library or
// recommendation state for a user treat any of them as an invalidation
// signal; the key is the user identity, not the payload.
const (
	EventLibraryUpdate = "library.update"
	EventLibraryDelete = "library.delete"
)

type LibraryEvent struct {
	Type            string    `json:"type"`
	UserID          string    `json:"user_id"`
	MediaID         int       `json:"media_id"`
	MediaKind       string    `json:"media_kind,omitempty"`
	Status          string    `json:"status,omitempty"`
	ProgressVolume  int       `json:"progress_volume,omitempty"`
	ProgressChapter int       `json:"progress_chapter,omitempty"`
	ProgressEpisode int       `json:"progress_episode,omitempty"`
	At              time.Time `json:"at"`
}
