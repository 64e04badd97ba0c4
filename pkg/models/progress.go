package models

import "time"

// ProgressHistory is one append-only progress log row, written whenever a
// library entry's counters change.
type ProgressHistory struct {
	UserID  string    `json:"user_id"`
	MediaID int       `json:"media_id"`
	Volume  int       `json:"volume"`
	Chapter int       `json:"chapter"`
	Episode int       `json:"episode"`
	At      time.Time `json:"at"`
}
