package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aniboard/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Add appends one history row. History is write-only from the library path;
// nothing ever updates or deletes rows here.
func (r *Repo) Add(ctx context.Context, entry models.ProgressHistory) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_progress_history (user_id, media_id, volume, chapter, episode, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.UserID, entry.MediaID, entry.Volume, entry.Chapter, entry.Episode, entry.At)
	if err != nil {
		return fmt.Errorf("insert progress history: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, userID string, mediaID int, limit, offset int) ([]models.ProgressHistory, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_progress_history
		WHERE user_id = ? AND media_id = ?
	`, userID, mediaID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count progress history: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, media_id, volume, chapter, episode, at
		FROM user_progress_history
		WHERE user_id = ? AND media_id = ?
		ORDER BY at DESC
		LIMIT ? OFFSET ?
	`, userID, mediaID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list progress history: %w", err)
	}
	defer rows.Close()

	out := make([]models.ProgressHistory, 0, limit)
	for rows.Next() {
		var entry models.ProgressHistory
		if err := rows.Scan(&entry.UserID, &entry.MediaID, &entry.Volume, &entry.Chapter, &entry.Episode, &entry.At); err != nil {
			return nil, 0, fmt.Errorf("scan progress history: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows progress history: %w", err)
	}

	return out, total, nil
}
