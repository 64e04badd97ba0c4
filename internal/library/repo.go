package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"aniboard/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// ListQuery narrows List. Zero values mean "no filter".
type ListQuery struct {
	Status string
	Kind   string
	Limit  int
	Offset int
}

// Upsert inserts or replaces the row keyed by (user_id, media_id). A conflict
// overwrites every supplied field; updated_at is always refreshed to now.
// Last write wins at this granularity.
func (r *Repo) Upsert(ctx context.Context, e models.LibraryEntry) error {
	now := time.Now().UTC()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_library
			(user_id, media_id, media_kind, status,
			 progress_volume, progress_chapter, progress_episode,
			 title, cover_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, media_id) DO UPDATE SET
			media_kind       = excluded.media_kind,
			status           = excluded.status,
			progress_volume  = excluded.progress_volume,
			progress_chapter = excluded.progress_chapter,
			progress_episode = excluded.progress_episode,
			title            = excluded.title,
			cover_url        = excluded.cover_url,
			updated_at       = excluded.updated_at
	`, e.UserID, e.MediaID, e.MediaKind, e.Status,
		e.ProgressVolume, e.ProgressChapter, e.ProgressEpisode,
		e.Title, e.CoverURL, now)
	if err != nil {
		return fmt.Errorf("upsert library entry: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID string, mediaID int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM user_library
		WHERE user_id = ? AND media_id = ?
	`, userID, mediaID)
	if err != nil {
		return false, fmt.Errorf("delete library entry: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Get(ctx context.Context, userID string, mediaID int) (*models.LibraryEntry, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT user_id, media_id, media_kind, status,
		       progress_volume, progress_chapter, progress_episode,
		       title, cover_url, updated_at
		FROM user_library
		WHERE user_id = ? AND media_id = ?
	`, userID, mediaID)

	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get library entry: %w", err)
	}
	return e, nil
}

// Snapshot returns the user's whole library ordered by last update, newest
// first, entries without a timestamp last. The result is a plain slice the
// caller owns; later mutations never touch it.
func (r *Repo) Snapshot(ctx context.Context, userID string) ([]models.LibraryEntry, error) {
	return r.list(ctx, userID, ListQuery{})
}

// List returns the user's library narrowed by q, same ordering as Snapshot.
func (r *Repo) List(ctx context.Context, userID string, q ListQuery) ([]models.LibraryEntry, int, error) {
	where := sq.And{sq.Eq{"user_id": userID}}
	if q.Status != "" {
		where = append(where, sq.Eq{"status": q.Status})
	}
	if q.Kind != "" {
		where = append(where, sq.Eq{"media_kind": q.Kind})
	}

	countSQL, countArgs, err := sq.Select("COUNT(*)").From("user_library").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count library: %w", err)
	}

	items, err := r.listWhere(ctx, where, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Repo) list(ctx context.Context, userID string, q ListQuery) ([]models.LibraryEntry, error) {
	return r.listWhere(ctx, sq.And{sq.Eq{"user_id": userID}}, q.Limit, q.Offset)
}

func (r *Repo) listWhere(ctx context.Context, where sq.Sqlizer, limit, offset int) ([]models.LibraryEntry, error) {
	builder := sq.Select(
		"user_id", "media_id", "media_kind", "status",
		"progress_volume", "progress_chapter", "progress_episode",
		"title", "cover_url", "updated_at",
	).
		From("user_library").
		Where(where).
		OrderBy("updated_at IS NULL", "updated_at DESC", "media_id ASC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit)).Offset(uint64(max(offset, 0)))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	defer rows.Close()

	var out []models.LibraryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan library row: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.LibraryEntry, error) {
	var e models.LibraryEntry
	var updated sql.NullTime
	if err := row.Scan(
		&e.UserID, &e.MediaID, &e.MediaKind, &e.Status,
		&e.ProgressVolume, &e.ProgressChapter, &e.ProgressEpisode,
		&e.Title, &e.CoverURL, &updated,
	); err != nil {
		return nil, err
	}
	if updated.Valid {
		t := updated.Time
		e.UpdatedAt = &t
	}
	return &e, nil
}
