package library

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aniboard/pkg/database"
	"aniboard/pkg/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	// user_library.user_id references users(id) and foreign keys are on
	for _, id := range []string{"u1", "u2"} {
		_, err := db.Exec(`
			INSERT INTO users (id, username, email, password_hash)
			VALUES (?, ?, ?, 'x')
		`, id, id, id+"@example.com")
		require.NoError(t, err)
	}
	return db
}

func TestUpsertConflictLastWriteWins(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	first := models.LibraryEntry{
		UserID: "u1", MediaID: 100, MediaKind: "MANGA",
		Status: models.StatusReading, ProgressChapter: 10, Title: "Berserk",
	}
	require.NoError(t, repo.Upsert(ctx, first))

	second := first
	second.ProgressChapter = 25
	second.Status = models.StatusCompleted
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx, "u1", 100)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 25, got.ProgressChapter)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.NotNil(t, got.UpdatedAt)

	snapshot, err := repo.Snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, snapshot, 1, "conflict key is (user, media), not a surrogate id")
}

func TestSnapshotOrderingNullsLast(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.LibraryEntry{
		UserID: "u1", MediaID: 1, MediaKind: "ANIME", Status: models.StatusReading,
	}))
	require.NoError(t, repo.Upsert(ctx, models.LibraryEntry{
		UserID: "u1", MediaID: 2, MediaKind: "MANGA", Status: models.StatusReading,
	}))

	// a row that predates timestamping
	_, err := db.Exec(`
		INSERT INTO user_library (user_id, media_id, media_kind, status, updated_at)
		VALUES ('u1', 3, 'MANHWA', 'READING', NULL)
	`)
	require.NoError(t, err)

	snapshot, err := repo.Snapshot(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, snapshot, 3)
	assert.Equal(t, 3, snapshot[2].MediaID, "missing timestamp sorts last")
	assert.Nil(t, snapshot[2].UpdatedAt)
	assert.NotNil(t, snapshot[0].UpdatedAt)
}

func TestDelete(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.LibraryEntry{
		UserID: "u1", MediaID: 5, MediaKind: "ANIME", Status: models.StatusReading,
	}))

	ok, err := repo.Delete(ctx, "u1", 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "u1", 5)
	require.NoError(t, err)
	assert.False(t, ok, "second delete finds nothing")

	got, err := repo.Get(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListFilters(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	entries := []models.LibraryEntry{
		{UserID: "u1", MediaID: 1, MediaKind: "ANIME", Status: models.StatusReading},
		{UserID: "u1", MediaID: 2, MediaKind: "MANGA", Status: models.StatusReading},
		{UserID: "u1", MediaID: 3, MediaKind: "MANGA", Status: models.StatusDropped},
		{UserID: "u2", MediaID: 4, MediaKind: "MANGA", Status: models.StatusReading},
	}
	for _, e := range entries {
		require.NoError(t, repo.Upsert(ctx, e))
	}

	items, total, err := repo.List(ctx, "u1", ListQuery{Kind: "MANGA"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(ctx, "u1", ListQuery{Kind: "MANGA", Status: models.StatusDropped})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].MediaID)

	items, total, err = repo.List(ctx, "u3", ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}
