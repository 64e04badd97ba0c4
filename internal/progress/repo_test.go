package progress

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aniboard/pkg/database"
	"aniboard/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewRepo(db)
}

func TestHistoryAppendAndListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, ep := range []int{1, 2, 3} {
		require.NoError(t, repo.Add(ctx, models.ProgressHistory{
			UserID:  "u1",
			MediaID: 21,
			Episode: ep,
			At:      base.Add(time.Duration(i) * time.Hour),
		}))
	}

	entries, total, err := repo.List(ctx, "u1", 21, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 3)
	assert.Equal(t, 3, entries[0].Episode)
	assert.Equal(t, 1, entries[2].Episode)
}

func TestHistoryScopedToUserAndMedia(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, models.ProgressHistory{UserID: "u1", MediaID: 1, Chapter: 10}))
	require.NoError(t, repo.Add(ctx, models.ProgressHistory{UserID: "u1", MediaID: 2, Chapter: 20}))
	require.NoError(t, repo.Add(ctx, models.ProgressHistory{UserID: "u2", MediaID: 1, Chapter: 30}))

	entries, total, err := repo.List(ctx, "u1", 1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, 10, entries[0].Chapter)
}

func TestHistoryPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Add(ctx, models.ProgressHistory{
			UserID: "u1", MediaID: 7, Episode: i + 1,
			At: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, total, err := repo.List(ctx, "u1", 7, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, 3, page[0].Episode)
	assert.Equal(t, 2, page[1].Episode)
}
