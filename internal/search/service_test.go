package search

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aniboard/internal/catalog"
	"aniboard/pkg/models"
)

type fakeCatalog struct {
	searches int
	details  int
	results  catalog.SearchResults
	detail   *models.MediaDetail
}

func (f *fakeCatalog) Search(_ context.Context, _ string) (catalog.SearchResults, error) {
	f.searches++
	return f.results, nil
}

func (f *fakeCatalog) Detail(_ context.Context, _ int) (*models.MediaDetail, error) {
	f.details++
	return f.detail, nil
}

func TestSearchCachesNormalizedTerm(t *testing.T) {
	fc := &fakeCatalog{results: catalog.SearchResults{
		Anime: []models.MediaSummary{{ID: 1, TitleRomaji: "Berserk"}},
	}}
	svc := NewService(fc, time.Minute, zerolog.Nop())

	res, err := svc.Search(context.Background(), "berserk")
	require.NoError(t, err)
	require.Len(t, res.Anime, 1)

	_, err = svc.Search(context.Background(), "  Berserk ")
	require.NoError(t, err)
	assert.Equal(t, 1, fc.searches, "case and whitespace variants share a cache slot")
}

func TestDetailCachedPerID(t *testing.T) {
	fc := &fakeCatalog{detail: &models.MediaDetail{
		MediaSummary: models.MediaSummary{ID: 30, TitleRomaji: "Monster"},
	}}
	svc := NewService(fc, time.Minute, zerolog.Nop())

	d, err := svc.Detail(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "Monster", d.TitleRomaji)

	_, err = svc.Detail(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 1, fc.details)
}
