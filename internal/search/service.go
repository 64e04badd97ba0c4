package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aniboard/internal/cache"
	"aniboard/internal/catalog"
	"aniboard/pkg/models"
)

// Catalog is the slice of the catalog client the search surface consumes.
type Catalog interface {
	Search(ctx context.Context, term string) (catalog.SearchResults, error)
	Detail(ctx context.Context, mediaID int) (*models.MediaDetail, error)
}

// Service caches term searches and per-title detail lookups. Both are pure
// catalog pass-throughs; the cache only smooths repeated queries.
type Service struct {
	catalog Catalog
	cache   *cache.Cache
	log     zerolog.Logger
}

func NewService(c Catalog, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		catalog: c,
		cache:   cache.New(ttl),
		log:     log.With().Str("component", "search").Logger(),
	}
}

// Search runs a bucketed term search. Terms are trimmed and matched
// case-insensitively in the cache.
func (s *Service) Search(ctx context.Context, term string) (catalog.SearchResults, error) {
	term = strings.TrimSpace(term)
	key := "search:" + strings.ToLower(term)
	if v, ok := s.cache.Get(key); ok {
		return v.(catalog.SearchResults), nil
	}

	res, err := s.catalog.Search(ctx, term)
	if err != nil {
		return catalog.SearchResults{}, err
	}
	s.cache.Set(key, res)
	return res, nil
}

// Detail fetches the full record for one title.
func (s *Service) Detail(ctx context.Context, mediaID int) (*models.MediaDetail, error) {
	key := "series:" + strconv.Itoa(mediaID)
	if v, ok := s.cache.Get(key); ok {
		return v.(*models.MediaDetail), nil
	}

	d, err := s.catalog.Detail(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, d)
	return d, nil
}
