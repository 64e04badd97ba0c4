package feed

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"aniboard/internal/cache"
	"aniboard/internal/catalog"
	"aniboard/internal/taxonomy"
)

// Catalog is the slice of the catalog client the feed fetcher needs.
type Catalog interface {
	Feed(ctx context.Context, params taxonomy.FilterParams) (catalog.FeedSections, error)
}

// Service fetches the four-section feed for a facet and caches it per facet.
type Service struct {
	catalog  Catalog
	cache    *cache.Cache
	requests *cache.RequestTracker
	log      zerolog.Logger
}

func NewService(c Catalog, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		catalog:  c,
		cache:    cache.New(ttl),
		requests: cache.NewRequestTracker(),
		log:      log.With().Str("component", "feed").Logger(),
	}
}

// Fetch returns the feed for facet, from cache when fresh. A remote failure
// fails the whole fetch; no partial feed is ever returned. A completed fetch
// is cached only while it is still the latest issued for its facet, so a
// slow stale response cannot overwrite a newer one.
func (s *Service) Fetch(ctx context.Context, facet taxonomy.Facet) (catalog.FeedSections, error) {
	key := "feed:" + string(facet)
	if v, ok := s.cache.Get(key); ok {
		return v.(catalog.FeedSections), nil
	}

	reqID := s.requests.Begin(key)

	sections, err := s.catalog.Feed(ctx, taxonomy.Resolve(facet))
	if err != nil {
		s.log.Warn().Err(err).Str("facet", string(facet)).Msg("feed fetch failed")
		return catalog.FeedSections{}, err
	}

	if s.requests.IsLatest(key, reqID) {
		s.cache.Set(key, sections)
	}
	return sections, nil
}

// Invalidate drops the cached feed for one facet.
func (s *Service) Invalidate(facet taxonomy.Facet) {
	s.cache.Delete("feed:" + string(facet))
}
