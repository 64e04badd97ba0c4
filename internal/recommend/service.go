package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"aniboard/internal/cache"
	"aniboard/internal/catalog"
	"aniboard/internal/taxonomy"
	"aniboard/pkg/models"
)

// maxResults caps the recommendation list.
const maxResults = 12

// maxSeeds is how many recently-updated library entries source the fan-out.
const maxSeeds = 3

// SimilarProvider is the per-id similarity slice of the catalog client.
type SimilarProvider interface {
	Similar(ctx context.Context, mediaID int) ([]models.MediaSummary, error)
}

// FeedProvider supplies the trending feed used when the library has nothing
// in facet. Wired to the feed service so the fallback shares its cache.
type FeedProvider interface {
	Fetch(ctx context.Context, facet taxonomy.Facet) (catalog.FeedSections, error)
}

// Service derives a personalized recommendation list from a library
// snapshot. Results are ephemeral and recomputed per query; only the cache
// below holds them, keyed per user.
type Service struct {
	similar  SimilarProvider
	feeds    FeedProvider
	cache    *cache.Cache
	requests *cache.RequestTracker
	log      zerolog.Logger
}

func NewService(similar SimilarProvider, feeds FeedProvider, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		similar:  similar,
		feeds:    feeds,
		cache:    cache.New(ttl),
		requests: cache.NewRequestTracker(),
		log:      log.With().Str("component", "recommend").Logger(),
	}
}

// Recommend returns up to 12 titles the user does not own, matching facet.
//
// The cache key embeds a fingerprint of the snapshot content, so two
// same-size libraries with different membership never collide. A finished
// computation is cached only while it is still the latest issued for
// (user, facet); a slower earlier request cannot overwrite a newer one.
func (s *Service) Recommend(ctx context.Context, userID string, facet taxonomy.Facet, entries []models.LibraryEntry) ([]models.MediaSummary, error) {
	key := "rec:" + userID + ":" + string(facet) + ":" + snapshotFingerprint(entries)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.MediaSummary), nil
	}

	reqID := s.requests.Begin("rec:" + userID + ":" + string(facet))

	out, err := s.compute(ctx, facet, entries)
	if err != nil {
		s.log.Warn().Err(err).Str("facet", string(facet)).Msg("recommendation computation failed")
		return nil, err
	}

	if s.requests.IsLatest("rec:"+userID+":"+string(facet), reqID) {
		s.cache.Set(key, out)
	}
	return out, nil
}

// InvalidateUser drops every cached recommendation for the user. Called
// after each library mutation; the key is the user identity, not the value.
func (s *Service) InvalidateUser(userID string) {
	s.cache.DeletePrefix("rec:" + userID + ":")
}

func (s *Service) compute(ctx context.Context, facet taxonomy.Facet, entries []models.LibraryEntry) ([]models.MediaSummary, error) {
	owned := ownedIDs(entries)

	subset := make([]models.LibraryEntry, 0, len(entries))
	for _, e := range entries {
		if taxonomy.MatchesEntry(facet, e) {
			subset = append(subset, e)
		}
	}

	// nothing of this facet owned yet: recommend what is trending, minus
	// anything owned under any facet
	if len(subset) == 0 {
		feed, err := s.feeds.Fetch(ctx, facet)
		if err != nil {
			return nil, err
		}
		out := make([]models.MediaSummary, 0, len(feed.Popular))
		for _, m := range feed.Popular {
			if _, ok := owned[m.ID]; !ok {
				out = append(out, m)
			}
		}
		return out, nil
	}

	seeds := selectSeeds(subset)

	// one similarity query per seed, concurrently; the join is
	// all-or-nothing, a single failure fails the whole computation
	results := make([][]models.MediaSummary, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		g.Go(func() error {
			similar, err := s.similar.Similar(gctx, seed.MediaID)
			if err != nil {
				return err
			}
			results[i] = similar
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// flatten in seed order, dedup keeping the first occurrence, drop owned
	// ids and facet mismatches, cap
	seen := make(map[int]struct{})
	out := make([]models.MediaSummary, 0, maxResults)
	for _, batch := range results {
		for _, m := range batch {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			if _, own := owned[m.ID]; own {
				continue
			}
			if !taxonomy.Matches(facet, m) {
				continue
			}
			out = append(out, m)
			if len(out) == maxResults {
				return out, nil
			}
		}
	}
	return out, nil
}

// selectSeeds picks the up-to-3 most recently updated entries. Entries
// without a timestamp sort as oldest; ordering is stable and deterministic,
// never sampled at random.
func selectSeeds(subset []models.LibraryEntry) []models.LibraryEntry {
	sorted := make([]models.LibraryEntry, len(subset))
	copy(sorted, subset)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].UpdatedAt, sorted[j].UpdatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(sorted) > maxSeeds {
		sorted = sorted[:maxSeeds]
	}
	return sorted
}

func ownedIDs(entries []models.LibraryEntry) map[int]struct{} {
	owned := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		owned[e.MediaID] = struct{}{}
	}
	return owned
}
