package catalog

import (
	"context"
	"strings"

	"aniboard/internal/taxonomy"
	"aniboard/pkg/models"
)

// FeedSections are the four named sections of one batched feed query. All
// four reflect a single point-in-time remote snapshot.
type FeedSections struct {
	Heroes     []models.MediaSummary `json:"heroes"`
	Popular    []models.MediaSummary `json:"popular"`
	TopRated   []models.MediaSummary `json:"top_rated"`
	Favourites []models.MediaSummary `json:"favourites"`
}

// SearchResults groups free-text hits per taxonomy bucket, up to 6 each.
type SearchResults struct {
	Anime  []models.MediaSummary `json:"anime"`
	Manga  []models.MediaSummary `json:"manga"`
	Manhwa []models.MediaSummary `json:"manhwa"`
	Manhua []models.MediaSummary `json:"manhua"`
}

type page struct {
	Media []wireMedia `json:"media"`
}

// Feed issues the batched four-section query for the given filter params.
// Any remote error fails the whole fetch; no partial feed is returned.
func (c *Client) Feed(ctx context.Context, params taxonomy.FilterParams) (FeedSections, error) {
	var data struct {
		Heroes     page `json:"heroes"`
		Popular    page `json:"popular"`
		TopRated   page `json:"topRated"`
		Favourites page `json:"favourites"`
	}
	if err := c.query(ctx, feedQuery, filterVars(params), &data); err != nil {
		return FeedSections{}, err
	}

	return FeedSections{
		Heroes:     toSummaries(data.Heroes.Media),
		Popular:    toSummaries(data.Popular.Media),
		TopRated:   toSummaries(data.TopRated.Media),
		Favourites: toSummaries(data.Favourites.Media),
	}, nil
}

// Similar returns up to 5 community recommendations for one catalog id,
// best-rated first.
func (c *Client) Similar(ctx context.Context, mediaID int) ([]models.MediaSummary, error) {
	var data struct {
		Media struct {
			Recommendations struct {
				Nodes []struct {
					MediaRecommendation *wireMedia `json:"mediaRecommendation"`
				} `json:"nodes"`
			} `json:"recommendations"`
		} `json:"Media"`
	}
	if err := c.query(ctx, similarQuery, map[string]any{"id": mediaID}, &data); err != nil {
		return nil, err
	}

	nodes := data.Media.Recommendations.Nodes
	out := make([]models.MediaSummary, 0, len(nodes))
	for _, n := range nodes {
		if n.MediaRecommendation == nil {
			continue
		}
		if s, ok := n.MediaRecommendation.toSummary(); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Search runs one batched free-text query across the four taxonomy buckets.
func (c *Client) Search(ctx context.Context, term string) (SearchResults, error) {
	var data struct {
		Anime  page `json:"anime"`
		Manga  page `json:"manga"`
		Manhwa page `json:"manhwa"`
		Manhua page `json:"manhua"`
	}
	vars := map[string]any{"search": strings.TrimSpace(term)}
	if err := c.query(ctx, searchQuery, vars, &data); err != nil {
		return SearchResults{}, err
	}

	return SearchResults{
		Anime:  toSummaries(data.Anime.Media),
		Manga:  toSummaries(data.Manga.Media),
		Manhwa: toSummaries(data.Manhwa.Media),
		Manhua: toSummaries(data.Manhua.Media),
	}, nil
}

// Detail fetches the extended single-id record. A missing id surfaces as a
// remote error from the catalog, not a nil result.
func (c *Client) Detail(ctx context.Context, mediaID int) (*models.MediaDetail, error) {
	var data struct {
		Media struct {
			ID    int `json:"id"`
			Title struct {
				Romaji  string `json:"romaji"`
				English string `json:"english"`
				Native  string `json:"native"`
			} `json:"title"`
			CoverImage struct {
				Large      string `json:"large"`
				ExtraLarge string `json:"extraLarge"`
			} `json:"coverImage"`
			BannerImage     string   `json:"bannerImage"`
			Description     string   `json:"description"`
			Status          string   `json:"status"`
			Type            string   `json:"type"`
			CountryOfOrigin string   `json:"countryOfOrigin"`
			Episodes        int      `json:"episodes"`
			Chapters        int      `json:"chapters"`
			Volumes         int      `json:"volumes"`
			AverageScore    *int     `json:"averageScore"`
			Genres          []string `json:"genres"`
			Relations       struct {
				Edges []struct {
					RelationType string `json:"relationType"`
					Node         struct {
						ID    int `json:"id"`
						Title struct {
							Romaji string `json:"romaji"`
						} `json:"title"`
						CoverImage struct {
							Medium string `json:"medium"`
						} `json:"coverImage"`
						Type string `json:"type"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"relations"`
		} `json:"Media"`
	}
	if err := c.query(ctx, detailQuery, map[string]any{"id": mediaID}, &data); err != nil {
		return nil, err
	}

	m := data.Media
	if m.ID == 0 || (m.Title.Romaji == "" && m.Title.English == "") {
		return nil, ErrRemote
	}

	kind := models.KindPrint
	if m.Type == "ANIME" {
		kind = models.KindEpisodic
	}
	cover := m.CoverImage.ExtraLarge
	if cover == "" {
		cover = m.CoverImage.Large
	}

	detail := &models.MediaDetail{
		MediaSummary: models.MediaSummary{
			ID:           m.ID,
			TitleRomaji:  m.Title.Romaji,
			TitleEnglish: m.Title.English,
			CoverURL:     cover,
			Kind:         kind,
			Origin:       m.CountryOfOrigin,
			Score:        m.AverageScore,
			Genres:       m.Genres,
		},
		TitleNative:  m.Title.Native,
		BannerURL:    m.BannerImage,
		Description:  m.Description,
		Status:       m.Status,
		Episodes:     m.Episodes,
		Chapters:     m.Chapters,
		Volumes:      m.Volumes,
	}
	for _, e := range m.Relations.Edges {
		if e.Node.ID == 0 {
			continue
		}
		relKind := models.KindPrint
		if e.Node.Type == "ANIME" {
			relKind = models.KindEpisodic
		}
		detail.Relations = append(detail.Relations, models.MediaRelation{
			RelationType: e.RelationType,
			ID:           e.Node.ID,
			TitleRomaji:  e.Node.Title.Romaji,
			CoverURL:     e.Node.CoverImage.Medium,
			Kind:         relKind,
		})
	}
	return detail, nil
}
