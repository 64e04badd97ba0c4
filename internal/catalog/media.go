package catalog

import (
	"aniboard/internal/taxonomy"
	"aniboard/pkg/models"
)

// wireMedia mirrors the catalog's media selection. Conversion drops items
// missing required identity fields (id, any title); optional fields degrade
// to zero values.
type wireMedia struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	CoverImage struct {
		Medium     string `json:"medium"`
		Large      string `json:"large"`
		ExtraLarge string `json:"extraLarge"`
	} `json:"coverImage"`
	Type            string `json:"type"` // ANIME or MANGA upstream
	CountryOfOrigin string `json:"countryOfOrigin"`
	AverageScore    *int   `json:"averageScore"`
	Rankings        []struct {
		Rank    int    `json:"rank"`
		Type    string `json:"type"`
		AllTime bool   `json:"allTime"`
	} `json:"rankings"`
	Genres []string `json:"genres"`
}

func (w wireMedia) toSummary() (models.MediaSummary, bool) {
	if w.ID == 0 || (w.Title.Romaji == "" && w.Title.English == "") {
		return models.MediaSummary{}, false
	}

	kind := models.KindPrint
	origin := w.CountryOfOrigin
	if w.Type == "ANIME" {
		kind = models.KindEpisodic
	}

	cover := w.CoverImage.ExtraLarge
	if cover == "" {
		cover = w.CoverImage.Large
	}

	var rank *int
	for _, r := range w.Rankings {
		if r.Type == "POPULAR" && r.AllTime {
			v := r.Rank
			rank = &v
			break
		}
	}

	return models.MediaSummary{
		ID:           w.ID,
		TitleRomaji:  w.Title.Romaji,
		TitleEnglish: w.Title.English,
		CoverURL:     cover,
		Kind:         kind,
		Origin:       origin,
		Score:        w.AverageScore,
		Rank:         rank,
		Genres:       w.Genres,
	}, true
}

func toSummaries(in []wireMedia) []models.MediaSummary {
	out := make([]models.MediaSummary, 0, len(in))
	for _, w := range in {
		if s, ok := w.toSummary(); ok {
			out = append(out, s)
		}
	}
	return out
}

// filterVars maps resolved facet filter params onto the catalog's query
// variables. Nil variables mean "unconstrained".
func filterVars(p taxonomy.FilterParams) map[string]any {
	vars := map[string]any{}
	switch p.Kind {
	case models.KindEpisodic:
		vars["type"] = "ANIME"
	case models.KindPrint:
		vars["type"] = "MANGA"
	}
	if p.Origin != "" {
		vars["country"] = p.Origin
	}
	return vars
}
