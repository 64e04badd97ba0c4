package models

// Content kinds as reported by the catalog.
const (
	KindEpisodic = "EPISODIC"
	KindPrint    = "PRINT"
)

// MediaSummary is a read-only projection of one catalog item. It is never
// written back; the catalog owns it.
type MediaSummary struct {
	ID           int      `json:"id"`
	TitleRomaji  string   `json:"title_romaji"`
	TitleEnglish string   `json:"title_english,omitempty"`
	CoverURL     string   `json:"cover_url,omitempty"`
	Kind         string   `json:"kind"` // EPISODIC or PRINT
	Origin       string   `json:"origin,omitempty"`
	Score        *int     `json:"score,omitempty"` // 0-100, absent when unrated
	Rank         *int     `json:"rank,omitempty"`
	Genres       []string `json:"genres,omitempty"`
}

// DisplayTitle prefers the English title and falls back to romaji.
func (m MediaSummary) DisplayTitle() string {
	if m.TitleEnglish != "" {
		return m.TitleEnglish
	}
	return m.TitleRomaji
}

// MediaDetail extends MediaSummary with the fields returned only by the
// single-id detail query.
type MediaDetail struct {
	MediaSummary
	TitleNative   string          `json:"title_native,omitempty"`
	BannerURL     string          `json:"banner_url,omitempty"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status,omitempty"`
	Episodes      int             `json:"episodes,omitempty"`
	Chapters      int             `json:"chapters,omitempty"`
	Volumes       int             `json:"volumes,omitempty"`
	Relations     []MediaRelation `json:"relations,omitempty"`
}

// MediaRelation links a series to a related one (sequel, adaptation, ...).
type MediaRelation struct {
	RelationType string `json:"relation_type"`
	ID           int    `json:"id"`
	TitleRomaji  string `json:"title_romaji"`
	CoverURL     string `json:"cover_url,omitempty"`
	Kind         string `json:"kind"`
}
