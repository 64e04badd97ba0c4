package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aniboard/pkg/models"
)

func TestResolveMappingTable(t *testing.T) {
	tests := []struct {
		name  string
		facet Facet
		want  FilterParams
	}{
		{"unified carries no filter", FacetUnified, FilterParams{}},
		{"anime is episodic with no origin", FacetAnime, FilterParams{Kind: models.KindEpisodic}},
		{"manga is print from JP", FacetManga, FilterParams{Kind: models.KindPrint, Origin: "JP"}},
		{"manhwa is print from KR", FacetManhwa, FilterParams{Kind: models.KindPrint, Origin: "KR"}},
		{"manhua is print from CN", FacetManhua, FilterParams{Kind: models.KindPrint, Origin: "CN"}},
		{"unknown falls back to the manga mapping", Facet("WEBTOON"), FilterParams{Kind: models.KindPrint, Origin: "JP"}},
		{"empty falls back to the manga mapping", Facet(""), FilterParams{Kind: models.KindPrint, Origin: "JP"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.facet))
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, Resolve(FacetManhwa), Resolve(FacetManhwa))
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, FacetAnime, Parse("  anime "))
	assert.Equal(t, FacetManhua, Parse("Manhua"))
	assert.Equal(t, Facet("BOGUS"), Parse("bogus"))
}

func TestMatches(t *testing.T) {
	episodic := models.MediaSummary{ID: 1, TitleRomaji: "a", Kind: models.KindEpisodic}
	printJP := models.MediaSummary{ID: 2, TitleRomaji: "b", Kind: models.KindPrint, Origin: "JP"}
	printKR := models.MediaSummary{ID: 3, TitleRomaji: "c", Kind: models.KindPrint, Origin: "KR"}

	assert.True(t, Matches(FacetAnime, episodic))
	assert.False(t, Matches(FacetAnime, printJP))
	assert.True(t, Matches(FacetManga, printJP))
	assert.False(t, Matches(FacetManga, printKR))
	assert.True(t, Matches(FacetManhwa, printKR))
	assert.True(t, Matches(FacetUnified, episodic))
	assert.True(t, Matches(FacetUnified, printKR))
}

func TestMatchesEntry(t *testing.T) {
	e := models.LibraryEntry{MediaKind: "MANHWA"}
	assert.True(t, MatchesEntry(FacetManhwa, e))
	assert.False(t, MatchesEntry(FacetManga, e))
	assert.True(t, MatchesEntry(FacetUnified, e))
}
