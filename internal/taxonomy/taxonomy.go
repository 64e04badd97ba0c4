package taxonomy

import (
	"strings"

	"aniboard/pkg/models"
)

// Facet is one value of the content taxonomy: episodic video, one of the
// three print traditions, or the unified cross-type view.
type Facet string

const (
	FacetAnime   Facet = "ANIME"
	FacetManga   Facet = "MANGA"
	FacetManhwa  Facet = "MANHWA"
	FacetManhua  Facet = "MANHUA"
	FacetUnified Facet = "UNIFIED"
)

// FilterParams are the catalog filter parameters a facet resolves to. Zero
// values mean "no constraint".
type FilterParams struct {
	Kind   string // EPISODIC or PRINT, empty for UNIFIED
	Origin string // ISO country code, empty when unconstrained
}

// Parse normalizes a raw facet string. Unknown input is passed through
// unchanged; Resolve handles it.
func Parse(s string) Facet {
	return Facet(strings.ToUpper(strings.TrimSpace(s)))
}

// Resolve maps a facet to catalog filter parameters. Total and pure: any
// unrecognized facet resolves to the MANGA mapping. That default mirrors the
// shipped behavior and is deliberately not an error.
func Resolve(f Facet) FilterParams {
	switch f {
	case FacetUnified:
		return FilterParams{}
	case FacetAnime:
		return FilterParams{Kind: models.KindEpisodic}
	case FacetManga:
		return FilterParams{Kind: models.KindPrint, Origin: "JP"}
	case FacetManhwa:
		return FilterParams{Kind: models.KindPrint, Origin: "KR"}
	case FacetManhua:
		return FilterParams{Kind: models.KindPrint, Origin: "CN"}
	default:
		return FilterParams{Kind: models.KindPrint, Origin: "JP"}
	}
}

// Matches reports whether a catalog item satisfies the facet's filter.
// UNIFIED accepts everything.
func Matches(f Facet, m models.MediaSummary) bool {
	p := Resolve(f)
	if p.Kind != "" && m.Kind != p.Kind {
		return false
	}
	if p.Origin != "" && m.Origin != p.Origin {
		return false
	}
	return true
}

// MatchesEntry reports whether a library entry's media kind belongs to the
// facet. Entries are tagged with one of the four concrete facets, so this is
// facet equality with UNIFIED accepting everything.
func MatchesEntry(f Facet, e models.LibraryEntry) bool {
	if f == FacetUnified {
		return true
	}
	return Facet(e.MediaKind) == f
}
