package playback

import (
	"fmt"
	"net/url"
)

// ProviderKind discriminates how the resolved URL is consumed: EMBED URLs
// go into an inline player frame, EXTERNAL_SEARCH URLs open out-of-band.
type ProviderKind string

const (
	KindEmbed          ProviderKind = "EMBED"
	KindExternalSearch ProviderKind = "EXTERNAL_SEARCH"
)

// Provider resolves an episode of a catalog title to an absolute URL. The
// resolver is pure; no network calls happen here.
type Provider struct {
	ID      string
	Name    string
	Kind    ProviderKind
	Resolve func(mediaID int, secondaryID string, episode int, title string) string
}

// DefaultProviders is the fixed ordered provider list. The first entry is
// the default; order is part of the contract since cycling walks it.
func DefaultProviders() []Provider {
	return []Provider{
		{
			ID:   "vidplus",
			Name: "VidPlus",
			Kind: KindEmbed,
			Resolve: func(mediaID int, _ string, episode int, _ string) string {
				return fmt.Sprintf("https://player.vidplus.to/embed/anime/%d/%d?dub=false&autoplay=true", mediaID, episode)
			},
		},
		{
			ID:   "vidsrc",
			Name: "VidSrc",
			Kind: KindEmbed,
			Resolve: func(mediaID int, _ string, episode int, _ string) string {
				return fmt.Sprintf("https://vidsrc.cc/v2/embed/anime/ani%d/%d/sub", mediaID, episode)
			},
		},
		{
			ID:   "2embed",
			Name: "2Embed",
			Kind: KindEmbed,
			Resolve: func(mediaID int, secondaryID string, episode int, _ string) string {
				// prefers the secondary catalog id when the caller has one
				id := secondaryID
				if id == "" {
					id = fmt.Sprintf("%d", mediaID)
				}
				return fmt.Sprintf("https://www.2embed.cc/embedtv/%s&s=1&e=%d", id, episode)
			},
		},
		{
			ID:   "websearch",
			Name: "Web search",
			Kind: KindExternalSearch,
			Resolve: func(_ int, _ string, episode int, title string) string {
				q := url.QueryEscape(fmt.Sprintf("%s episode %d watch", title, episode))
				return "https://duckduckgo.com/?q=" + q
			},
		},
	}
}
