package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProvidersOrder(t *testing.T) {
	list := DefaultProviders()
	require.NotEmpty(t, list)

	assert.Equal(t, "vidplus", list[0].ID, "first-listed provider is the default")
	assert.Equal(t, KindEmbed, list[0].Kind)
	assert.Equal(t, KindExternalSearch, list[len(list)-1].Kind)
}

func TestVidplusURL(t *testing.T) {
	p := DefaultProviders()[0]
	url := p.Resolve(21, "", 1071, "One Piece")
	assert.Equal(t, "https://player.vidplus.to/embed/anime/21/1071?dub=false&autoplay=true", url)
}

func TestExternalSearchURLEscapesTitle(t *testing.T) {
	list := DefaultProviders()
	p := list[len(list)-1]
	url := p.Resolve(0, "", 3, "Steins;Gate")
	assert.Contains(t, url, "Steins%3BGate")
	assert.Contains(t, url, "episode+3")
}

func TestCycleWraps(t *testing.T) {
	m, err := NewManager(DefaultProviders())
	require.NoError(t, err)
	require.Len(t, m.Providers(), 4)

	s := m.Open(21, "", 1, "One Piece")
	assert.Equal(t, 0, s.ActiveIndex())

	assert.Equal(t, 1, s.Cycle())
	assert.Equal(t, 2, s.Cycle())
	assert.Equal(t, 3, s.Cycle())
	// index 3 of 4 wraps back to 0
	assert.Equal(t, 0, s.Cycle())
}

func TestCurrentFollowsActiveProvider(t *testing.T) {
	m, err := NewManager(DefaultProviders())
	require.NoError(t, err)

	s := m.Open(99, "", 2, "Title")
	p, url := s.Current()
	assert.Equal(t, "vidplus", p.ID)
	assert.Contains(t, url, "/99/2")

	s.Cycle()
	p, _ = s.Current()
	assert.Equal(t, "vidsrc", p.ID)
}

func TestCloseDiscardsSession(t *testing.T) {
	m, err := NewManager(DefaultProviders())
	require.NoError(t, err)

	s := m.Open(1, "", 1, "x")
	require.NotNil(t, m.Get(s.ID))

	m.Close(s.ID)
	assert.Nil(t, m.Get(s.ID))
}

func TestEmptyProviderListRejected(t *testing.T) {
	_, err := NewManager(nil)
	assert.Error(t, err)
}
