package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "https://graphql.anilist.co", cfg.CatalogURL)
	assert.Equal(t, 12*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, time.Hour, cfg.RecommendTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWTDuration)
	assert.NotEmpty(t, cfg.DatabasePath)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ANIBOARD_LISTEN_ADDR", ":9999")
	t.Setenv("ANIBOARD_CATALOG_URL", "http://localhost:4000")
	t.Setenv("ANIBOARD_FEED_TTL", "30s")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:4000", cfg.CatalogURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTTL)
}
