package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs. Values come from an optional
// config.toml and ANIBOARD_* environment variables, env winning.
type Config struct {
	ListenAddr   string
	SyncAddr     string // TCP sync listener, empty disables it
	DatabasePath string
	LogLevel     string

	CatalogURL     string
	CatalogTimeout time.Duration

	FeedTTL      time.Duration
	RecommendTTL time.Duration

	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

// Load reads configuration. Only the JWT secret is required outside of dev;
// everything else has a working default.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("aniboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("sync_addr", ":7070")
	v.SetDefault("database_path", defaultDatabasePath())
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog_url", "https://graphql.anilist.co")
	v.SetDefault("catalog_timeout", "12s")
	v.SetDefault("feed_ttl", "10m")
	v.SetDefault("recommend_ttl", "1h")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("jwt_issuer", "aniboard")
	v.SetDefault("jwt_ttl", "24h")

	if err := v.ReadInConfig(); err != nil {
		// the config file is optional, env and defaults still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ListenAddr:     v.GetString("listen_addr"),
		SyncAddr:       v.GetString("sync_addr"),
		DatabasePath:   v.GetString("database_path"),
		LogLevel:       v.GetString("log_level"),
		CatalogURL:     v.GetString("catalog_url"),
		CatalogTimeout: v.GetDuration("catalog_timeout"),
		FeedTTL:        v.GetDuration("feed_ttl"),
		RecommendTTL:   v.GetDuration("recommend_ttl"),
		JWTSecret:      v.GetString("jwt_secret"),
		JWTIssuer:      v.GetString("jwt_issuer"),
		JWTDuration:    v.GetDuration("jwt_ttl"),
	}

	if cfg.CatalogURL == "" {
		return nil, fmt.Errorf("catalog_url must not be empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret must not be empty")
	}
	if cfg.CatalogTimeout <= 0 {
		cfg.CatalogTimeout = 12 * time.Second
	}
	if cfg.JWTDuration <= 0 {
		cfg.JWTDuration = 24 * time.Hour
	}

	return cfg, nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".aniboard", "data.db")
}
