// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure. It is loaded once at
// startup and treated as immutable for the life of the process; changing
// the playback source requires a restart.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Playback PlaybackConfig `toml:"playback"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Cache    CacheConfig    `toml:"cache"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// PlaybackConfig selects the active catalog source and tunes the
// playback session controller.
type PlaybackConfig struct {
	// Source is "local" or "xtream".
	Source string `toml:"source"`
	// RelayURL is the HTTPS-upgrading relay plain-HTTP media is routed
	// through. Empty disables rewriting.
	RelayURL string `toml:"relay_url"`
	// CheckpointInterval is how often playing sessions persist position.
	CheckpointInterval time.Duration `toml:"checkpoint_interval"`
	PageSize           int           `toml:"page_size"`
}

type CatalogConfig struct {
	Local  *LocalCatalogConfig  `toml:"local"`
	Xtream *XtreamCatalogConfig `toml:"xtream"`
}

type LocalCatalogConfig struct {
	URL string `toml:"url"`
}

// XtreamCatalogConfig holds provider panel credentials. The upstream
// protocol embeds these in playable URLs; they must never be logged.
type XtreamCatalogConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type CacheConfig struct {
	// RedisURL enables the Redis-backed provider list cache when set,
	// e.g. "redis://localhost:6379/0". Empty selects the in-memory cache.
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8575
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/flix.db"
	}
	if cfg.Playback.Source == "" {
		cfg.Playback.Source = SourceLocal
	}
	if cfg.Playback.CheckpointInterval == 0 {
		cfg.Playback.CheckpointInterval = 5 * time.Second
	}
	if cfg.Playback.PageSize == 0 {
		cfg.Playback.PageSize = 48
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
