package config

import (
	"fmt"
	"strings"
)

// Playback source selectors.
const (
	SourceLocal  = "local"
	SourceXtream = "xtream"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validSources = map[string]bool{
	SourceLocal: true, SourceXtream: true,
}

// Error aggregates configuration validation failures.
type Error struct {
	Errors []string
}

func (e *Error) Error() string {
	parts := []string{"validation failed:"}
	for _, err := range e.Errors {
		parts = append(parts, fmt.Sprintf("  - %s", err))
	}
	return strings.Join(parts, "\n")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if !validSources[c.Playback.Source] {
		errs = append(errs, fmt.Sprintf("playback.source: must be %q or %q; got %q", SourceLocal, SourceXtream, c.Playback.Source))
	}
	if c.Playback.PageSize < 0 {
		errs = append(errs, fmt.Sprintf("playback.page_size: must be positive, got %d", c.Playback.PageSize))
	}

	switch c.Playback.Source {
	case SourceLocal:
		if c.Catalog.Local == nil || c.Catalog.Local.URL == "" {
			errs = append(errs, "catalog.local.url: required when playback.source is local")
		}
	case SourceXtream:
		if c.Catalog.Xtream == nil {
			errs = append(errs, "catalog.xtream: required when playback.source is xtream")
		} else {
			if c.Catalog.Xtream.URL == "" {
				errs = append(errs, "catalog.xtream.url: required")
			}
			if c.Catalog.Xtream.Username == "" {
				errs = append(errs, "catalog.xtream.username: required")
			}
			if c.Catalog.Xtream.Password == "" {
				errs = append(errs, "catalog.xtream.password: required")
			}
		}
	}

	if len(errs) > 0 {
		return &Error{Errors: errs}
	}
	return nil
}
