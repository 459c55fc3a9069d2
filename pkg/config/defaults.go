package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration.
const (
	DefaultBackendTimeout  = 10 * time.Second
	DefaultPageSize        = 30
	MaxPageSize            = 500
	DefaultCacheMaxEntries = 50
	DefaultServerAddr      = ":8090"
	DefaultTimezone        = "Local"
)

// Environment variable names.
const (
	EnvBackendURL   = "ETLWATCH_BACKEND_URL"
	EnvBackendToken = "ETLWATCH_BACKEND_TOKEN"
	EnvTimezone     = "ETLWATCH_TIMEZONE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Timeout: DefaultBackendTimeout,
		},
		Timezone: DefaultTimezone,
		PageSize: DefaultPageSize,
		Cache: CacheConfig{
			Backend:    CacheBackendFile,
			Path:       defaultCachePath(),
			MaxEntries: DefaultCacheMaxEntries,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// defaultCachePath returns ~/.etlwatch/joblog.json, or a relative path when
// the home directory is unknown.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".etlwatch", "joblog.json")
	}
	return filepath.Join(home, ".etlwatch", "joblog.json")
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if u := os.Getenv(EnvBackendURL); u != "" {
		c.Backend.URL = u
	}
	if tok := os.Getenv(EnvBackendToken); tok != "" {
		c.Backend.Token = tok
	}
	if tz := os.Getenv(EnvTimezone); tz != "" {
		c.Timezone = tz
	}
}
