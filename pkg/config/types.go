// Package config provides configuration loading and validation for etlwatch.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Backend  BackendConfig `yaml:"backend"`
	Timezone string        `yaml:"timezone,omitempty"`
	PageSize int           `yaml:"page_size,omitempty"`
	Cache    CacheConfig   `yaml:"cache,omitempty"`
	Server   ServerConfig  `yaml:"server,omitempty"`

	// location is the resolved Timezone (populated during validation).
	location *time.Location
}

// Location returns the resolved timezone. Raw backend timestamps without a
// zone are read in this location.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// BackendConfig defines how to reach the analytics backend.
type BackendConfig struct {
	// URL is the backend base URL (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Timeout is the per-request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// CacheBackend selects where the job-log cache lives.
type CacheBackend string

const (
	// CacheBackendMemory keeps the job log for the life of the process.
	CacheBackendMemory CacheBackend = "memory"
	// CacheBackendFile stores the job log in a JSON file (default).
	CacheBackendFile CacheBackend = "file"
	// CacheBackendSQLite stores the job log in a SQLite database.
	CacheBackendSQLite CacheBackend = "sqlite"
)

// CacheConfig defines the job-log cache.
type CacheConfig struct {
	Backend    CacheBackend `yaml:"backend,omitempty"`
	Path       string       `yaml:"path,omitempty"`
	MaxEntries int          `yaml:"max_entries,omitempty"`
}

// ServerConfig defines the read-only HTTP service.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}
