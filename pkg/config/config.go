package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Overrides are command-line values applied after the file and the environment.
type Overrides struct {
	BackendURL string
	Timezone   string
}

// Load reads and validates a configuration file.
func Load(ctx context.Context, path string) (*Config, error) {
	return Resolve(ctx, path, Overrides{})
}

// FromEnvironment builds a validated configuration from defaults and
// environment variables only. Used when no config file is given.
func FromEnvironment(ctx context.Context) (*Config, error) {
	return Resolve(ctx, "", Overrides{})
}

// Resolve layers defaults, the config file at path (skipped when path is
// empty), environment variables and o, then validates the result.
func Resolve(_ context.Context, path string, o Overrides) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if o.BackendURL != "" {
		cfg.Backend.URL = o.BackendURL
	}
	if o.Timezone != "" {
		cfg.Timezone = o.Timezone
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, fills defaults and resolves the timezone.
func Validate(cfg *Config) error {
	if err := validateBackend(&cfg.Backend); err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	if err := validateTimezone(cfg); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PageSize > MaxPageSize {
		return fmt.Errorf("page_size: %d exceeds maximum of %d", cfg.PageSize, MaxPageSize)
	}

	if err := validateCache(&cfg.Cache); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}

	return nil
}

func validateBackend(b *BackendConfig) error {
	if b.URL == "" {
		return fmt.Errorf("url is required (or set %s)", EnvBackendURL)
	}

	u, err := url.Parse(b.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}
	b.URL = strings.TrimRight(b.URL, "/")

	// Expand environment variables in token
	b.Token = expandEnvVar(b.Token)

	if b.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", b.Timeout)
	}
	if b.Timeout == 0 {
		b.Timeout = DefaultBackendTimeout
	}

	return nil
}

func validateTimezone(cfg *Config) error {
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc
	return nil
}

func validateCache(c *CacheConfig) error {
	if c.Backend == "" {
		c.Backend = CacheBackendFile
	}

	switch c.Backend {
	case CacheBackendMemory:
		// No path needed
	case CacheBackendFile, CacheBackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("path is required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("invalid backend %q (must be memory, file, or sqlite)", c.Backend)
	}

	if c.MaxEntries < 0 {
		return fmt.Errorf("max_entries must not be negative, got %d", c.MaxEntries)
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = DefaultCacheMaxEntries
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}

	return s
}
