// Package joblog keeps the short list of recent job summaries that the
// dashboard shows next to the live history. The list lives in a small
// key-value store so it survives restarts.
package joblog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccollicutt/etlwatch/pkg/config"
)

// ErrUnknownBackend is returned by Open for an unsupported cache backend.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Store is a string key-value store. Values are opaque to the store.
type Store interface {
	// Get returns the value for key. The bool is false when key is not set.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// Open returns the store selected by cfg.
func Open(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory:
		return NewMemoryStore(), nil
	case config.CacheBackendFile, "":
		if cfg.Path == "" {
			return nil, errors.New("file cache requires a path")
		}
		return NewFileStore(cfg.Path), nil
	case config.CacheBackendSQLite:
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
