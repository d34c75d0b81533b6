// ABOUTME: Interface definition for the key-value persistence collaborator.
// ABOUTME: Defines the string-valued Get/Set/Remove contract and the backend factory.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/2389-research/breather/internal/config"
)

var (
	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrUnavailable is returned when a backend is failing fast after repeated errors.
	ErrUnavailable = errors.New("storage backend unavailable")
)

// Store is a durable, string-valued key-value store.
type Store interface {
	// Get returns the value under key. ok is false when the key is absent;
	// that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Ping checks that the backend is reachable and usable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Open creates the backend described by cfg and verifies it with Ping.
func Open(ctx context.Context, cfg config.StorageConfig, logger hclog.Logger) (Store, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var (
		store Store
		err   error
	)
	switch backend := cfg.GetBackend(); backend {
	case config.BackendFile:
		var dir string
		if dir, err = cfg.GetPath(); err == nil {
			store, err = NewFileStore(dir)
		}
	case config.BackendSQLite:
		var path string
		if path, err = cfg.GetPath(); err == nil {
			store, err = OpenSQLite(ctx, path)
		}
	case config.BackendRedis:
		store, err = OpenRedis(cfg.GetRedisURL(), cfg.GetRedisNamespace(), logger.Named("redis"))
	case config.BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to reach %s storage: %w", cfg.GetBackend(), err)
	}
	logger.Debug("storage opened", "backend", cfg.GetBackend())
	return store, nil
}
