// ABOUTME: Storage validation for the setup wizard.
// ABOUTME: Opens the chosen backend, pings it, and closes it again.
package tui

import (
	"context"
	"time"

	"github.com/2389-research/breather/internal/config"
	"github.com/2389-research/breather/internal/kv"
)

// ValidateStorage checks that the backend can be opened at location.
// The context allows cancellation when the user quits during validation.
func ValidateStorage(ctx context.Context, backend, location string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := kv.Open(ctx, StorageConfig(backend, location), nil)
	if err != nil {
		return err
	}
	return store.Close()
}

// StorageConfig maps a wizard result onto the config section it configures.
func StorageConfig(backend, location string) config.StorageConfig {
	s := config.StorageConfig{Backend: backend}
	if s.GetBackend() == config.BackendRedis {
		s.RedisURL = location
	} else {
		s.Path = location
	}
	return s
}
