// ABOUTME: Application container holding the storage backend and both journals.
// ABOUTME: Every consumer (CLI, MCP, TUI) shares one App for the life of the process.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/2389-research/breather/internal/config"
	"github.com/2389-research/breather/internal/journal"
	"github.com/2389-research/breather/internal/kv"
)

// App owns the key-value store and the journals built on it.
type App struct {
	Store    kv.Store
	Moods    *journal.MoodJournal
	Absences *journal.AbsenceJournal

	logger hclog.Logger
}

// New opens the configured backend and loads both journals.
func New(ctx context.Context, cfg *config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(ctx, cfg.Storage, logger.Named("kv"))
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return NewWithStore(ctx, store, logger, journal.WithLocation(loc))
}

// NewWithStore builds an App on an already opened store. The App takes
// ownership of store and closes it in Close.
func NewWithStore(ctx context.Context, store kv.Store, logger hclog.Logger, opts ...journal.Option) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	moodOpts := append([]journal.Option{journal.WithLogger(logger.Named("moods"))}, opts...)
	absenceOpts := append([]journal.Option{journal.WithLogger(logger.Named("absences"))}, opts...)

	a := &App{
		Store:    store,
		Moods:    journal.NewMoodJournal(store, moodOpts...),
		Absences: journal.NewAbsenceJournal(store, absenceOpts...),
		logger:   logger,
	}

	if err := a.Moods.Initialize(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to load moods: %w", err)
	}
	if err := a.Absences.Initialize(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to load absences: %w", err)
	}
	return a, nil
}

// Close drains pending writes, then closes the store.
func (a *App) Close() error {
	_ = a.Moods.Close()
	_ = a.Absences.Close()
	if err := a.WriteErrors(); err != nil {
		a.logger.Warn("storage is behind memory at shutdown", "error", err)
	}
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}

// WriteErrors returns the outstanding persistence failures of both journals,
// or nil when storage matches memory.
func (a *App) WriteErrors() error {
	var errs []error
	if err := a.Moods.LastWriteError(); err != nil {
		errs = append(errs, fmt.Errorf("moods: %w", err))
	}
	if err := a.Absences.LastWriteError(); err != nil {
		errs = append(errs, fmt.Errorf("absences: %w", err))
	}
	return errors.Join(errs...)
}
