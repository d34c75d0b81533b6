// ABOUTME: Tests for storage validation in the setup wizard.
// ABOUTME: Opens real local backends in temp dirs and checks failures for bad locations.
package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/2389-research/breather/internal/kv"
)

func TestValidateStorage_Memory(t *testing.T) {
	if err := ValidateStorage(context.Background(), "memory", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStorage_File(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if err := ValidateStorage(context.Background(), "file", dir); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected data dir to be created, got %v", err)
	}
}

func TestValidateStorage_FileIsNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := ValidateStorage(context.Background(), "file", path); err == nil {
		t.Fatal("expected error when location is a regular file")
	}
}

func TestValidateStorage_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breather.db")
	if err := ValidateStorage(context.Background(), "sqlite", path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file to exist: %v", err)
	}
}

func TestValidateStorage_UnknownBackend(t *testing.T) {
	err := ValidateStorage(context.Background(), "postgres", "")
	if !errors.Is(err, kv.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestValidateStorage_RedisUnreachable(t *testing.T) {
	err := ValidateStorage(context.Background(), "redis", "redis://127.0.0.1:1/0")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestStorageConfig(t *testing.T) {
	s := StorageConfig("redis", "redis://cache:6379/1")
	if s.RedisURL != "redis://cache:6379/1" || s.Path != "" {
		t.Errorf("expected redis location in RedisURL, got %+v", s)
	}
	s = StorageConfig("file", "/data")
	if s.Path != "/data" || s.RedisURL != "" {
		t.Errorf("expected file location in Path, got %+v", s)
	}
}
