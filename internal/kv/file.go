// ABOUTME: File-based key-value store, one JSON document per key.
// ABOUTME: Writes are atomic via temp file + fsync + rename inside the data directory.
package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// FileStore stores each key as a file in a data directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir. The directory is created
// lazily on first write.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store requires a directory")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// path maps a key to its file. Keys are path-escaped so "/" can't escape the root.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

// Get returns the contents of key's file.
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set atomically replaces key's file.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := atomicWrite(s.path(key), []byte(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key's file.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Ping verifies the data directory exists or can be created and is a directory.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

// Close releases any resources held by the store.
func (s *FileStore) Close() error {
	return nil
}

// atomicWrite writes data to a temp file in the target directory and renames
// it over path, so readers see either the old or the new document.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
