// Package store provides durable storage for the single-slot save document.
// Persistence is one synchronous call with success or failure reported,
// never retried internally.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Store reads and writes the save document for one slot.
type Store interface {
	// Load returns the stored document. ok is false when no save exists.
	Load(ctx context.Context) (data []byte, ok bool, err error)
	// Save overwrites the stored document.
	Save(ctx context.Context, data []byte) error
	// Close releases any underlying connection.
	Close() error
}

// FileStore keeps the save document in a single file on disk.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a file-backed store. Parent directories are created
// on first save.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (f *FileStore) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.logger.Debug("no save file", "path", f.path)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading save file %s: %w", f.path, err)
	}
	return data, true, nil
}

func (f *FileStore) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("writing save file %s: %w", f.path, err)
	}
	f.logger.Debug("saved game state", "path", f.path, "bytes", len(data))
	return nil
}

func (f *FileStore) Close() error { return nil }
