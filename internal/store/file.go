package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileBackend keeps each collection in <dir>/<name>.json.
type FileBackend struct {
	dir    string
	logger *slog.Logger
}

// NewFileBackend creates a file backend rooted at dir. The directory is
// created on the first write.
func NewFileBackend(dir string, logger *slog.Logger) *FileBackend {
	return &FileBackend{dir: dir, logger: logger}
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name+".json")
}

// Read implements Backend.
func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Write implements Backend. The document is written to a temp file in the
// same directory and renamed over the old one.
func (b *FileBackend) Write(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path(name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}

	b.logger.Debug("collection written", "collection", name, "bytes", len(data))
	return nil
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	return nil
}
