// Package backup stores pre-move copies of files about to be
// organized. Backends are keyed by source-relative path so the backup
// mirrors the source tree's shape.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileSystemStore mirrors backed-up files under a root directory,
// preserving modification times.
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a backup store rooted at root.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating backup root: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Put writes the content under root/relPath, creating parents as
// needed. An existing copy at the same path is overwritten.
func (s *FileSystemStore) Put(relPath string, r io.Reader, size int64, modTime time.Time) error {
	destPath := filepath.Join(s.root, relPath)
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(destPath)
		return fmt.Errorf("writing backup file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing backup file: %w", err)
	}
	if written != size {
		return fmt.Errorf("short backup write: expected %d bytes, got %d", size, written)
	}

	return os.Chtimes(destPath, modTime, modTime)
}

// Stat returns the stored size for relPath.
func (s *FileSystemStore) Stat(relPath string) (int64, error) {
	info, err := os.Stat(filepath.Join(s.root, relPath))
	if err != nil {
		return 0, fmt.Errorf("backup not found: %s", relPath)
	}
	return info.Size(), nil
}

// Name identifies the backend for logs.
func (s *FileSystemStore) Name() string { return "filesystem" }
