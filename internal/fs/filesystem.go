package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"fo-go/internal/organizer"
)

// OSFilesystemManager is the real filesystem implementation of
// organizer.FilesystemManager.
type OSFilesystemManager struct {
	logger organizer.Logger
}

// NewOSFilesystemManager creates a filesystem manager that operates on
// the real filesystem.
func NewOSFilesystemManager(logger organizer.Logger) *OSFilesystemManager {
	return &OSFilesystemManager{logger: logger}
}

// Resolve stats a raw path and returns its metadata snapshot.
func (m *OSFilesystemManager) Resolve(rawPath string) (*organizer.FileRecord, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", absPath, organizer.ErrIOUnavailable)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}

	return organizer.NewFileRecord(absPath, info.Size(), info.ModTime(), changeTime(info)), nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Stat returns fresh file info for a path.
func (m *OSFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Exists reports whether a path currently exists.
func (m *OSFilesystemManager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Walk traverses the tree rooted at root, delivering one record per
// regular file. Entries that vanish or deny stat access mid-walk are
// skipped and logged; only a failure on the root itself is fatal.
func (m *OSFilesystemManager) Walk(root string, fn organizer.WalkFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	return filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == absRoot {
				return fmt.Errorf("reading root %s: %w", p, organizer.ErrIOUnavailable)
			}
			m.logger.Warn("walk entry skipped", "path", p, "error", err)
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Deleted between listing and stat.
			m.logger.Warn("stat failed, file skipped", "path", p, "error", err)
			return nil
		}

		return fn(organizer.NewFileRecord(p, info.Size(), info.ModTime(), changeTime(info)))
	})
}

// MkdirAll creates a directory and any missing parents.
func (m *OSFilesystemManager) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Move renames source to destination, falling back to copy+delete when
// the rename fails (typically across devices).
func (m *OSFilesystemManager) Move(source, destination string) error {
	if err := os.Rename(source, destination); err == nil {
		return nil
	}

	if err := m.CopyPreserve(source, destination); err != nil {
		return err
	}
	return os.Remove(source)
}

// CopyPreserve copies source to destination, preserving the file mode
// and modification time.
func (m *OSFilesystemManager) CopyPreserve(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	src, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(destination)
		return fmt.Errorf("copying: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing destination: %w", err)
	}

	return os.Chtimes(destination, info.ModTime(), info.ModTime())
}

// Remove deletes a single file.
func (m *OSFilesystemManager) Remove(path string) error {
	return os.Remove(path)
}

// Compile-time check that OSFilesystemManager implements the interface.
var _ organizer.FilesystemManager = (*OSFilesystemManager)(nil)
