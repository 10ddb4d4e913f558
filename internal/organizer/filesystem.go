package organizer

import (
	"io"
	"io/fs"
	"time"
)

// WalkFunc receives one regular-file record per call during traversal.
// Returning an error stops the walk.
type WalkFunc func(record *FileRecord) error

// FilesystemManager abstracts filesystem access so the pipeline can be
// tested without touching the real filesystem.
type FilesystemManager interface {
	// Resolve stats a raw path and returns its metadata snapshot.
	// Failures wrap ErrIOUnavailable.
	Resolve(rawPath string) (*FileRecord, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Stat returns fresh file info, bypassing any cached record.
	Stat(path string) (fs.FileInfo, error)

	// Exists reports whether a path currently exists.
	Exists(path string) bool

	// Walk lazily traverses the tree rooted at root, calling fn for
	// every regular file. It is the single traversal primitive every
	// scanning component composes with its own predicate logic.
	Walk(root string, fn WalkFunc) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// Move renames source to destination, falling back to copy+delete
	// when rename fails across devices.
	Move(source, destination string) error

	// CopyPreserve copies source to destination preserving the file
	// mode and modification time.
	CopyPreserve(source, destination string) error

	// Remove deletes a single file.
	Remove(path string) error
}

// BackupStore receives pre-move copies keyed by source-relative path.
type BackupStore interface {
	// Put stores the content under relPath, preserving modTime where
	// the backend supports it. Storing the same relPath twice
	// overwrites the previous copy.
	Put(relPath string, r io.Reader, size int64, modTime time.Time) error

	// Stat returns the stored size for relPath, used to verify a
	// backup against its source.
	Stat(relPath string) (int64, error)

	// Name identifies the backend for logs.
	Name() string
}
