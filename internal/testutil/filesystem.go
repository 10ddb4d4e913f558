package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fo-go/internal/organizer"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content []byte
	ModTime time.Time
	Ctime   time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing. Paths
// are stored as given; tests should use absolute paths throughout.
type MockFilesystemManager struct {
	files map[string]*MockFile
	dirs  map[string]bool

	// FailOpen and FailMove make the named paths error, for exercising
	// per-file failure handling.
	FailOpen map[string]bool
	FailMove map[string]bool
}

// NewMockFilesystemManager creates an empty mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:    make(map[string]*MockFile),
		dirs:     make(map[string]bool),
		FailOpen: make(map[string]bool),
		FailMove: make(map[string]bool),
	}
}

// AddFile adds a file with the given content and a fixed timestamp.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	ts := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	m.AddFileWithTimes(path, content, ts, ts)
}

// AddFileWithTimes adds a file with explicit mod and change times.
func (m *MockFilesystemManager) AddFileWithTimes(path string, content []byte, modTime, ctime time.Time) {
	m.files[path] = &MockFile{Content: content, ModTime: modTime, Ctime: ctime}
	m.dirs[filepath.Dir(path)] = true
}

// File returns the mock file at path, or nil.
func (m *MockFilesystemManager) File(path string) *MockFile {
	return m.files[path]
}

// Paths returns all file paths, sorted.
func (m *MockFilesystemManager) Paths() []string {
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*organizer.FileRecord, error) {
	file, ok := m.files[rawPath]
	if !ok {
		return nil, fmt.Errorf("%w: file not found: %s", organizer.ErrIOUnavailable, rawPath)
	}
	return organizer.NewFileRecord(rawPath, int64(len(file.Content)), file.ModTime, file.Ctime), nil
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	if m.FailOpen[path] {
		return nil, fmt.Errorf("%w: injected open failure: %s", organizer.ErrIOUnavailable, path)
	}
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: file not found: %s", organizer.ErrIOUnavailable, path)
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: file not found: %s", organizer.ErrIOUnavailable, path)
	}
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(file.Content)),
		modTime: file.ModTime,
	}, nil
}

func (m *MockFilesystemManager) Exists(path string) bool {
	if _, ok := m.files[path]; ok {
		return true
	}
	return m.dirs[path]
}

// Walk visits every file under root in sorted path order.
func (m *MockFilesystemManager) Walk(root string, fn organizer.WalkFunc) error {
	prefix := strings.TrimSuffix(root, "/") + "/"
	for _, path := range m.Paths() {
		if path != root && !strings.HasPrefix(path, prefix) {
			continue
		}
		record, err := m.Resolve(path)
		if err != nil {
			continue
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockFilesystemManager) MkdirAll(path string) error {
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

func (m *MockFilesystemManager) Move(source, destination string) error {
	if m.FailMove[source] {
		return fmt.Errorf("%w: injected move failure: %s", organizer.ErrIOUnavailable, source)
	}
	file, ok := m.files[source]
	if !ok {
		return fmt.Errorf("%w: file not found: %s", organizer.ErrIOUnavailable, source)
	}
	m.files[destination] = file
	m.dirs[filepath.Dir(destination)] = true
	delete(m.files, source)
	return nil
}

func (m *MockFilesystemManager) CopyPreserve(source, destination string) error {
	file, ok := m.files[source]
	if !ok {
		return fmt.Errorf("%w: file not found: %s", organizer.ErrIOUnavailable, source)
	}
	m.files[destination] = &MockFile{
		Content: append([]byte(nil), file.Content...),
		ModTime: file.ModTime,
		Ctime:   file.Ctime,
	}
	m.dirs[filepath.Dir(destination)] = true
	return nil
}

func (m *MockFilesystemManager) Remove(path string) error {
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("%w: file not found: %s", organizer.ErrIOUnavailable, path)
	}
	delete(m.files, path)
	return nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return 0644 }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() any           { return nil }

// Compile-time check
var _ organizer.FilesystemManager = (*MockFilesystemManager)(nil)
