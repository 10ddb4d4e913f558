package backup

import (
	"fmt"
	"io"
	"time"
)

// MemoryStore keeps backups in memory. Use in tests.
type MemoryStore struct {
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory backup store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(relPath string, r io.Reader, size int64, _ time.Time) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading backup content: %w", err)
	}
	s.objects[relPath] = data
	return nil
}

func (s *MemoryStore) Stat(relPath string) (int64, error) {
	data, ok := s.objects[relPath]
	if !ok {
		return 0, fmt.Errorf("backup not found: %s", relPath)
	}
	return int64(len(data)), nil
}

func (s *MemoryStore) Name() string { return "memory" }

// Get returns the stored content, for test assertions.
func (s *MemoryStore) Get(relPath string) ([]byte, bool) {
	data, ok := s.objects[relPath]
	return data, ok
}
