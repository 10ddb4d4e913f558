package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fo-go/internal/organizer"
)

// FileJournal persists the journal as a single JSON document. A
// missing file means an empty journal. Saves write to a temp file and
// rename it into place so a crash never leaves a torn document.
type FileJournal struct {
	path    string
	entries []organizer.UndoEntry
}

// OpenFileJournal loads (or initializes) the journal at path.
func OpenFileJournal(path string) (*FileJournal, error) {
	j := &FileJournal{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, fmt.Errorf("reading undo journal: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing undo journal %s: %w", path, err)
	}
	j.entries = doc.Entries
	return j, nil
}

func (j *FileJournal) Append(entry organizer.UndoEntry) {
	j.entries = append(j.entries, entry)
}

// Flush rewrites the whole document.
func (j *FileJournal) Flush() error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	doc := document{Version: documentVersion, Entries: j.entries}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding undo journal: %w", err)
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing undo journal: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("replacing undo journal: %w", err)
	}
	return nil
}

func (j *FileJournal) Entries() []organizer.UndoEntry {
	out := make([]organizer.UndoEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *FileJournal) SessionEntries(sessionID string) []organizer.UndoEntry {
	return sessionEntries(j.entries, sessionID)
}

func (j *FileJournal) MarkUndone(sessionID, destination string) {
	markUndone(j.entries, sessionID, destination)
}

func (j *FileJournal) LastSessionID() string {
	return lastSessionID(j.entries)
}

func (j *FileJournal) Sessions() []organizer.SessionInfo {
	return sessions(j.entries)
}

// Clear truncates the store on disk immediately.
func (j *FileJournal) Clear() error {
	j.entries = nil
	return j.Flush()
}

var _ organizer.Journal = (*FileJournal)(nil)
