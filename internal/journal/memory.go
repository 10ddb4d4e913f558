package journal

import "fo-go/internal/organizer"

// MemoryJournal keeps the journal in memory only. Use in tests and for
// throwaway dry runs.
type MemoryJournal struct {
	entries []organizer.UndoEntry
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Append(entry organizer.UndoEntry) {
	j.entries = append(j.entries, entry)
}

func (j *MemoryJournal) Flush() error { return nil }

func (j *MemoryJournal) Entries() []organizer.UndoEntry {
	out := make([]organizer.UndoEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *MemoryJournal) SessionEntries(sessionID string) []organizer.UndoEntry {
	return sessionEntries(j.entries, sessionID)
}

func (j *MemoryJournal) MarkUndone(sessionID, destination string) {
	markUndone(j.entries, sessionID, destination)
}

func (j *MemoryJournal) LastSessionID() string {
	return lastSessionID(j.entries)
}

func (j *MemoryJournal) Sessions() []organizer.SessionInfo {
	return sessions(j.entries)
}

func (j *MemoryJournal) Clear() error {
	j.entries = nil
	return nil
}

var _ organizer.Journal = (*MemoryJournal)(nil)
