// Package journal persists the undo journal: the append-only record of
// completed moves, grouped by session. The store is a single document,
// read fully into memory on load and rewritten fully on save.
package journal

import "fo-go/internal/organizer"

// document is the on-disk shape of the journal.
type document struct {
	Version int                   `json:"version"`
	Entries []organizer.UndoEntry `json:"entries"`
}

const documentVersion = 1

// sessionEntries returns the non-undone entries of one session in
// append order.
func sessionEntries(entries []organizer.UndoEntry, sessionID string) []organizer.UndoEntry {
	var out []organizer.UndoEntry
	for _, e := range entries {
		if e.SessionID == sessionID && !e.Undone {
			out = append(out, e)
		}
	}
	return out
}

// lastSessionID returns the session of the most recently appended
// non-undone entry.
func lastSessionID(entries []organizer.UndoEntry) string {
	for i := len(entries) - 1; i >= 0; i-- {
		if !entries[i].Undone {
			return entries[i].SessionID
		}
	}
	return ""
}

// markUndone flips the undone flag on the entry matching the
// (sessionID, destination) pair. Entries already undone stay undone.
func markUndone(entries []organizer.UndoEntry, sessionID, destination string) {
	for i := range entries {
		if entries[i].SessionID == sessionID && entries[i].Destination == destination {
			entries[i].Undone = true
		}
	}
}

// sessions lists undoable sessions in first-appearance order.
func sessions(entries []organizer.UndoEntry) []organizer.SessionInfo {
	index := make(map[string]int)
	var out []organizer.SessionInfo
	for _, e := range entries {
		if e.Undone {
			continue
		}
		if i, ok := index[e.SessionID]; ok {
			out[i].FileCount++
			continue
		}
		index[e.SessionID] = len(out)
		out = append(out, organizer.SessionInfo{
			ID:        e.SessionID,
			StartedAt: e.CompletedAt,
			FileCount: 1,
		})
	}
	return out
}
