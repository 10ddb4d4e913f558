package organizer

import "time"

// UndoEntry is one completed move, recorded so it can be reversed.
// Once Undone is true it never toggles back; a new forward move
// creates a new entry rather than resurrecting an old one.
type UndoEntry struct {
	SessionID   string    `json:"session_id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	CompletedAt time.Time `json:"completed_at"`
	Undone      bool      `json:"undone"`
}

// SessionInfo summarizes one undoable session for listing.
type SessionInfo struct {
	ID        string
	StartedAt time.Time
	FileCount int
}

// Journal is the durable, append-only record of completed moves.
// Appends accumulate in memory; Flush persists the whole document.
// The store is small enough that whole-document rewrite on flush is an
// accepted cost, so callers batch: one flush per session, not per file.
// The journal is not designed for concurrent writers; all mutation
// comes from a single logical session at a time.
type Journal interface {
	// Append adds an entry to the in-memory document.
	Append(entry UndoEntry)

	// Flush persists the whole document.
	Flush() error

	// Entries returns a copy of all entries in append order.
	Entries() []UndoEntry

	// SessionEntries returns the non-undone entries of one session in
	// append order.
	SessionEntries(sessionID string) []UndoEntry

	// MarkUndone flips the undone flag on the entry matching the
	// (sessionID, destination) pair. The change persists on Flush.
	MarkUndone(sessionID, destination string)

	// LastSessionID returns the session of the most recently appended
	// non-undone entry, or "" when nothing is undoable.
	LastSessionID() string

	// Sessions lists undoable sessions, oldest first.
	Sessions() []SessionInfo

	// Clear truncates the store. Individual entries are never deleted
	// selectively; only the undone flag retires them.
	Clear() error
}
