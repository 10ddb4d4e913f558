package organizer

import (
	"fmt"
	"path/filepath"
)

// UndoResult reports one undo run.
type UndoResult struct {
	Restored int
	Errors   int
	Messages []string
}

// UndoSession reverses every non-undone move of one session, newest
// first, so chains of same-session renames unwind safely. A
// destination that no longer exists (moved or deleted since) is a
// per-entry failure; the rest of the session still restores. Calling
// this twice for the same session restores nothing the second time.
func UndoSession(fsm FilesystemManager, journal Journal, logger Logger, sessionID string) (*UndoResult, error) {
	entries := journal.SessionEntries(sessionID)
	if len(entries) == 0 {
		return &UndoResult{Messages: []string{"no operations found for this session"}}, nil
	}

	res := &UndoResult{}
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		if !fsm.Exists(entry.Destination) {
			res.Errors++
			res.Messages = append(res.Messages, fmt.Sprintf("file not found: %s", filepath.Base(entry.Destination)))
			continue
		}

		if err := fsm.MkdirAll(filepath.Dir(entry.Source)); err != nil {
			res.Errors++
			res.Messages = append(res.Messages, fmt.Sprintf("error restoring %s: %v", filepath.Base(entry.Source), err))
			continue
		}
		if err := fsm.Move(entry.Destination, entry.Source); err != nil {
			res.Errors++
			res.Messages = append(res.Messages, fmt.Sprintf("error restoring %s: %v", filepath.Base(entry.Source), err))
			continue
		}

		journal.MarkUndone(entry.SessionID, entry.Destination)
		res.Restored++
		res.Messages = append(res.Messages, fmt.Sprintf("restored: %s", filepath.Base(entry.Source)))
		logger.Info("restored", "source", entry.Source, "destination", entry.Destination)
	}

	if err := journal.Flush(); err != nil {
		return res, fmt.Errorf("persisting undo journal: %w", err)
	}
	return res, nil
}

// UndoLastSession reverses the most recent session with non-undone
// entries.
func UndoLastSession(fsm FilesystemManager, journal Journal, logger Logger) (*UndoResult, error) {
	sessionID := journal.LastSessionID()
	if sessionID == "" {
		return &UndoResult{Messages: []string{"no operations to undo"}}, nil
	}
	return UndoSession(fsm, journal, logger, sessionID)
}
