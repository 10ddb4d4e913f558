package organizer

import "time"

// CategoryStat is the per-category slice of one session.
type CategoryStat struct {
	Category Category
	Files    int
	Bytes    int64
}

// SessionSummary is the per-session record appended to the history
// store after each organize run.
type SessionSummary struct {
	ID         string
	StartedAt  time.Time
	Stats      Stats
	TotalBytes int64
	Categories []CategoryStat
}

// HistoryTotals aggregates all recorded sessions.
type HistoryTotals struct {
	Sessions        int
	FilesOrganized  int
	TotalBytes      int64
	DuplicatesFound int
	ByCategory      []CategoryStat
}

// HistoryStore persists per-session summaries for reporting. It is
// consumed by the history command, external to the organize pipeline.
type HistoryStore interface {
	// RecordSession appends one session summary.
	RecordSession(summary *SessionSummary) error

	// RecentSessions returns up to limit sessions, newest first.
	RecentSessions(limit int) ([]*SessionSummary, error)

	// Totals aggregates all sessions.
	Totals() (*HistoryTotals, error)

	// Close releases the underlying store.
	Close() error
}
