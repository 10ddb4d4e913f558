// Package history persists per-session organization summaries for
// reporting: what each run scanned, moved, and filed where.
package history

import (
	"database/sql"
	"fmt"

	"fo-go/internal/history/migrations"
	"fo-go/internal/organizer"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements organizer.HistoryStore using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (and migrates) the history database. path can
// be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := openConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// openConnection opens and configures a SQLite connection with the
// appropriate PRAGMAs.
func openConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for
	// backward compatibility).
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// RecordSession appends one session summary atomically.
func (s *SQLiteStore) RecordSession(summary *organizer.SessionSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (id, started_at, scanned, to_organize, moved, backed_up, skipped, duplicates, errors, total_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ID, summary.StartedAt,
		summary.Stats.Scanned, summary.Stats.ToOrganize, summary.Stats.Moved,
		summary.Stats.BackedUp, summary.Stats.Skipped, summary.Stats.Duplicates,
		summary.Stats.Errors, summary.TotalBytes)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	for _, c := range summary.Categories {
		_, err = tx.Exec(`
			INSERT INTO session_categories (session_id, category, file_count, total_bytes)
			VALUES (?, ?, ?, ?)`,
			summary.ID, string(c.Category), c.Files, c.Bytes)
		if err != nil {
			return fmt.Errorf("inserting session category: %w", err)
		}
	}

	return tx.Commit()
}

// RecentSessions returns up to limit sessions, newest first.
func (s *SQLiteStore) RecentSessions(limit int) ([]*organizer.SessionSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, scanned, to_organize, moved, backed_up, skipped, duplicates, errors, total_bytes
		FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []*organizer.SessionSummary
	for rows.Next() {
		var sum organizer.SessionSummary
		if err := rows.Scan(&sum.ID, &sum.StartedAt,
			&sum.Stats.Scanned, &sum.Stats.ToOrganize, &sum.Stats.Moved,
			&sum.Stats.BackedUp, &sum.Stats.Skipped, &sum.Stats.Duplicates,
			&sum.Stats.Errors, &sum.TotalBytes); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		out = append(out, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	for _, sum := range out {
		cats, err := s.sessionCategories(sum.ID)
		if err != nil {
			return nil, err
		}
		sum.Categories = cats
	}
	return out, nil
}

func (s *SQLiteStore) sessionCategories(sessionID string) ([]organizer.CategoryStat, error) {
	rows, err := s.db.Query(`
		SELECT category, file_count, total_bytes
		FROM session_categories WHERE session_id = ? ORDER BY category`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session categories: %w", err)
	}
	defer rows.Close()

	var out []organizer.CategoryStat
	for rows.Next() {
		var c organizer.CategoryStat
		var category string
		if err := rows.Scan(&category, &c.Files, &c.Bytes); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		c.Category = organizer.Category(category)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Totals aggregates all recorded sessions.
func (s *SQLiteStore) Totals() (*organizer.HistoryTotals, error) {
	t := &organizer.HistoryTotals{}

	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(moved), 0), COALESCE(SUM(total_bytes), 0), COALESCE(SUM(duplicates), 0)
		FROM sessions`).
		Scan(&t.Sessions, &t.FilesOrganized, &t.TotalBytes, &t.DuplicatesFound)
	if err != nil {
		return nil, fmt.Errorf("aggregating sessions: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT category, SUM(file_count), SUM(total_bytes)
		FROM session_categories GROUP BY category ORDER BY SUM(file_count) DESC`)
	if err != nil {
		return nil, fmt.Errorf("aggregating categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c organizer.CategoryStat
		var category string
		if err := rows.Scan(&category, &c.Files, &c.Bytes); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}
		c.Category = organizer.Category(category)
		t.ByCategory = append(t.ByCategory, c)
	}
	return t, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ organizer.HistoryStore = (*SQLiteStore)(nil)
