package organizer_test

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"fo-go/internal/backup"
	"fo-go/internal/journal"
	"fo-go/internal/organizer"
	"fo-go/internal/testutil"
)

// failingBackup rejects every Put, for exercising the required-backup
// abort path.
type failingBackup struct{}

func (failingBackup) Put(string, io.Reader, int64, time.Time) error {
	return fmt.Errorf("backup store unavailable: %w", organizer.ErrIOUnavailable)
}
func (failingBackup) Stat(string) (int64, error) { return 0, errors.New("not found") }
func (failingBackup) Name() string               { return "failing" }

func intentFor(fsm *testutil.MockFilesystemManager, source string, category organizer.Category) organizer.MoveIntent {
	rec, _ := fsm.Resolve(source)
	return organizer.MoveIntent{
		Source:      rec.Path,
		Destination: "/organized/" + string(category) + "/" + rec.Name,
		Category:    category,
	}
}

func TestMover_Execute(t *testing.T) {
	clock := testutil.FixedClock()

	t.Run("dry run mutates nothing and journals nothing", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/report.pdf", []byte("content"))
		jnl := journal.NewMemoryJournal()
		m := organizer.NewMover(fsm, jnl, nil, organizer.NewNopLogger(), clock)

		var stats organizer.Stats
		err := m.Execute([]organizer.MoveIntent{intentFor(fsm, "/src/report.pdf", "Documents")},
			"session-1", organizer.ExecuteOptions{DryRun: true}, &stats)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if fsm.File("/src/report.pdf") == nil {
			t.Error("dry run moved the source file")
		}
		if len(jnl.Entries()) != 0 {
			t.Error("dry run appended journal entries")
		}
		if stats.Moved != 0 {
			t.Errorf("stats.Moved = %d, want 0", stats.Moved)
		}
	})

	t.Run("moves, verifies, and journals", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/report.pdf", []byte("content"))
		jnl := journal.NewMemoryJournal()
		m := organizer.NewMover(fsm, jnl, nil, organizer.NewNopLogger(), clock)

		var stats organizer.Stats
		err := m.Execute([]organizer.MoveIntent{intentFor(fsm, "/src/report.pdf", "Documents")},
			"session-1", organizer.ExecuteOptions{}, &stats)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if fsm.File("/organized/Documents/report.pdf") == nil {
			t.Fatal("file not at destination")
		}
		if fsm.File("/src/report.pdf") != nil {
			t.Error("source still exists")
		}
		entries := jnl.Entries()
		if len(entries) != 1 {
			t.Fatalf("journal entries = %d, want 1", len(entries))
		}
		if entries[0].SessionID != "session-1" || entries[0].Source != "/src/report.pdf" {
			t.Errorf("journal entry = %+v", entries[0])
		}
		if stats.Moved != 1 {
			t.Errorf("stats.Moved = %d, want 1", stats.Moved)
		}
	})

	t.Run("backs up before moving when enabled", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/docs/report.pdf", []byte("content"))
		jnl := journal.NewMemoryJournal()
		store := backup.NewMemoryStore()
		m := organizer.NewMover(fsm, jnl, store, organizer.NewNopLogger(), clock)

		var stats organizer.Stats
		err := m.Execute([]organizer.MoveIntent{intentFor(fsm, "/src/docs/report.pdf", "Documents")},
			"session-1", organizer.ExecuteOptions{BackupEnabled: true, BackupRequired: true, SourceRoot: "/src"}, &stats)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		data, ok := store.Get("docs/report.pdf")
		if !ok {
			t.Fatal("backup copy missing at source-relative path")
		}
		if string(data) != "content" {
			t.Errorf("backup content = %q", data)
		}
		if stats.BackedUp != 1 || stats.Moved != 1 {
			t.Errorf("stats = %+v, want 1 backed up and 1 moved", stats)
		}
	})

	t.Run("required backup failure aborts the file's move", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/report.pdf", []byte("content"))
		jnl := journal.NewMemoryJournal()
		m := organizer.NewMover(fsm, jnl, failingBackup{}, organizer.NewNopLogger(), clock)

		var stats organizer.Stats
		err := m.Execute([]organizer.MoveIntent{intentFor(fsm, "/src/report.pdf", "Documents")},
			"session-1", organizer.ExecuteOptions{BackupEnabled: true, BackupRequired: true, SourceRoot: "/src"}, &stats)
		if err != nil {
			t.Fatalf("Execute() error = %v (per-file failures must not be fatal)", err)
		}

		if fsm.File("/src/report.pdf") == nil {
			t.Error("file was moved despite failed required backup")
		}
		if stats.Errors != 1 || stats.Moved != 0 {
			t.Errorf("stats = %+v, want 1 error and 0 moved", stats)
		}
		if len(jnl.Entries()) != 0 {
			t.Error("aborted move was journaled")
		}
	})

	t.Run("optional backup failure moves anyway", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/report.pdf", []byte("content"))
		jnl := journal.NewMemoryJournal()
		m := organizer.NewMover(fsm, jnl, failingBackup{}, organizer.NewNopLogger(), clock)

		var stats organizer.Stats
		err := m.Execute([]organizer.MoveIntent{intentFor(fsm, "/src/report.pdf", "Documents")},
			"session-1", organizer.ExecuteOptions{BackupEnabled: true, BackupRequired: false, SourceRoot: "/src"}, &stats)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if fsm.File("/organized/Documents/report.pdf") == nil {
			t.Error("file was not moved")
		}
		if stats.Moved != 1 || stats.BackedUp != 0 {
			t.Errorf("stats = %+v, want 1 moved and 0 backed up", stats)
		}
	})

	t.Run("one failed move does not stop the batch", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/a.pdf", []byte("a"))
		fsm.AddFile("/src/b.pdf", []byte("b"))
		fsm.FailMove["/src/a.pdf"] = true
		jnl := journal.NewMemoryJournal()
		m := organizer.NewMover(fsm, jnl, nil, organizer.NewNopLogger(), clock)

		var stats organizer.Stats
		err := m.Execute([]organizer.MoveIntent{
			intentFor(fsm, "/src/a.pdf", "Documents"),
			intentFor(fsm, "/src/b.pdf", "Documents"),
		}, "session-1", organizer.ExecuteOptions{}, &stats)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if stats.Errors != 1 || stats.Moved != 1 {
			t.Errorf("stats = %+v, want 1 error and 1 moved", stats)
		}
		if fsm.File("/organized/Documents/b.pdf") == nil {
			t.Error("batch stopped after first failure")
		}
	})

	t.Run("re-checks collisions at move time", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/report.pdf", []byte("new"))
		// Something claimed the planned destination after planning.
		fsm.AddFile("/organized/Documents/report.pdf", []byte("existing"))
		jnl := journal.NewMemoryJournal()
		m := organizer.NewMover(fsm, jnl, nil, organizer.NewNopLogger(), clock)

		var stats organizer.Stats
		err := m.Execute([]organizer.MoveIntent{intentFor(fsm, "/src/report.pdf", "Documents")},
			"session-1", organizer.ExecuteOptions{}, &stats)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if got := fsm.File("/organized/Documents/report.pdf"); got == nil || string(got.Content) != "existing" {
			t.Error("existing destination was overwritten")
		}
		if fsm.File("/organized/Documents/report_20240308_170545.pdf") == nil {
			t.Errorf("collision not re-suffixed at move time: %v", fsm.Paths())
		}
	})

	t.Run("stop halts between files", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/a.pdf", []byte("a"))
		fsm.AddFile("/src/b.pdf", []byte("b"))
		jnl := journal.NewMemoryJournal()
		m := organizer.NewMover(fsm, jnl, nil, organizer.NewNopLogger(), clock)
		m.Stop()

		var stats organizer.Stats
		err := m.Execute([]organizer.MoveIntent{
			intentFor(fsm, "/src/a.pdf", "Documents"),
			intentFor(fsm, "/src/b.pdf", "Documents"),
		}, "session-1", organizer.ExecuteOptions{}, &stats)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if stats.Moved != 0 {
			t.Errorf("stats.Moved = %d, want 0 after Stop", stats.Moved)
		}
	})
}
