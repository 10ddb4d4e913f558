package organizer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync/atomic"
)

// ExecuteOptions controls one mover run.
type ExecuteOptions struct {
	// DryRun logs every intended move and touches nothing: no
	// filesystem mutation, no journal entries.
	DryRun bool

	// BackupEnabled copies each source into the backup store before
	// moving it.
	BackupEnabled bool

	// BackupRequired aborts a file's move when its backup fails.
	// When false, a failed backup is logged and the move proceeds
	// anyway (the historical behavior; it weakens the safety net and
	// is opt-in only).
	BackupRequired bool

	// SourceRoot anchors the relative paths the backup tree mirrors.
	SourceRoot string
}

// Mover executes planned moves in order, with optional pre-move
// backup, post-move integrity verification, and an undo journal entry
// per completed move. One file's failure never rolls back prior files;
// errors are counted and the batch continues.
type Mover struct {
	fsm     FilesystemManager
	journal Journal
	backup  BackupStore
	logger  Logger
	clock   Clock

	stop atomic.Bool
}

// NewMover creates a mover. backup may be nil when backups are
// disabled.
func NewMover(fsm FilesystemManager, journal Journal, backup BackupStore, logger Logger, clock Clock) *Mover {
	return &Mover{fsm: fsm, journal: journal, backup: backup, logger: logger, clock: clock}
}

// Stop requests cooperative cancellation. It is checked between files:
// cancellation is file-boundary coarse, never mid-copy.
func (m *Mover) Stop() { m.stop.Store(true) }

// Execute runs the planned moves under sessionID, accumulating into
// stats. It returns an error only for unrecoverable top-level
// failures; per-file failures are counted in stats.Errors.
func (m *Mover) Execute(intents []MoveIntent, sessionID string, opts ExecuteOptions, stats *Stats) error {
	appended := false
	for _, intent := range intents {
		if m.stop.Load() {
			m.logger.Warn("run cancelled", "remaining", len(intents)-stats.Moved-stats.Errors)
			break
		}

		if err := m.moveOne(intent, sessionID, opts, stats); err != nil {
			m.logger.Error("move failed", "source", intent.Source, "error", err)
			stats.Errors++
			continue
		}
		if !opts.DryRun {
			appended = true
		}
	}

	// One journal flush per session, not per file.
	if appended {
		if err := m.journal.Flush(); err != nil {
			return fmt.Errorf("persisting undo journal: %w", err)
		}
	}
	return nil
}

// moveOne performs steps 1-4 for a single intent.
func (m *Mover) moveOne(intent MoveIntent, sessionID string, opts ExecuteOptions, stats *Stats) error {
	// The plan-time collision check is stale by now; narrow the
	// check-then-act window to just before the move.
	dest := m.reconfirmDestination(intent.Destination)

	if opts.DryRun {
		m.logger.Info("would move", "source", intent.Source, "destination", dest, "category", intent.Category)
		return nil
	}

	if err := m.fsm.MkdirAll(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("creating category folder: %w", err)
	}

	info, err := m.fsm.Stat(intent.Source)
	if err != nil {
		return fmt.Errorf("source vanished before move: %w", ErrIOUnavailable)
	}

	if opts.BackupEnabled {
		if err := m.backupOne(intent.Source, info, opts.SourceRoot); err != nil {
			if opts.BackupRequired {
				return fmt.Errorf("backup failed, move aborted: %w", err)
			}
			m.logger.Error("backup failed, moving anyway", "source", intent.Source, "error", err)
		} else {
			stats.BackedUp++
		}
	}

	if err := m.fsm.Move(intent.Source, dest); err != nil {
		return fmt.Errorf("moving file: %w", ErrIOUnavailable)
	}
	if err := m.verifyMove(dest, info.Size()); err != nil {
		return err
	}

	m.journal.Append(UndoEntry{
		SessionID:   sessionID,
		Source:      intent.Source,
		Destination: dest,
		CompletedAt: m.clock.Now(),
	})
	stats.Moved++
	m.logger.Info("moved", "source", intent.Source, "destination", dest, "category", intent.Category)
	return nil
}

// reconfirmDestination re-resolves a collision against the current
// filesystem state, suffixing with the clock timestamp like the
// planner does.
func (m *Mover) reconfirmDestination(dest string) string {
	if !m.fsm.Exists(dest) {
		return dest
	}

	dir := filepath.Dir(dest)
	name := filepath.Base(dest)
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	ts := m.clock.Now().Format(collisionSuffixFormat)

	candidate := filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, ts, ext))
	for counter := 2; m.fsm.Exists(candidate); counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%s_%d%s", stem, ts, counter, ext))
	}
	return candidate
}

// backupOne copies the source into the backup tree, mirroring its
// path relative to the source root, then verifies the stored size.
func (m *Mover) backupOne(source string, info fs.FileInfo, sourceRoot string) error {
	relPath, err := filepath.Rel(sourceRoot, source)
	if err != nil || filepath.IsAbs(relPath) {
		// Files outside the source root keep their full path shape.
		relPath = filepath.Base(source)
	}

	f, err := m.fsm.Open(source)
	if err != nil {
		return fmt.Errorf("opening source: %w", ErrIOUnavailable)
	}
	defer f.Close()

	if err := m.backup.Put(relPath, f, info.Size(), info.ModTime()); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	stored, err := m.backup.Stat(relPath)
	if err != nil {
		return fmt.Errorf("verifying backup: %w", err)
	}
	if stored != info.Size() {
		return fmt.Errorf("backup size %d != source size %d: %w", stored, info.Size(), ErrIntegrityMismatch)
	}
	return nil
}

// verifyMove confirms the destination exists with the expected size.
func (m *Mover) verifyMove(dest string, wantSize int64) error {
	info, err := m.fsm.Stat(dest)
	if err != nil {
		return fmt.Errorf("destination missing after move: %w", ErrIntegrityMismatch)
	}
	if info.Size() != wantSize {
		return fmt.Errorf("destination size %d != source size %d: %w", info.Size(), wantSize, ErrIntegrityMismatch)
	}
	return nil
}
