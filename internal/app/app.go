package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fo-go/internal/backup"
	"fo-go/internal/config"
	"fo-go/internal/fs"
	"fo-go/internal/history"
	"fo-go/internal/journal"
	"fo-go/internal/organizer"
)

// App is the application layer between the CLI and the organizer
// service. It constructs all dependencies from config, exposes the
// high-level operations the commands need, and manages store
// lifecycles on Close.
type App struct {
	cfg     *config.Config
	fsm     organizer.FilesystemManager
	journal organizer.Journal
	backup  organizer.BackupStore
	history organizer.HistoryStore
	service *organizer.Service
	logger  organizer.Logger
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Scan", "Organize") and
// tags every log line of this run. The caller must call Close when
// done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	if cfg.SourceRoot == "" {
		return nil, fmt.Errorf("source_root is not configured")
	}
	if cfg.OrganizedRoot == "" {
		return nil, fmt.Errorf("organized_root is not configured")
	}

	runID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	slogger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	fsm := fs.NewOSFilesystemManager(logger)

	jnl, err := journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening undo journal: %w", err)
	}

	bak, err := backup.NewStoreFromConfig(cfg.Backup)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating backup store: %w", err)
	}

	hist, err := history.NewStoreFromConfig(cfg.History)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening history store: %w", err)
	}

	clock := organizer.RealClock{}
	idgen := organizer.UUIDGenerator{}

	classifier := buildClassifier(cfg)
	rules, err := buildRuleEngine(cfg, clock, idgen)
	if err != nil {
		hist.Close()
		logFile.Close()
		return nil, fmt.Errorf("loading custom rules: %w", err)
	}

	skip := organizer.NewSkipMatcher(
		cfg.SourceRoot,
		cfg.Scan.SkipFolders, cfg.Scan.ProtectedDirs, cfg.Scan.ProtectedExtensions,
		cfg.Scan.IncludeHidden,
		cfg.OrganizedRoot, cfg.Backup.Root)

	svc := organizer.NewService(organizer.ServiceConfig{
		SourceRoot:     cfg.SourceRoot,
		OrganizedRoot:  cfg.OrganizedRoot,
		MinFileSize:    cfg.MinFileSize,
		MaxFileSize:    cfg.MaxFileSize,
		Workers:        cfg.Workers,
		DryRun:         cfg.DryRun,
		BackupEnabled:  cfg.Backup.Enabled,
		BackupRequired: cfg.Backup.Required,
	}, fsm, classifier, rules, skip, jnl, bak, hist, logger, clock, idgen)

	return &App{
		cfg:     cfg,
		fsm:     fsm,
		journal: jnl,
		backup:  bak,
		history: hist,
		service: svc,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// buildClassifier converts the config tables into the classifier's
// ordered rule slices.
func buildClassifier(cfg *config.Config) *organizer.Classifier {
	folders := make([]organizer.FolderRule, len(cfg.Folders))
	for i, f := range cfg.Folders {
		folders[i] = organizer.FolderRule{Folder: f.Folder, Category: organizer.Category(f.Category)}
	}

	extensions := make([]organizer.ExtensionRule, len(cfg.Categories))
	for i, c := range cfg.Categories {
		extensions[i] = organizer.ExtensionRule{Category: organizer.Category(c.Name), Extensions: c.Extensions}
	}

	return organizer.NewClassifier(folders, extensions)
}

// buildRuleEngine converts the config's custom rules into the engine's
// tagged conditions and actions.
func buildRuleEngine(cfg *config.Config, clock organizer.Clock, idgen organizer.IDGenerator) (*organizer.RuleEngine, error) {
	engine := organizer.NewRuleEngine(clock)

	for i, rc := range cfg.Rules {
		var cond organizer.Condition
		switch rc.ConditionType {
		case "contains":
			cond = organizer.NameContains{Keyword: rc.Keyword}
		case "glob":
			cond = organizer.NameGlob{Pattern: rc.Pattern}
		case "extension":
			cond = organizer.ExtensionIn{Extensions: rc.Extensions}
		case "size":
			cond = organizer.SizeBetween{MinBytes: rc.MinBytes, MaxBytes: rc.MaxBytes}
		case "age":
			cond = organizer.OlderThan{MinDays: rc.MinAgeDays}
		default:
			return nil, fmt.Errorf("rule %d: unknown condition type %q", i, rc.ConditionType)
		}

		var action organizer.Action
		switch organizer.ActionType(rc.ActionType) {
		case organizer.ActionCategorize:
			if rc.Category == "" {
				return nil, fmt.Errorf("rule %d: categorize action requires category", i)
			}
			action = organizer.Action{Type: organizer.ActionCategorize, Category: organizer.Category(rc.Category)}
		case organizer.ActionMoveToReview:
			action = organizer.Action{Type: organizer.ActionMoveToReview}
		case organizer.ActionFlag:
			action = organizer.Action{Type: organizer.ActionFlag, Label: rc.Label}
		default:
			return nil, fmt.Errorf("rule %d: unknown action type %q", i, rc.ActionType)
		}

		engine.Add(organizer.Rule{
			ID:        idgen.New(),
			Priority:  rc.Priority,
			Enabled:   rc.Enabled,
			Condition: cond,
			Action:    action,
		})
	}

	return engine, nil
}

// Close releases the history store and the log file.
func (a *App) Close() error {
	var errs []string
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing app: %s", strings.Join(errs, "; "))
	}
	return nil
}

// MaxBatchSize exposes the confirmation gate's limit.
func (a *App) MaxBatchSize() int { return a.cfg.MaxBatchSize }

// SourceRoot returns the configured scan root.
func (a *App) SourceRoot() string { return a.cfg.SourceRoot }

// OrganizedRoot returns the configured destination root.
func (a *App) OrganizedRoot() string { return a.cfg.OrganizedRoot }

// Logger returns the run-scoped logger for callers outside the
// service, like the watch loop.
func (a *App) Logger() organizer.Logger { return a.logger }

// DryRun reports whether this run is a dry run.
func (a *App) DryRun() bool { return a.cfg.DryRun }

// Stop requests a graceful halt of an in-flight organize run. The
// current file finishes and the journal is flushed.
func (a *App) Stop() { a.service.Stop() }

// Scan walks and classifies the source tree without mutating anything.
func (a *App) Scan() (*organizer.ScanResult, error) {
	return a.service.Scan()
}

// Plan computes the scan's destinations without executing anything.
func (a *App) Plan(scan *organizer.ScanResult) []organizer.MoveIntent {
	return a.service.Plan(scan)
}

// Organize executes the scan's moves. See Service.Organize.
func (a *App) Organize(scan *organizer.ScanResult) (string, *organizer.Stats, error) {
	return a.service.Organize(scan)
}

// Find searches the source tree for files matching the query.
func (a *App) Find(query organizer.FindQuery) ([]*organizer.FileRecord, error) {
	return a.service.Find(query)
}

// CheckDuplicates groups the scan's files by comparison mode.
func (a *App) CheckDuplicates(scan *organizer.ScanResult, mode organizer.DuplicateMode) ([]*organizer.DuplicateGroup, error) {
	return a.service.CheckDuplicates(scan, mode)
}

// ResolveDuplicates applies a keep strategy; deletions only happen
// when dryRun is false.
func (a *App) ResolveDuplicates(groups []*organizer.DuplicateGroup, strategy organizer.KeepStrategy, dryRun bool) *organizer.Resolution {
	return a.service.ResolveDuplicates(groups, strategy, dryRun)
}

// ReviewDuplicates moves non-kept duplicates into reviewDir.
func (a *App) ReviewDuplicates(groups []*organizer.DuplicateGroup, strategy organizer.KeepStrategy, reviewDir string) (int, int) {
	return a.service.ReviewDuplicates(groups, strategy, reviewDir)
}

// Undo reverses one session, or the latest when sessionID is empty.
func (a *App) Undo(sessionID string) (*organizer.UndoResult, error) {
	return a.service.Undo(sessionID)
}

// UndoableSessions lists sessions that still have non-undone entries.
func (a *App) UndoableSessions() []organizer.SessionInfo {
	return a.journal.Sessions()
}

// RecentSessions returns up to limit history entries, newest first.
func (a *App) RecentSessions(limit int) ([]*organizer.SessionSummary, error) {
	return a.history.RecentSessions(limit)
}

// HistoryTotals aggregates all recorded sessions.
func (a *App) HistoryTotals() (*organizer.HistoryTotals, error) {
	return a.history.Totals()
}
