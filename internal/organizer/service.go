package organizer

import (
	"errors"
	"fmt"
)

// CategoryReview receives files a custom rule routes to review instead
// of a category folder.
const CategoryReview Category = "Review"

// ServiceConfig carries the read-only settings a pipeline run needs.
// It is a value: nothing mutates it after construction, and every run
// gets its own copy.
type ServiceConfig struct {
	SourceRoot    string
	OrganizedRoot string
	MinFileSize   int64
	MaxFileSize   int64
	Workers       int
	DryRun        bool

	BackupEnabled  bool
	BackupRequired bool
}

// ScanResult is one scan's output: the classified files, the raw
// records (for duplicate checks), rule-flagged paths, and the running
// statistics so far.
type ScanResult struct {
	Classified []ClassifiedRecord
	Records    []*FileRecord
	Flagged    map[string]string // path -> flag label
	Stats      Stats
}

// Service is the orchestration layer coordinating scan, classify,
// plan, execute, and record. It owns no long-lived state beyond its
// injected stores; scans are rebuilt every run.
type Service struct {
	cfg        ServiceConfig
	fsm        FilesystemManager
	classifier *Classifier
	rules      *RuleEngine
	skip       *SkipMatcher
	planner    *Planner
	mover      *Mover
	index      *DuplicateIndex
	journal    Journal
	history    HistoryStore
	logger     Logger
	clock      Clock
	idgen      IDGenerator
}

// NewService wires a pipeline from its dependencies. backup may be nil
// when cfg.BackupEnabled is false; history may be nil to skip session
// recording.
func NewService(cfg ServiceConfig, fsm FilesystemManager, classifier *Classifier, rules *RuleEngine,
	skip *SkipMatcher, journal Journal, backup BackupStore, history HistoryStore,
	logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		cfg:        cfg,
		fsm:        fsm,
		classifier: classifier,
		rules:      rules,
		skip:       skip,
		planner:    NewPlanner(fsm, clock, cfg.OrganizedRoot),
		mover:      NewMover(fsm, journal, backup, logger, clock),
		index:      NewDuplicateIndex(fsm, logger, cfg.Workers),
		journal:    journal,
		history:    history,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
	}
}

// Stop requests cooperative cancellation of a running organize. The
// flag is polled between files.
func (s *Service) Stop() { s.mover.Stop() }

// Scan walks the source root and classifies every file that survives
// the skip matcher and size bounds. Per-file stat failures are skipped
// and counted; only a failure to read the root itself is fatal.
func (s *Service) Scan() (*ScanResult, error) {
	s.logger.Info("scan started", "source", s.cfg.SourceRoot)
	result := &ScanResult{Flagged: make(map[string]string)}

	err := s.fsm.Walk(s.cfg.SourceRoot, func(record *FileRecord) error {
		result.Stats.Scanned++

		if s.skip.ShouldSkip(record) {
			result.Stats.Skipped++
			return nil
		}
		if record.Size < s.cfg.MinFileSize || (s.cfg.MaxFileSize > 0 && record.Size > s.cfg.MaxFileSize) {
			result.Stats.Skipped++
			return nil
		}

		category := s.categorize(record, result)
		result.Classified = append(result.Classified, ClassifiedRecord{Record: record, Category: category})
		result.Records = append(result.Records, record)
		result.Stats.ToOrganize++
		return nil
	})
	if err != nil {
		result.Stats.Errors++
		return result, fmt.Errorf("scanning %s: %w", s.cfg.SourceRoot, err)
	}

	s.logger.Info("scan complete", "scanned", result.Stats.Scanned, "to_organize", result.Stats.ToOrganize, "skipped", result.Stats.Skipped)
	return result, nil
}

// categorize consults the custom rules first, then falls back to the
// folder/extension classifier.
func (s *Service) categorize(record *FileRecord, result *ScanResult) Category {
	if s.rules != nil {
		if action, ok := s.rules.Apply(record); ok {
			switch action.Type {
			case ActionCategorize:
				return action.Category
			case ActionMoveToReview:
				return CategoryReview
			case ActionFlag:
				result.Flagged[record.Path] = action.Label
				s.logger.Warn("file flagged by rule", "path", record.Path, "label", action.Label)
				// Flagged files still classify normally.
			}
		}
	}
	return s.classifier.Classify(record)
}

// Plan computes move intents for a scan without touching the
// filesystem. Planning twice over an unchanged tree yields identical
// intents.
func (s *Service) Plan(scan *ScanResult) []MoveIntent {
	return s.planner.Plan(scan.Classified)
}

// Organize plans and executes the scan's moves under a fresh session
// id, then records the session in the history store. It returns the
// session id and the final statistics. Per-file errors accumulate in
// the stats; only top-level failures (organized root not writable,
// journal not persistable) return an error.
func (s *Service) Organize(scan *ScanResult) (string, *Stats, error) {
	stats := scan.Stats
	sessionID := s.idgen.New()

	if !s.cfg.DryRun {
		if err := s.fsm.MkdirAll(s.cfg.OrganizedRoot); err != nil {
			stats.Errors++
			return sessionID, &stats, fmt.Errorf("destination root not writable: %w", err)
		}
	}

	intents := s.planner.Plan(scan.Classified)
	opts := ExecuteOptions{
		DryRun:         s.cfg.DryRun,
		BackupEnabled:  s.cfg.BackupEnabled,
		BackupRequired: s.cfg.BackupRequired,
		SourceRoot:     s.cfg.SourceRoot,
	}

	if err := s.mover.Execute(intents, sessionID, opts, &stats); err != nil {
		return sessionID, &stats, err
	}

	if s.cfg.DryRun {
		s.logger.Warn("dry run mode - no files were moved")
		return sessionID, &stats, nil
	}

	if s.history != nil {
		if err := s.recordSession(sessionID, scan, &stats); err != nil {
			// History is reporting, not safety: log and carry on.
			s.logger.Error("recording session history failed", "error", err)
		}
	}

	s.logger.Info("organize complete", "session", sessionID, "moved", stats.Moved, "errors", stats.Errors)
	return sessionID, &stats, nil
}

// recordSession appends the per-category breakdown of this run to the
// history store.
func (s *Service) recordSession(sessionID string, scan *ScanResult, stats *Stats) error {
	byCategory := make(map[Category]*CategoryStat)
	var order []Category
	var totalBytes int64

	for _, item := range scan.Classified {
		cs, ok := byCategory[item.Category]
		if !ok {
			cs = &CategoryStat{Category: item.Category}
			byCategory[item.Category] = cs
			order = append(order, item.Category)
		}
		cs.Files++
		cs.Bytes += item.Record.Size
		totalBytes += item.Record.Size
	}

	summary := &SessionSummary{
		ID:         sessionID,
		StartedAt:  s.clock.Now(),
		Stats:      *stats,
		TotalBytes: totalBytes,
	}
	for _, c := range order {
		summary.Categories = append(summary.Categories, *byCategory[c])
	}
	return s.history.RecordSession(summary)
}

// CheckDuplicates groups the scan's records by the given comparison
// mode and folds the count into the stats.
func (s *Service) CheckDuplicates(scan *ScanResult, mode DuplicateMode) ([]*DuplicateGroup, error) {
	groups, err := s.index.Find(scan.Records, mode)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		scan.Stats.Duplicates += len(g.Records) - 1
	}
	return groups, nil
}

// ResolveDuplicates applies a keep strategy across groups; see
// DuplicateIndex.AutoResolve.
func (s *Service) ResolveDuplicates(groups []*DuplicateGroup, strategy KeepStrategy, dryRun bool) *Resolution {
	return s.index.AutoResolve(groups, strategy, dryRun)
}

// ReviewDuplicates moves every non-kept record of each group into
// reviewDir instead of deleting it.
func (s *Service) ReviewDuplicates(groups []*DuplicateGroup, strategy KeepStrategy, reviewDir string) (int, int) {
	var doomed []*FileRecord
	for _, g := range groups {
		keep := RecommendKeep(g, strategy)
		for _, rec := range g.Records {
			if rec != keep {
				doomed = append(doomed, rec)
			}
		}
	}
	return s.index.MoveToReview(doomed, reviewDir)
}

// Undo reverses one session (or the latest when sessionID is empty).
func (s *Service) Undo(sessionID string) (*UndoResult, error) {
	if sessionID == "" {
		return UndoLastSession(s.fsm, s.journal, s.logger)
	}
	return UndoSession(s.fsm, s.journal, s.logger, sessionID)
}

// IsRecoverable reports whether err is a per-file condition the batch
// survives.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrIOUnavailable) || errors.Is(err, ErrIntegrityMismatch)
}
