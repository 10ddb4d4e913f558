package organizer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// DuplicateMode selects the comparison key for duplicate detection.
type DuplicateMode string

const (
	// CompareContent keys on the content hash (full file read).
	CompareContent DuplicateMode = "content"
	// CompareName keys on the lower-cased filename.
	CompareName DuplicateMode = "name"
	// CompareSize keys on the byte count.
	CompareSize DuplicateMode = "size"
	// CompareAll keys on name, size, and hash together (strictest).
	CompareAll DuplicateMode = "all"
)

// KeepStrategy selects which file of a duplicate group is retained.
type KeepStrategy string

const (
	KeepOldest       KeepStrategy = "oldest"
	KeepNewest       KeepStrategy = "newest"
	KeepSmallest     KeepStrategy = "smallest"
	KeepLargest      KeepStrategy = "largest"
	KeepShortestName KeepStrategy = "shortest_name"
)

// DuplicateGroup holds the files sharing one comparison key, in
// first-encountered order. Groups always contain at least two entries;
// single-file keys are not retained.
type DuplicateGroup struct {
	Key     string
	Records []*FileRecord
}

// Resolution is the outcome of resolving all duplicate groups: one
// kept record per group, everything else removed (or slated for
// removal in a dry run).
type Resolution struct {
	Kept       []*FileRecord
	Removed    []*FileRecord
	SpaceSaved int64 // bytes reclaimed (or reclaimable) from Removed
	Errors     int   // failed deletions, best-effort
}

// DuplicateSummary aggregates a duplicate scan for reporting.
type DuplicateSummary struct {
	Groups         int
	DuplicateFiles int
	WastedBytes    int64
}

// DuplicateIndex groups files by a comparison key. It is scan-scoped:
// built during one duplicate scan and discarded afterwards unless the
// caller acts on it.
type DuplicateIndex struct {
	fsm     FilesystemManager
	logger  Logger
	workers int
}

// NewDuplicateIndex creates an index. workers > 1 hashes files on a
// worker pool in content-based modes.
func NewDuplicateIndex(fsm FilesystemManager, logger Logger, workers int) *DuplicateIndex {
	if workers < 1 {
		workers = 1
	}
	return &DuplicateIndex{fsm: fsm, logger: logger, workers: workers}
}

// Find groups the records sharing a comparison key under mode. Each
// file is hashed at most once regardless of how many candidates share
// its key; hashing dominates cost for large files and pairwise
// re-hashing is treated as a defect, not an optimization choice.
// Files that cannot be keyed (read failure) are skipped and logged.
func (ix *DuplicateIndex) Find(records []*FileRecord, mode DuplicateMode) ([]*DuplicateGroup, error) {
	hashes := map[string]string{}
	if mode == CompareContent || mode == CompareAll {
		var err error
		hashes, err = hashRecords(ix.fsm, ix.logger, records, ix.workers)
		if err != nil {
			return nil, err
		}
	}

	firstSeen := make(map[string]*FileRecord)
	groupByKey := make(map[string]*DuplicateGroup)
	var groups []*DuplicateGroup

	for _, rec := range records {
		key, ok := ix.keyFor(rec, mode, hashes)
		if !ok {
			continue
		}

		if prior, seen := firstSeen[key]; seen {
			g := groupByKey[key]
			if g == nil {
				g = &DuplicateGroup{Key: key, Records: []*FileRecord{prior}}
				groupByKey[key] = g
				groups = append(groups, g)
			}
			g.Records = append(g.Records, rec)
		} else {
			firstSeen[key] = rec
		}
	}

	return groups, nil
}

func (ix *DuplicateIndex) keyFor(rec *FileRecord, mode DuplicateMode, hashes map[string]string) (string, bool) {
	switch mode {
	case CompareName:
		return strings.ToLower(rec.Name), true
	case CompareSize:
		return strconv.FormatInt(rec.Size, 10), true
	case CompareAll:
		h, ok := hashes[rec.Path]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s_%d_%s", strings.ToLower(rec.Name), rec.Size, h), true
	default: // CompareContent
		h, ok := hashes[rec.Path]
		return h, ok
	}
}

// RecommendKeep picks the record of a group to retain under strategy.
// Ties resolve to the first-encountered record (stable).
func RecommendKeep(group *DuplicateGroup, strategy KeepStrategy) *FileRecord {
	keep := group.Records[0]
	for _, rec := range group.Records[1:] {
		switch strategy {
		case KeepOldest:
			if rec.ChangeTime.Before(keep.ChangeTime) {
				keep = rec
			}
		case KeepNewest:
			if rec.ChangeTime.After(keep.ChangeTime) {
				keep = rec
			}
		case KeepSmallest:
			if rec.Size < keep.Size {
				keep = rec
			}
		case KeepLargest:
			if rec.Size > keep.Size {
				keep = rec
			}
		case KeepShortestName:
			if len(rec.Name) < len(keep.Name) {
				keep = rec
			}
		default:
			// Unknown strategy keeps the first encountered.
		}
	}
	return keep
}

// AutoResolve computes the kept/removed partition across all groups
// and, when dryRun is false, deletes the removed files. Deletion is
// best-effort: an individual failure is logged and counted, the
// remaining deletions proceed.
func (ix *DuplicateIndex) AutoResolve(groups []*DuplicateGroup, strategy KeepStrategy, dryRun bool) *Resolution {
	res := &Resolution{}

	for _, group := range groups {
		if len(group.Records) < 2 {
			continue
		}
		keep := RecommendKeep(group, strategy)
		res.Kept = append(res.Kept, keep)

		for _, rec := range group.Records {
			if rec == keep {
				continue
			}
			res.Removed = append(res.Removed, rec)
			res.SpaceSaved += rec.Size

			if dryRun {
				continue
			}
			if err := ix.fsm.Remove(rec.Path); err != nil {
				ix.logger.Error("removing duplicate failed", "path", rec.Path, "error", err)
				res.Errors++
			}
		}
	}

	return res
}

// MoveToReview relocates the given records into reviewDir, suffixing
// colliding names with a counter. Returns moved and failed counts.
func (ix *DuplicateIndex) MoveToReview(records []*FileRecord, reviewDir string) (int, int) {
	if err := ix.fsm.MkdirAll(reviewDir); err != nil {
		ix.logger.Error("creating review folder failed", "path", reviewDir, "error", err)
		return 0, len(records)
	}

	moved, failed := 0, 0
	for _, rec := range records {
		dest := filepath.Join(reviewDir, rec.Name)
		stem := strings.TrimSuffix(rec.Name, rec.Ext)
		for counter := 1; ix.fsm.Exists(dest); counter++ {
			dest = filepath.Join(reviewDir, fmt.Sprintf("%s_%d%s", stem, counter, rec.Ext))
		}

		if err := ix.fsm.Move(rec.Path, dest); err != nil {
			ix.logger.Error("moving duplicate to review failed", "path", rec.Path, "error", err)
			failed++
			continue
		}
		moved++
	}
	return moved, failed
}

// Summarize aggregates group statistics: wasted bytes count every
// entry of a group except one.
func Summarize(groups []*DuplicateGroup) DuplicateSummary {
	s := DuplicateSummary{Groups: len(groups)}
	for _, g := range groups {
		s.DuplicateFiles += len(g.Records)
		for _, rec := range g.Records[1:] {
			s.WastedBytes += rec.Size
		}
	}
	return s
}
