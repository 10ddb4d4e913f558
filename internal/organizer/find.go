package organizer

import (
	"fmt"
	"strings"
	"time"
)

// FindQuery selects files during a search walk. Zero-valued fields do
// not constrain; every populated field must match.
type FindQuery struct {
	NameContains string
	NameGlob     string
	Extensions   []string
	MinBytes     int64
	MaxBytes     int64
	MinAgeDays   int
	MaxAgeDays   int
}

// conditions converts the populated fields into the rule engine's
// condition variants, combined with AND.
func (q FindQuery) conditions() []Condition {
	var conds []Condition
	if q.NameContains != "" {
		conds = append(conds, NameContains{Keyword: q.NameContains})
	}
	if q.NameGlob != "" {
		conds = append(conds, NameGlob{Pattern: q.NameGlob})
	}
	if len(q.Extensions) > 0 {
		conds = append(conds, ExtensionIn{Extensions: normalizeExtensions(q.Extensions)})
	}
	if q.MinBytes > 0 || q.MaxBytes > 0 {
		conds = append(conds, SizeBetween{MinBytes: q.MinBytes, MaxBytes: q.MaxBytes})
	}
	if q.MinAgeDays > 0 {
		conds = append(conds, OlderThan{MinDays: q.MinAgeDays})
	}
	if q.MaxAgeDays > 0 {
		conds = append(conds, newerThan{maxDays: q.MaxAgeDays})
	}
	return conds
}

// newerThan is the complement of OlderThan: modified within the last
// maxDays. Only find queries build it.
type newerThan struct {
	maxDays int
}

func (c newerThan) Matches(record *FileRecord, now time.Time) bool {
	return now.Sub(record.ModTime) <= time.Duration(c.maxDays)*24*time.Hour
}

// normalizeExtensions lower-cases and dot-prefixes user-supplied
// extensions so "PDF" and ".pdf" select the same files.
func normalizeExtensions(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out[i] = e
	}
	return out
}

// Find walks the source root and returns every record that survives
// the skip matcher and matches the query. Like Scan it never mutates
// the tree; per-file stat failures are skipped inside the walk.
func (s *Service) Find(query FindQuery) ([]*FileRecord, error) {
	conds := query.conditions()
	now := s.clock.Now()

	var matched []*FileRecord
	err := s.fsm.Walk(s.cfg.SourceRoot, func(record *FileRecord) error {
		if s.skip.ShouldSkip(record) {
			return nil
		}
		for _, c := range conds {
			if !c.Matches(record, now) {
				return nil
			}
		}
		matched = append(matched, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", s.cfg.SourceRoot, err)
	}

	s.logger.Info("find complete", "matched", len(matched))
	return matched, nil
}
