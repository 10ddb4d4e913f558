package organizer

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ActionType discriminates what a matched rule does with a file.
type ActionType string

const (
	// ActionCategorize routes the file to Action.Category.
	ActionCategorize ActionType = "categorize"
	// ActionMoveToReview routes the file to the review folder instead
	// of a category folder.
	ActionMoveToReview ActionType = "move_to_review"
	// ActionFlag tags the file with Action.Label for reporting; the
	// file is then classified normally.
	ActionFlag ActionType = "flag"
)

// Action is the tagged variant a rule carries. The Type field selects
// which other fields are relevant.
type Action struct {
	Type     ActionType
	Category Category // categorize only
	Label    string   // flag only
}

// Condition matches file records. Implementations are pure.
type Condition interface {
	Matches(record *FileRecord, now time.Time) bool
}

// NameContains matches records whose name contains Keyword,
// case-insensitively.
type NameContains struct {
	Keyword string
}

func (c NameContains) Matches(record *FileRecord, _ time.Time) bool {
	return strings.Contains(strings.ToLower(record.Name), strings.ToLower(c.Keyword))
}

// NameGlob matches the record name against a filepath.Match pattern.
type NameGlob struct {
	Pattern string
}

func (c NameGlob) Matches(record *FileRecord, _ time.Time) bool {
	ok, err := filepath.Match(c.Pattern, record.Name)
	// A bad pattern is treated as no match rather than failing the scan.
	return err == nil && ok
}

// ExtensionIn matches records whose extension is in the set.
type ExtensionIn struct {
	Extensions []string
}

func (c ExtensionIn) Matches(record *FileRecord, _ time.Time) bool {
	for _, ext := range c.Extensions {
		if record.Ext == strings.ToLower(ext) {
			return true
		}
	}
	return false
}

// SizeBetween matches records with MinBytes <= size <= MaxBytes.
// MaxBytes == 0 means unbounded above.
type SizeBetween struct {
	MinBytes int64
	MaxBytes int64
}

func (c SizeBetween) Matches(record *FileRecord, _ time.Time) bool {
	if record.Size < c.MinBytes {
		return false
	}
	return c.MaxBytes == 0 || record.Size <= c.MaxBytes
}

// OlderThan matches records not modified for at least MinDays.
type OlderThan struct {
	MinDays int
}

func (c OlderThan) Matches(record *FileRecord, now time.Time) bool {
	return now.Sub(record.ModTime) >= time.Duration(c.MinDays)*24*time.Hour
}

// Rule is one custom classification rule. Rules are replaced wholesale
// on edit, never mutated in place.
type Rule struct {
	ID        string
	Priority  int
	Enabled   bool
	Condition Condition
	Action    Action
}

// RuleEngine evaluates custom rules in descending priority order.
// Equal priorities keep insertion order: the sort on every insertion
// is stable by contract, not by accident.
type RuleEngine struct {
	rules []Rule
	clock Clock
}

// NewRuleEngine creates an engine holding the given rules.
func NewRuleEngine(clock Clock, rules ...Rule) *RuleEngine {
	e := &RuleEngine{clock: clock}
	for _, r := range rules {
		e.Add(r)
	}
	return e
}

// Add inserts a rule and re-sorts by descending priority.
func (e *RuleEngine) Add(rule Rule) {
	e.rules = append(e.rules, rule)
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].Priority > e.rules[j].Priority
	})
}

// Rules returns the rules in evaluation order.
func (e *RuleEngine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Apply returns the action of the first enabled rule whose condition
// matches, or ok=false when no rule matched. A no-match is distinct
// from the "Other" fallback; the caller decides what to do.
func (e *RuleEngine) Apply(record *FileRecord) (Action, bool) {
	now := e.clock.Now()
	for _, r := range e.rules {
		if !r.Enabled {
			continue
		}
		if r.Condition.Matches(record, now) {
			return r.Action, true
		}
	}
	return Action{}, false
}
