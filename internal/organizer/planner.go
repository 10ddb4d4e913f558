package organizer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// collisionSuffixFormat timestamps colliding destination names,
// matching the journal-friendly second granularity.
const collisionSuffixFormat = "20060102_150405"

// MoveIntent records one planned move. The destination's parent
// category folder need not exist yet. The plan-time collision check is
// advisory: the mover re-resolves immediately before each move.
type MoveIntent struct {
	Source      string
	Destination string
	Category    Category
	PlannedAt   time.Time
}

// Planner computes non-colliding destination paths under the organized
// root. Planning never mutates the filesystem.
type Planner struct {
	fsm           FilesystemManager
	clock         Clock
	organizedRoot string
}

// NewPlanner creates a planner targeting organizedRoot.
func NewPlanner(fsm FilesystemManager, clock Clock, organizedRoot string) *Planner {
	return &Planner{fsm: fsm, clock: clock, organizedRoot: organizedRoot}
}

// Plan maps each classified record to organizedRoot/category/name.
// When the literal destination already exists on disk, or an earlier
// intent in this plan already claimed it, the name gets a timestamp
// suffix before the extension (and a counter if the timestamp alone
// still collides within the batch).
func (p *Planner) Plan(items []ClassifiedRecord) []MoveIntent {
	now := p.clock.Now()
	claimed := make(map[string]bool, len(items))
	intents := make([]MoveIntent, 0, len(items))

	for _, item := range items {
		dir := filepath.Join(p.organizedRoot, filepath.FromSlash(string(item.Category)))
		dest := filepath.Join(dir, item.Record.Name)
		dest = p.deconflict(dest, now, claimed)
		claimed[dest] = true

		intents = append(intents, MoveIntent{
			Source:      item.Record.Path,
			Destination: dest,
			Category:    item.Category,
			PlannedAt:   now,
		})
	}

	return intents
}

// deconflict returns dest unchanged when free, otherwise a suffixed
// variant not present on disk or in the claimed set.
func (p *Planner) deconflict(dest string, now time.Time, claimed map[string]bool) string {
	if !p.taken(dest, claimed) {
		return dest
	}

	dir := filepath.Dir(dest)
	name := filepath.Base(dest)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	ts := now.Format(collisionSuffixFormat)

	candidate := filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, ts, ext))
	for counter := 2; p.taken(candidate, claimed); counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%s_%d%s", stem, ts, counter, ext))
	}
	return candidate
}

func (p *Planner) taken(dest string, claimed map[string]bool) bool {
	return claimed[dest] || p.fsm.Exists(dest)
}
