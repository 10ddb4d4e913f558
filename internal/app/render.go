package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fo-go/internal/organizer"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	itemStyle = lipgloss.NewStyle().PaddingLeft(4)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4A017"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575")).
		Bold(true)
)

const previewPerCategory = 5

// RenderPreview shows the planned moves grouped by category, first few
// files of each.
func RenderPreview(intents []organizer.MoveIntent) string {
	if len(intents) == 0 {
		return dimStyle.Render("Nothing to organize.") + "\n"
	}

	byCategory := make(map[organizer.Category][]organizer.MoveIntent)
	var order []organizer.Category
	for _, in := range intents {
		if _, seen := byCategory[in.Category]; !seen {
			order = append(order, in.Category)
		}
		byCategory[in.Category] = append(byCategory[in.Category], in)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Planned moves: %d files", len(intents))))
	b.WriteString("\n\n")

	for _, cat := range order {
		group := byCategory[cat]
		b.WriteString(categoryStyle.Render(fmt.Sprintf("%s (%d)", cat, len(group))))
		b.WriteString("\n")
		for i, in := range group {
			if i == previewPerCategory {
				b.WriteString(itemStyle.Render(dimStyle.Render(fmt.Sprintf("... and %d more", len(group)-previewPerCategory))))
				b.WriteString("\n")
				break
			}
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s -> %s", in.Source, in.Destination)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderStats summarizes one run.
func RenderStats(stats *organizer.Stats, dryRun bool) string {
	var b strings.Builder
	if dryRun {
		b.WriteString(warnStyle.Render("DRY RUN - no files were moved"))
		b.WriteString("\n")
	}
	b.WriteString(headerStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Scanned:     %d", stats.Scanned)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("To organize: %d", stats.ToOrganize)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Moved:       %d", stats.Moved)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Backed up:   %d", stats.BackedUp)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Skipped:     %d", stats.Skipped)) + "\n")
	if stats.Duplicates > 0 {
		b.WriteString(itemStyle.Render(fmt.Sprintf("Duplicates:  %d", stats.Duplicates)) + "\n")
	}
	if stats.Errors > 0 {
		b.WriteString(itemStyle.Render(warnStyle.Render(fmt.Sprintf("Errors:      %d", stats.Errors))) + "\n")
	}
	return b.String()
}

// RenderFlagged lists files matched by flag rules.
func RenderFlagged(flagged map[string]string) string {
	if len(flagged) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(warnStyle.Render(fmt.Sprintf("Flagged files: %d", len(flagged))))
	b.WriteString("\n")
	for path, label := range flagged {
		b.WriteString(itemStyle.Render(fmt.Sprintf("%s (%s)", path, label)) + "\n")
	}
	return b.String()
}

// RenderFound lists search results with size and age.
func RenderFound(records []*organizer.FileRecord) string {
	if len(records) == 0 {
		return dimStyle.Render("No matching files.") + "\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Found %d files", len(records))))
	b.WriteString("\n")
	for _, r := range records {
		b.WriteString(itemStyle.Render(fmt.Sprintf("%s  %s",
			r.Path, dimStyle.Render(fmt.Sprintf("(%s, modified %s)",
				FormatBytes(r.Size), r.ModTime.Format("2006-01-02"))))))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDuplicates reports each duplicate group with its recommended
// keeper.
func RenderDuplicates(groups []*organizer.DuplicateGroup, summary organizer.DuplicateSummary, recommend func(*organizer.DuplicateGroup) *organizer.FileRecord) string {
	if len(groups) == 0 {
		return okStyle.Render("No duplicates found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"Found %d duplicate groups (%d redundant files, %s wasted)",
		summary.Groups, summary.DuplicateFiles, FormatBytes(summary.WastedBytes))))
	b.WriteString("\n\n")

	for i, g := range groups {
		keep := recommend(g)
		b.WriteString(categoryStyle.Render(fmt.Sprintf("Group %d (%d files)", i+1, len(g.Records))))
		b.WriteString("\n")
		for _, r := range g.Records {
			marker := "  "
			if keep != nil && r.Path == keep.Path {
				marker = okStyle.Render("* ")
			}
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s%s (%s)", marker, r.Path, FormatBytes(r.Size))))
			b.WriteString("\n")
		}
	}
	b.WriteString(dimStyle.Render("* = recommended keep"))
	b.WriteString("\n")
	return b.String()
}

// RenderResolution summarizes a duplicate resolution pass.
func RenderResolution(res *organizer.Resolution, dryRun bool) string {
	var b strings.Builder
	if dryRun {
		b.WriteString(warnStyle.Render("DRY RUN - no files were deleted"))
		b.WriteString("\n")
	}
	verb := "Removed"
	if dryRun {
		verb = "Would remove"
	}
	b.WriteString(fmt.Sprintf("%s %d files, kept %d, reclaiming %s\n",
		verb, len(res.Removed), len(res.Kept), FormatBytes(res.SpaceSaved)))
	if res.Errors > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d deletions failed", res.Errors)) + "\n")
	}
	return b.String()
}

// RenderUndo summarizes an undo pass.
func RenderUndo(res *organizer.UndoResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Restored %d files\n", res.Restored))
	if res.Errors > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d files could not be restored", res.Errors)) + "\n")
	}
	for _, msg := range res.Messages {
		b.WriteString(itemStyle.Render(dimStyle.Render(msg)) + "\n")
	}
	return b.String()
}

// RenderSessions lists undoable sessions.
func RenderSessions(sessions []organizer.SessionInfo) string {
	if len(sessions) == 0 {
		return dimStyle.Render("No sessions to undo.") + "\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Undoable sessions"))
	b.WriteString("\n")
	for _, s := range sessions {
		b.WriteString(itemStyle.Render(fmt.Sprintf("%s  %s  %d files",
			s.ID, s.StartedAt.Format("2006-01-02 15:04:05"), s.FileCount)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHistory lists recent sessions, newest first.
func RenderHistory(sessions []*organizer.SessionSummary) string {
	if len(sessions) == 0 {
		return dimStyle.Render("No history yet.") + "\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent sessions"))
	b.WriteString("\n")
	for _, s := range sessions {
		b.WriteString(categoryStyle.Render(fmt.Sprintf("%s  %s",
			s.StartedAt.Format("2006-01-02 15:04:05"), s.ID)))
		b.WriteString("\n")
		b.WriteString(itemStyle.Render(fmt.Sprintf("moved %d of %d scanned, %s",
			s.Stats.Moved, s.Stats.Scanned, FormatBytes(s.TotalBytes))))
		b.WriteString("\n")
		for _, c := range s.Categories {
			b.WriteString(itemStyle.Render(dimStyle.Render(fmt.Sprintf("  %s: %d files (%s)",
				c.Category, c.Files, FormatBytes(c.Bytes)))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderTotals shows lifetime aggregates.
func RenderTotals(t *organizer.HistoryTotals) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("All-time totals"))
	b.WriteString("\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Sessions:         %d", t.Sessions)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Files organized:  %d", t.FilesOrganized)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Bytes organized:  %s", FormatBytes(t.TotalBytes))) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Duplicates found: %d", t.DuplicatesFound)) + "\n")
	for _, c := range t.ByCategory {
		b.WriteString(itemStyle.Render(dimStyle.Render(fmt.Sprintf("  %s: %d files (%s)",
			c.Category, c.Files, FormatBytes(c.Bytes)))))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatBytes renders a byte count in human-readable binary units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
