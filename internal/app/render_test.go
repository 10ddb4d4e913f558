package app

import (
	"strings"
	"testing"

	"fo-go/internal/organizer"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{2 << 20, "2.0 MB"},
		{5 << 30, "5.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderPreview(t *testing.T) {
	t.Run("empty plan", func(t *testing.T) {
		got := RenderPreview(nil)
		if !strings.Contains(got, "Nothing to organize") {
			t.Errorf("RenderPreview(nil) = %q", got)
		}
	})

	t.Run("groups by category and truncates", func(t *testing.T) {
		var intents []organizer.MoveIntent
		for i := 0; i < 8; i++ {
			intents = append(intents, organizer.MoveIntent{
				Source:      "/src/file.pdf",
				Destination: "/org/Documents/file.pdf",
				Category:    "Documents",
			})
		}
		intents = append(intents, organizer.MoveIntent{
			Source:      "/src/pic.jpg",
			Destination: "/org/Images/pic.jpg",
			Category:    "Images",
		})

		got := RenderPreview(intents)
		if !strings.Contains(got, "Documents (8)") {
			t.Errorf("missing Documents group header: %q", got)
		}
		if !strings.Contains(got, "Images (1)") {
			t.Errorf("missing Images group header: %q", got)
		}
		if !strings.Contains(got, "and 3 more") {
			t.Errorf("missing truncation marker: %q", got)
		}
	})
}

func TestRenderStats(t *testing.T) {
	stats := &organizer.Stats{Scanned: 10, ToOrganize: 5, Moved: 5, Errors: 1}

	t.Run("dry run banner", func(t *testing.T) {
		got := RenderStats(stats, true)
		if !strings.Contains(got, "DRY RUN") {
			t.Errorf("missing dry run banner: %q", got)
		}
	})

	t.Run("includes counts", func(t *testing.T) {
		got := RenderStats(stats, false)
		if strings.Contains(got, "DRY RUN") {
			t.Errorf("unexpected dry run banner: %q", got)
		}
		for _, want := range []string{"Scanned:     10", "Moved:       5", "Errors:      1"} {
			if !strings.Contains(got, want) {
				t.Errorf("missing %q in %q", want, got)
			}
		}
	})
}

func TestRenderDuplicates(t *testing.T) {
	t.Run("no groups", func(t *testing.T) {
		got := RenderDuplicates(nil, organizer.DuplicateSummary{}, nil)
		if !strings.Contains(got, "No duplicates") {
			t.Errorf("RenderDuplicates() = %q", got)
		}
	})
}
