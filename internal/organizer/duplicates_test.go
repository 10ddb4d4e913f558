package organizer_test

import (
	"testing"
	"time"

	"fo-go/internal/organizer"
	"fo-go/internal/testutil"
)

func newIndex(fsm organizer.FilesystemManager, workers int) *organizer.DuplicateIndex {
	return organizer.NewDuplicateIndex(fsm, organizer.NewNopLogger(), workers)
}

func resolveAll(fsm *testutil.MockFilesystemManager) []*organizer.FileRecord {
	var out []*organizer.FileRecord
	for _, p := range fsm.Paths() {
		rec, _ := fsm.Resolve(p)
		out = append(out, rec)
	}
	return out
}

func TestDuplicateIndex_Find(t *testing.T) {
	t.Run("content mode groups identical bytes", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/a.txt", []byte("same content"))
		fsm.AddFile("/src/sub/b.txt", []byte("same content"))
		fsm.AddFile("/src/c.txt", []byte("different"))

		groups, err := newIndex(fsm, 1).Find(resolveAll(fsm), organizer.CompareContent)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("Find() groups = %d, want 1", len(groups))
		}
		if len(groups[0].Records) != 2 {
			t.Errorf("group size = %d, want 2", len(groups[0].Records))
		}
	})

	t.Run("name mode ignores content", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/report.pdf", []byte("one"))
		fsm.AddFile("/src/old/Report.PDF", []byte("two"))

		groups, err := newIndex(fsm, 1).Find(resolveAll(fsm), organizer.CompareName)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("Find() groups = %d, want 1 (case-insensitive name)", len(groups))
		}
	})

	t.Run("all mode requires name, size, and content", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/a/report.pdf", []byte("same"))
		fsm.AddFile("/src/b/report.pdf", []byte("same"))
		fsm.AddFile("/src/c/report.pdf", []byte("diff"))

		groups, err := newIndex(fsm, 1).Find(resolveAll(fsm), organizer.CompareAll)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("Find() groups = %d, want 1", len(groups))
		}
		if len(groups[0].Records) != 2 {
			t.Errorf("group size = %d, want 2", len(groups[0].Records))
		}
	})

	t.Run("worker pool yields same groups", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		for _, p := range []string{"/src/a", "/src/b", "/src/c", "/src/d", "/src/e"} {
			fsm.AddFile(p, []byte("identical"))
		}
		fsm.AddFile("/src/odd", []byte("unique"))

		records := resolveAll(fsm)
		sequential, err := newIndex(fsm, 1).Find(records, organizer.CompareContent)
		if err != nil {
			t.Fatalf("sequential Find() error = %v", err)
		}
		pooled, err := newIndex(fsm, 4).Find(records, organizer.CompareContent)
		if err != nil {
			t.Fatalf("pooled Find() error = %v", err)
		}

		if len(sequential) != len(pooled) {
			t.Fatalf("group counts differ: %d vs %d", len(sequential), len(pooled))
		}
		if len(sequential[0].Records) != len(pooled[0].Records) {
			t.Errorf("group sizes differ: %d vs %d", len(sequential[0].Records), len(pooled[0].Records))
		}
	})

	t.Run("unreadable files are skipped", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/a.txt", []byte("same"))
		fsm.AddFile("/src/b.txt", []byte("same"))
		fsm.AddFile("/src/broken.txt", []byte("same"))
		fsm.FailOpen["/src/broken.txt"] = true

		groups, err := newIndex(fsm, 1).Find(resolveAll(fsm), organizer.CompareContent)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(groups) != 1 || len(groups[0].Records) != 2 {
			t.Fatalf("Find() did not skip the unreadable file: %+v", groups)
		}
	})
}

func TestRecommendKeep(t *testing.T) {
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	old := organizer.NewFileRecord("/src/oldest_copy.txt", 50, base.AddDate(0, 0, -10), base.AddDate(0, 0, -10))
	mid := organizer.NewFileRecord("/src/mid.txt", 100, base, base)
	new_ := organizer.NewFileRecord("/src/newest_duplicate.txt", 20, base.AddDate(0, 0, 5), base.AddDate(0, 0, 5))
	group := &organizer.DuplicateGroup{Records: []*organizer.FileRecord{mid, old, new_}}

	cases := []struct {
		strategy organizer.KeepStrategy
		want     string
	}{
		{organizer.KeepOldest, old.Path},
		{organizer.KeepNewest, new_.Path},
		{organizer.KeepSmallest, new_.Path},
		{organizer.KeepLargest, mid.Path},
		{organizer.KeepShortestName, mid.Path},
	}
	for _, tc := range cases {
		t.Run(string(tc.strategy), func(t *testing.T) {
			got := organizer.RecommendKeep(group, tc.strategy)
			if got.Path != tc.want {
				t.Errorf("RecommendKeep(%s) = %s, want %s", tc.strategy, got.Path, tc.want)
			}
		})
	}

	t.Run("ties keep first encountered", func(t *testing.T) {
		a := organizer.NewFileRecord("/src/a.txt", 100, base, base)
		b := organizer.NewFileRecord("/src/b.txt", 100, base, base)
		g := &organizer.DuplicateGroup{Records: []*organizer.FileRecord{a, b}}
		if got := organizer.RecommendKeep(g, organizer.KeepOldest); got != a {
			t.Errorf("RecommendKeep tie = %s, want first record", got.Path)
		}
	})
}

func TestDuplicateIndex_AutoResolve(t *testing.T) {
	twoMB := make([]byte, 2<<20)

	setup := func(t *testing.T) (*testutil.MockFilesystemManager, []*organizer.DuplicateGroup) {
		t.Helper()
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFileWithTimes("/src/report.pdf", twoMB,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		fsm.AddFileWithTimes("/src/downloads/report.pdf", twoMB,
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

		groups, err := newIndex(fsm, 1).Find(resolveAll(fsm), organizer.CompareContent)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("Find() groups = %d, want 1", len(groups))
		}
		return fsm, groups
	}

	t.Run("dry run deletes nothing", func(t *testing.T) {
		fsm, groups := setup(t)

		res := newIndex(fsm, 1).AutoResolve(groups, organizer.KeepOldest, true)
		if len(res.Removed) != 1 {
			t.Fatalf("Removed = %d, want 1", len(res.Removed))
		}
		if res.SpaceSaved != 2<<20 {
			t.Errorf("SpaceSaved = %d, want %d", res.SpaceSaved, 2<<20)
		}
		if len(fsm.Paths()) != 2 {
			t.Errorf("dry run removed files: %v", fsm.Paths())
		}
	})

	t.Run("apply deletes the non-kept copy", func(t *testing.T) {
		fsm, groups := setup(t)

		res := newIndex(fsm, 1).AutoResolve(groups, organizer.KeepOldest, false)
		if res.Errors != 0 {
			t.Fatalf("Errors = %d, want 0", res.Errors)
		}
		if len(res.Kept) != 1 || res.Kept[0].Path != "/src/report.pdf" {
			t.Fatalf("Kept = %+v, want the older /src/report.pdf", res.Kept)
		}
		if fsm.File("/src/downloads/report.pdf") != nil {
			t.Error("newer duplicate still exists")
		}
		if fsm.File("/src/report.pdf") == nil {
			t.Error("kept file was deleted")
		}
		if res.SpaceSaved != 2<<20 {
			t.Errorf("SpaceSaved = %d, want %d", res.SpaceSaved, 2<<20)
		}
	})

	t.Run("a failed deletion is counted and the batch continues", func(t *testing.T) {
		fsm := testutil.NewMockFilesystemManager()
		fsm.AddFile("/src/a1.txt", []byte("x"))
		fsm.AddFile("/src/a2.txt", []byte("x"))
		fsm.AddFile("/src/b1.txt", []byte("y"))
		fsm.AddFile("/src/b2.txt", []byte("y"))

		groups, err := newIndex(fsm, 1).Find(resolveAll(fsm), organizer.CompareContent)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}

		// Make one of the doomed files undeletable by removing it first.
		res := newIndex(fsm, 1).AutoResolve(groups, organizer.KeepOldest, false)
		again := newIndex(fsm, 1).AutoResolve(groups, organizer.KeepOldest, false)
		if res.Errors != 0 {
			t.Fatalf("first resolve Errors = %d, want 0", res.Errors)
		}
		if again.Errors != len(again.Removed) {
			t.Errorf("second resolve Errors = %d, want %d (files already gone)", again.Errors, len(again.Removed))
		}
	})
}

func TestDuplicateIndex_MoveToReview(t *testing.T) {
	fsm := testutil.NewMockFilesystemManager()
	fsm.AddFile("/src/a/dup.txt", []byte("x"))
	fsm.AddFile("/src/b/dup.txt", []byte("x"))

	recA, _ := fsm.Resolve("/src/a/dup.txt")
	recB, _ := fsm.Resolve("/src/b/dup.txt")

	moved, failed := newIndex(fsm, 1).MoveToReview([]*organizer.FileRecord{recA, recB}, "/review")
	if moved != 2 || failed != 0 {
		t.Fatalf("MoveToReview() = (%d, %d), want (2, 0)", moved, failed)
	}
	if fsm.File("/review/dup.txt") == nil {
		t.Error("first file not in review folder")
	}
	if fsm.File("/review/dup_1.txt") == nil {
		t.Errorf("colliding name not suffixed: %v", fsm.Paths())
	}
}

func TestSummarize(t *testing.T) {
	a := record("/src/a", 100)
	b := record("/src/b", 100)
	c := record("/src/c", 100)
	groups := []*organizer.DuplicateGroup{
		{Key: "k", Records: []*organizer.FileRecord{a, b, c}},
	}

	s := organizer.Summarize(groups)
	if s.Groups != 1 || s.DuplicateFiles != 3 {
		t.Errorf("Summarize() = %+v, want 1 group of 3", s)
	}
	if s.WastedBytes != 200 {
		t.Errorf("WastedBytes = %d, want 200 (all but one copy)", s.WastedBytes)
	}
}
