package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"fo-go/internal/fs"
	"fo-go/internal/organizer"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestOSFilesystemManager_Resolve(t *testing.T) {
	m := fs.NewOSFilesystemManager(organizer.NewNopLogger())
	dir := t.TempDir()

	t.Run("resolves a regular file", func(t *testing.T) {
		path := filepath.Join(dir, "Report.PDF")
		writeFile(t, path, []byte("content"))

		rec, err := m.Resolve(path)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if rec.Name != "Report.PDF" {
			t.Errorf("Name = %s", rec.Name)
		}
		if rec.Ext != ".pdf" {
			t.Errorf("Ext = %s, want lower-cased .pdf", rec.Ext)
		}
		if rec.Size != int64(len("content")) {
			t.Errorf("Size = %d", rec.Size)
		}
	})

	t.Run("missing file wraps ErrIOUnavailable", func(t *testing.T) {
		_, err := m.Resolve(filepath.Join(dir, "nope.txt"))
		if !errors.Is(err, organizer.ErrIOUnavailable) {
			t.Errorf("Resolve() error = %v, want ErrIOUnavailable", err)
		}
	})

	t.Run("rejects directories", func(t *testing.T) {
		if _, err := m.Resolve(dir); err == nil {
			t.Error("Resolve() accepted a directory")
		}
	})
}

func TestOSFilesystemManager_Walk(t *testing.T) {
	m := fs.NewOSFilesystemManager(organizer.NewNopLogger())

	t.Run("visits every regular file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), []byte("a"))
		writeFile(t, filepath.Join(dir, "sub", "b.txt"), []byte("b"))
		writeFile(t, filepath.Join(dir, "sub", "deep", "c.txt"), []byte("c"))

		var names []string
		err := m.Walk(dir, func(rec *organizer.FileRecord) error {
			names = append(names, rec.Name)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		sort.Strings(names)
		want := []string{"a.txt", "b.txt", "c.txt"}
		if len(names) != len(want) {
			t.Fatalf("visited %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("visited %v, want %v", names, want)
				break
			}
		}
	})

	t.Run("missing root is fatal", func(t *testing.T) {
		err := m.Walk(filepath.Join(t.TempDir(), "missing"), func(*organizer.FileRecord) error { return nil })
		if !errors.Is(err, organizer.ErrIOUnavailable) {
			t.Errorf("Walk() error = %v, want ErrIOUnavailable", err)
		}
	})

	t.Run("callback error stops the walk", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), []byte("a"))
		writeFile(t, filepath.Join(dir, "b.txt"), []byte("b"))

		sentinel := errors.New("stop")
		visited := 0
		err := m.Walk(dir, func(*organizer.FileRecord) error {
			visited++
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Errorf("Walk() error = %v, want sentinel", err)
		}
		if visited != 1 {
			t.Errorf("visited = %d, want 1", visited)
		}
	})
}

func TestOSFilesystemManager_Move(t *testing.T) {
	m := fs.NewOSFilesystemManager(organizer.NewNopLogger())

	t.Run("moves within a device", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src.txt")
		dst := filepath.Join(dir, "sub", "dst.txt")
		writeFile(t, src, []byte("payload"))
		if err := m.MkdirAll(filepath.Dir(dst)); err != nil {
			t.Fatal(err)
		}

		if err := m.Move(src, dst); err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if m.Exists(src) {
			t.Error("source still exists")
		}
		data, err := os.ReadFile(dst)
		if err != nil || string(data) != "payload" {
			t.Errorf("destination content = %q, err = %v", data, err)
		}
	})

	t.Run("CopyPreserve keeps the mod time", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src.txt")
		dst := filepath.Join(dir, "dst.txt")
		writeFile(t, src, []byte("payload"))

		srcInfo, err := os.Stat(src)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.CopyPreserve(src, dst); err != nil {
			t.Fatalf("CopyPreserve() error = %v", err)
		}
		dstInfo, err := os.Stat(dst)
		if err != nil {
			t.Fatal(err)
		}
		if !dstInfo.ModTime().Equal(srcInfo.ModTime()) {
			t.Errorf("ModTime = %v, want %v", dstInfo.ModTime(), srcInfo.ModTime())
		}
	})
}
