package config_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"fo-go/internal/config"
)

func TestNewConfig(t *testing.T) {
	cfg := config.NewConfig("/home/user/Downloads", "/home/user/.local/share/fo")

	if !cfg.DryRun {
		t.Error("new configs must default to dry run")
	}
	if cfg.OrganizedRoot != filepath.Join("/home/user/Downloads", "_Organized") {
		t.Errorf("OrganizedRoot = %s", cfg.OrganizedRoot)
	}
	if !cfg.Backup.Enabled || !cfg.Backup.Required {
		t.Errorf("backup defaults = %+v, want enabled and required", cfg.Backup)
	}
	if cfg.MaxBatchSize != 500 {
		t.Errorf("MaxBatchSize = %d, want 500", cfg.MaxBatchSize)
	}
	if len(cfg.Categories) == 0 {
		t.Error("no default categories")
	}
	if cfg.Journal.Type != "filesystem" || cfg.Journal.Path == "" {
		t.Errorf("journal defaults = %+v", cfg.Journal)
	}
	if cfg.History.Type != "sqlite" {
		t.Errorf("History.Type = %s, want sqlite", cfg.History.Type)
	}
}

func TestManager_ReadWrite(t *testing.T) {
	t.Run("round-trips through TOML", func(t *testing.T) {
		original := config.NewConfig("/src", "/data")
		original.Rules = []config.RuleConfig{{
			Priority:      10,
			Enabled:       true,
			ConditionType: "contains",
			Keyword:       "invoice",
			ActionType:    "categorize",
			Category:      "Finance",
		}}

		m := &config.Manager{}
		var buf bytes.Buffer
		if err := m.Write(&buf, original); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		got, err := m.Read(&buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		if got.SourceRoot != original.SourceRoot {
			t.Errorf("SourceRoot = %s, want %s", got.SourceRoot, original.SourceRoot)
		}
		if len(got.Categories) != len(original.Categories) {
			t.Errorf("Categories = %d, want %d", len(got.Categories), len(original.Categories))
		}
		if len(got.Rules) != 1 || got.Rules[0].Keyword != "invoice" {
			t.Errorf("Rules = %+v", got.Rules)
		}
		if got.Backup.Type != "filesystem" || !got.Backup.Required {
			t.Errorf("Backup = %+v", got.Backup)
		}
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		m := &config.Manager{}
		if _, err := m.Read(strings.NewReader("source_root = [broken")); err == nil {
			t.Error("Read() accepted malformed TOML")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates the file once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config", "fo.toml")
		cfg := config.NewConfig("/src", "/data")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		read, err := config.ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if read.SourceRoot != "/src" {
			t.Errorf("SourceRoot = %s, want /src", read.SourceRoot)
		}
	})

	t.Run("refuses to overwrite an existing config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fo.toml")
		cfg := config.NewConfig("/src", "/data")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := config.Init(path, cfg); err == nil {
			t.Error("second Init() overwrote the existing config")
		}
	})
}

func TestReadFromFile_Missing(t *testing.T) {
	if _, err := config.ReadFromFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("ReadFromFile() succeeded on a missing file")
	}
}
