package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the main configuration for fo. It is decoded once at
// startup and passed by value into the pipeline; nothing mutates it
// after load.
type Config struct {
	SourceRoot    string `toml:"source_root"`
	OrganizedRoot string `toml:"organized_root"`
	LogDir        string `toml:"log_dir"`

	DryRun       bool  `toml:"dry_run"`
	MaxBatchSize int   `toml:"max_batch_size"`
	MinFileSize  int64 `toml:"min_file_size"`
	MaxFileSize  int64 `toml:"max_file_size"`
	Workers      int   `toml:"workers"`

	Categories []CategoryConfig `toml:"categories"`
	Folders    []FolderConfig   `toml:"folders"`
	Rules      []RuleConfig     `toml:"rules"`

	Scan    ScanConfig    `toml:"scan"`
	Backup  BackupConfig  `toml:"backup"`
	Journal JournalConfig `toml:"journal"`
	History HistoryConfig `toml:"history"`
}

// CategoryConfig maps a set of extensions to a category. Table order
// is rule order.
type CategoryConfig struct {
	Name       string   `toml:"name"`
	Extensions []string `toml:"extensions"`
}

// FolderConfig maps a folder name appearing in a file's path to a
// category. Folder rules take precedence over extension rules.
type FolderConfig struct {
	Folder   string `toml:"folder"`
	Category string `toml:"category"`
}

// RuleConfig is one custom rule. Condition is a tagged union on the
// "condition" field; Action on the "action" field.
type RuleConfig struct {
	Priority int  `toml:"priority"`
	Enabled  bool `toml:"enabled"`

	ConditionType string   `toml:"condition"` // contains, glob, extension, size, age
	Keyword       string   `toml:"keyword,omitempty"`
	Pattern       string   `toml:"pattern,omitempty"`
	Extensions    []string `toml:"extensions,omitempty"`
	MinBytes      int64    `toml:"min_bytes,omitempty"`
	MaxBytes      int64    `toml:"max_bytes,omitempty"`
	MinAgeDays    int      `toml:"min_age_days,omitempty"`

	ActionType string `toml:"action"` // categorize, move_to_review, flag
	Category   string `toml:"category,omitempty"`
	Label      string `toml:"label,omitempty"`
}

// ScanConfig holds the scan exclusions.
type ScanConfig struct {
	SkipFolders         []string `toml:"skip_folders"`
	ProtectedDirs       []string `toml:"protected_dirs"`
	ProtectedExtensions []string `toml:"protected_extensions"`
	IncludeHidden       bool     `toml:"include_hidden"`
}

// BackupConfig configures the pre-move backup store. This uses a
// tagged union pattern - the Type field determines which other fields
// are relevant.
type BackupConfig struct {
	Enabled bool `toml:"enabled"`
	// Required aborts a file's move when its backup fails. Disabling
	// it restores the historical best-effort behavior.
	Required bool   `toml:"required"`
	Type     string `toml:"type"` // "filesystem", "s3", or "memory"

	// Filesystem-specific (Type == "filesystem")
	Root string `toml:"root,omitempty"`

	// S3-specific (Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// JournalConfig configures the undo journal store.
type JournalConfig struct {
	Type string `toml:"type"`           // "filesystem" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=filesystem
}

// HistoryConfig configures the session history store.
type HistoryConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a Config with the default category tables and
// safety settings, rooted at the given source directory.
func NewConfig(sourceRoot, baseDir string) *Config {
	return &Config{
		SourceRoot:    sourceRoot,
		OrganizedRoot: filepath.Join(sourceRoot, "_Organized"),
		LogDir:        filepath.Join(baseDir, "log"),
		DryRun:        true, // test in dry run before actual organization
		MaxBatchSize:  500,
		MaxFileSize:   5 << 30,
		Workers:       1,
		Categories:    DefaultCategories(),
		Scan: ScanConfig{
			SkipFolders:   DefaultSkipFolders(),
			ProtectedDirs: DefaultProtectedDirs(),
		},
		Backup: BackupConfig{
			Enabled:  true,
			Required: true,
			Type:     "filesystem",
			Root:     filepath.Join(sourceRoot, "_Backup_Before_Organize"),
		},
		Journal: JournalConfig{
			Type: "filesystem",
			Path: filepath.Join(baseDir, "undo_journal.json"),
		},
		History: HistoryConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
