package history

import (
	"fmt"
	"os"
	"path/filepath"

	"fo-go/internal/config"
	"fo-go/internal/organizer"
)

// NewStoreFromConfig creates a HistoryStore implementation based on
// the history config type.
func NewStoreFromConfig(cfg config.HistoryConfig) (organizer.HistoryStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite history")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating history data dir: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "history.db"))
	case "memory":
		return NewSQLiteStore(":memory:")
	default:
		return nil, fmt.Errorf("unknown history type: %s", cfg.Type)
	}
}
