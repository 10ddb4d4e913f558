package journal

import (
	"fmt"

	"fo-go/internal/config"
	"fo-go/internal/organizer"
)

// NewJournalFromConfig creates a Journal implementation based on the
// journal config type.
func NewJournalFromConfig(cfg config.JournalConfig) (organizer.Journal, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryJournal(), nil
	case "filesystem":
		if cfg.Path == "" {
			return nil, fmt.Errorf("filesystem journal requires path to be set")
		}
		return OpenFileJournal(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}
