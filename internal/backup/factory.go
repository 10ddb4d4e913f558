package backup

import (
	"context"
	"fmt"

	"fo-go/internal/config"
	"fo-go/internal/organizer"
)

// NewStoreFromConfig creates a BackupStore implementation based on the
// backup config type. Returns nil when backups are disabled.
func NewStoreFromConfig(cfg config.BackupConfig) (organizer.BackupStore, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "s3":
		return NewS3Store(context.Background(), S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem backup requires root to be set")
		}
		return NewFileSystemStore(cfg.Root)
	default:
		return nil, fmt.Errorf("unknown backup type: %s", cfg.Type)
	}
}
