//go:build !unix

package fs

import (
	"io/fs"
	"time"
)

// changeTime is unavailable off Unix; FileRecord falls back to ModTime.
func changeTime(info fs.FileInfo) time.Time {
	return time.Time{}
}
