package organizer

import (
	"path/filepath"
	"strings"
	"time"
)

// Category is a destination label, either a single folder name
// ("Documents") or a path segment sequence ("Work/Projects").
type Category string

// CategoryOther is the fallback for files no rule or table claims.
const CategoryOther Category = "Other"

// NoCategory is returned by the rule engine when no rule matched.
// It is distinct from CategoryOther: the caller decides the fallback.
const NoCategory Category = ""

// FileRecord is an immutable snapshot of one filesystem entry taken at
// scan time. A fresh scan supersedes it; it is never updated in place.
type FileRecord struct {
	Path       string    // absolute path
	Name       string    // base name
	Size       int64     // size in bytes
	ModTime    time.Time // last modification
	ChangeTime time.Time // inode change time, falls back to ModTime
	Ext        string    // lower-cased extension including the dot, "" if none
}

// NewFileRecord builds a record from stat results. changeTime may be
// the zero value on platforms where ctime is unavailable.
func NewFileRecord(absPath string, size int64, modTime, changeTime time.Time) *FileRecord {
	if changeTime.IsZero() {
		changeTime = modTime
	}
	return &FileRecord{
		Path:       absPath,
		Name:       filepath.Base(absPath),
		Size:       size,
		ModTime:    modTime,
		ChangeTime: changeTime,
		Ext:        strings.ToLower(filepath.Ext(absPath)),
	}
}

// ClassifiedRecord pairs a record with the category the classifier
// assigned to it.
type ClassifiedRecord struct {
	Record   *FileRecord
	Category Category
}
