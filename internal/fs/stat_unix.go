//go:build unix

package fs

import (
	"io/fs"
	"syscall"
	"time"
)

// changeTime extracts the inode change time from a FileInfo. The zero
// value signals "unavailable"; FileRecord falls back to ModTime.
func changeTime(info fs.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}
	}
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
}
