package organizer

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
)

// hashChunkSize is the streaming read size. Not semantically
// significant; it only bounds per-read memory.
const hashChunkSize = 64 * 1024

// HashFile streams the file at path through MD5 and returns the
// lowercase hex digest. MD5 is an identity key here, not a security
// boundary. The file is never loaded whole: memory stays bounded
// regardless of file size. Read failures wrap ErrIOUnavailable.
func HashFile(fsm FilesystemManager, path string) (string, error) {
	f, err := fsm.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, ErrIOUnavailable)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, ErrIOUnavailable)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
