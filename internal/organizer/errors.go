package organizer

import "errors"

// ErrIOUnavailable marks per-file failures caused by the filesystem:
// the path vanished between listing and stat, permissions deny access,
// or a read/move failed. Callers treat it as "skip and continue".
var ErrIOUnavailable = errors.New("io unavailable")

// ErrIntegrityMismatch marks a move or backup whose result does not
// match the source (destination missing after a claimed move, or a
// size mismatch). It is still recoverable at the file granularity but
// is surfaced distinctly from a plain I/O failure.
var ErrIntegrityMismatch = errors.New("integrity mismatch")
