package fingerprint

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no cache entry exists for the path.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt indicates a stored fingerprint blob that cannot be decoded.
	ErrCorrupt = errors.New("corrupt fingerprint data")
)

// CacheIOError reports a failed read or write of the fingerprint database.
type CacheIOError struct {
	Op   string // "lookup", "save", "delete", ...
	Path string
	Err  error
}

func (e *CacheIOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("fingerprint cache %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("fingerprint cache %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *CacheIOError) Unwrap() error { return e.Err }
