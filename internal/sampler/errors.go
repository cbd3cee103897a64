package sampler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSkip indicates a frame-skip interval below 1.
	ErrInvalidSkip = errors.New("skip must be at least 1")

	// ErrNoVideoStream indicates a file without a decodable video stream.
	ErrNoVideoStream = errors.New("no video stream")

	// ErrNoFrames indicates the decoder finished without producing a frame.
	ErrNoFrames = errors.New("no frames decoded")
)

// UnreadableVideoError reports a file that could not be opened or decoded.
// The file is excluded from comparison; the scan continues.
type UnreadableVideoError struct {
	Path   string
	Err    error
	Detail string // decoder diagnostics, may be empty
}

func (e *UnreadableVideoError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unreadable video %q: %v: %s", e.Path, e.Err, e.Detail)
	}
	return fmt.Sprintf("unreadable video %q: %v", e.Path, e.Err)
}

func (e *UnreadableVideoError) Unwrap() error { return e.Err }

// IsUnreadable reports whether err is an UnreadableVideoError.
func IsUnreadable(err error) bool {
	var e *UnreadableVideoError
	return errors.As(err, &e)
}
