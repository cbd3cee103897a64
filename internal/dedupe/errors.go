package dedupe

import "errors"

var (
	// ErrNoSource indicates Deps.Source is nil.
	ErrNoSource = errors.New("frame source is required")

	// ErrNoHasher indicates Deps.Hasher is nil.
	ErrNoHasher = errors.New("hasher is required")

	// ErrInvalidThreshold indicates a negative or NaN threshold.
	ErrInvalidThreshold = errors.New("threshold must be a non-negative number")
)
