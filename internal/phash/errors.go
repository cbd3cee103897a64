package phash

import "errors"

var (
	// ErrEmptyImage indicates a nil or zero-sized frame.
	ErrEmptyImage = errors.New("empty image")

	// ErrUnknownAlgorithm indicates an unsupported hash algorithm name.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)
