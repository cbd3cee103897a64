// Package phash computes perceptual fingerprints of video frames.
package phash

//go:generate mockgen -destination=mocks/mock_hasher.go -package=mocks . PerceptualHasher

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

// Fingerprint is the 64-bit perceptual hash of a single frame.
type Fingerprint uint64

// String formats the fingerprint as 16 hex digits.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Bits is the width of a Fingerprint.
const Bits = 64

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b Fingerprint) int {
	return bits.OnesCount64(uint64(a) ^ uint64(b))
}

// PerceptualHasher turns a frame into a fingerprint.
// Implementations must be deterministic in the pixel content of img.
type PerceptualHasher interface {
	Hash(img image.Image) (Fingerprint, error)
	Algorithm() Algorithm
}

// Algorithm names a hash function.
type Algorithm string

const (
	AlgorithmPHash Algorithm = "phash"
	AlgorithmDHash Algorithm = "dhash"
	AlgorithmAHash Algorithm = "ahash"
)

// DefaultAlgorithm is the hash used when none is configured.
const DefaultAlgorithm = AlgorithmPHash

// normalizeSide is the square size every frame is resampled to before
// hashing, so the hash input does not depend on the decoder's frame size.
// Frames from the ffmpeg sampler (64x64 by default) are enlarged to it.
// goimagehash then resizes again for its own DCT or gradient grid.
const normalizeSide = 128

// ParseAlgorithm validates an algorithm name. Empty selects the default.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "":
		return DefaultAlgorithm, nil
	case AlgorithmPHash, AlgorithmDHash, AlgorithmAHash:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Hasher implements PerceptualHasher on top of goimagehash.
type Hasher struct {
	algo Algorithm
}

// New creates a hasher for the given algorithm.
func New(algo Algorithm) (*Hasher, error) {
	a, err := ParseAlgorithm(string(algo))
	if err != nil {
		return nil, err
	}
	return &Hasher{algo: a}, nil
}

// Algorithm returns the configured algorithm.
func (h *Hasher) Algorithm() Algorithm { return h.algo }

// Hash computes the fingerprint of img.
func (h *Hasher) Hash(img image.Image) (Fingerprint, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, ErrEmptyImage
	}
	norm := imaging.Resize(img, normalizeSide, normalizeSide, imaging.Box)

	var (
		ih  *goimagehash.ImageHash
		err error
	)
	switch h.algo {
	case AlgorithmDHash:
		ih, err = goimagehash.DifferenceHash(norm)
	case AlgorithmAHash:
		ih, err = goimagehash.AverageHash(norm)
	default:
		ih, err = goimagehash.PerceptionHash(norm)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", h.algo, err)
	}
	return Fingerprint(ih.GetHash()), nil
}
