// Package video defines the records shared by the scan, cache, matcher and
// action layers.
package video

import (
	"path/filepath"
	"time"

	"github.com/vmunix/vidupe/internal/phash"
)

// Params are the sampling settings a fingerprint sequence was computed with.
// Sequences computed with different params are not comparable.
type Params struct {
	Skip      int
	Algorithm phash.Algorithm
}

// Record is a video file and its keyframe fingerprints in playback order.
// Fingerprints are valid only while the file's ModTime is unchanged.
type Record struct {
	Path         string
	ModTime      time.Time
	Size         int64
	Params       Params
	Fingerprints []phash.Fingerprint
	ProcessedAt  time.Time
}

// Name returns the base name of the file.
func (r *Record) Name() string { return filepath.Base(r.Path) }

// Candidate is a pair of records whose aggregate distance is within the
// threshold. First was discovered before Second.
type Candidate struct {
	First    *Record
	Second   *Record
	Distance float64
}
