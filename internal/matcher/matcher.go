// Package matcher finds duplicate pairs among fingerprinted videos.
//
// Sequences are compared position by position over their common prefix and
// the per-frame Hamming distances are averaged. A copy with its end trimmed
// still lines up with the original; a copy trimmed at the front or in the
// middle is shifted, every later position is misaligned, and the pair is
// missed. Comparison is all-pairs.
package matcher

import (
	"math"

	"github.com/vmunix/vidupe/internal/phash"
	"github.com/vmunix/vidupe/internal/video"
)

// DefaultThreshold is the largest mean distance still flagged as a duplicate.
const DefaultThreshold = 5.0

// Distance returns the mean per-position Hamming distance of a and b over
// their common prefix. It is +Inf when either sequence is empty.
func Distance(a, b []phash.Fingerprint) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return math.Inf(1)
	}
	total := 0
	for i := 0; i < n; i++ {
		total += phash.Distance(a[i], b[i])
	}
	return float64(total) / float64(n)
}

// Pairs returns the number of unordered pairs among n records.
func Pairs(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Matcher compares every pair of records against Threshold.
type Matcher struct {
	Threshold float64
	// Progress, if set, is called after each comparison.
	Progress func(done, total int)
}

// Match returns every pair (records[i], records[j]), i < j, whose Distance is
// at most the threshold. Pairs are reported independently, without grouping,
// in the order the records were given.
func (m Matcher) Match(records []*video.Record) []video.Candidate {
	total := Pairs(len(records))
	done := 0
	var out []video.Candidate
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			a, b := records[i], records[j]
			d := Distance(a.Fingerprints, b.Fingerprints)
			if d <= m.Threshold {
				out = append(out, video.Candidate{First: a, Second: b, Distance: d})
			}
			done++
			if m.Progress != nil {
				m.Progress(done, total)
			}
		}
	}
	return out
}

// Match is shorthand for Matcher{Threshold: threshold}.Match(records).
func Match(records []*video.Record, threshold float64) []video.Candidate {
	return Matcher{Threshold: threshold}.Match(records)
}
