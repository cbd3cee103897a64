package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/vidupe/internal/phash"
	"github.com/vmunix/vidupe/internal/video"
)

func fps(vals ...uint64) []phash.Fingerprint {
	out := make([]phash.Fingerprint, len(vals))
	for i, v := range vals {
		out[i] = phash.Fingerprint(v)
	}
	return out
}

func rec(path string, f []phash.Fingerprint) *video.Record {
	return &video.Record{Path: path, Fingerprints: f}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []phash.Fingerprint
		want float64
	}{
		{"identical", fps(1, 2, 3), fps(1, 2, 3), 0},
		{"mean of positions", fps(0b0, 0b0), fps(0b1, 0b111), 2},
		{"common prefix only", fps(0, 0), fps(0, 0, 0xffffffff), 0},
		{"empty", nil, fps(1), math.Inf(1)},
		{"both empty", nil, nil, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	seqs := [][]phash.Fingerprint{
		fps(0xdeadbeef, 0x12345678, 0),
		fps(0xdeadbeee, 0xffff),
		fps(0x0, 0x1, 0x2, 0x3),
		nil,
	}
	for i := range seqs {
		for j := range seqs {
			assert.Equal(t, Distance(seqs[i], seqs[j]), Distance(seqs[j], seqs[i]), "pair %d,%d", i, j)
		}
	}
}

func TestPairs(t *testing.T) {
	assert.Equal(t, 0, Pairs(0))
	assert.Equal(t, 0, Pairs(1))
	assert.Equal(t, 1, Pairs(2))
	assert.Equal(t, 45, Pairs(10))
}

func TestMatch_FindsPairsWithinThreshold(t *testing.T) {
	a := rec("a.mp4", fps(0x00, 0xff, 0xf0f0))
	b := rec("b.mp4", fps(0x01, 0xfe, 0xf0f0)) // reencoded copy of a
	c := rec("c.mp4", fps(^uint64(0), 0xff00ff00ff00ff00, 0x1234567812345678))

	got := Match([]*video.Record{a, b, c}, DefaultThreshold)

	require.Len(t, got, 1)
	assert.Same(t, a, got[0].First)
	assert.Same(t, b, got[0].Second)
	assert.InDelta(t, 2.0/3.0, got[0].Distance, 1e-9)
}

func TestMatch_ThresholdIsInclusive(t *testing.T) {
	a := rec("a.mp4", fps(0))
	b := rec("b.mp4", fps(0b11111)) // distance exactly 5

	assert.Len(t, Match([]*video.Record{a, b}, 5), 1)
	assert.Empty(t, Match([]*video.Record{a, b}, 4.99))
}

func TestMatch_NoTransitiveGrouping(t *testing.T) {
	a := rec("a.mp4", fps(0b000))
	b := rec("b.mp4", fps(0b011))
	c := rec("c.mp4", fps(0b111111))

	got := Match([]*video.Record{a, b, c}, 3)

	// a~b (2) and b~c (4 > 3 is out), a~c (6) out: only the direct pair.
	require.Len(t, got, 1)
	assert.Equal(t, "a.mp4", got[0].First.Path)
	assert.Equal(t, "b.mp4", got[0].Second.Path)

	got = Match([]*video.Record{a, b, c}, 4)
	require.Len(t, got, 2, "overlapping pairs are each reported")
	assert.Equal(t, "b.mp4", got[1].First.Path)
	assert.Equal(t, "c.mp4", got[1].Second.Path)
}

func TestMatch_EachPairOnce(t *testing.T) {
	same := fps(7, 7, 7)
	records := []*video.Record{rec("a", same), rec("b", same), rec("c", same), rec("d", same)}

	got := Match(records, 0)
	assert.Len(t, got, Pairs(len(records)))

	seen := map[[2]string]bool{}
	for _, c := range got {
		key := [2]string{c.First.Path, c.Second.Path}
		rev := [2]string{c.Second.Path, c.First.Path}
		assert.False(t, seen[key] || seen[rev], "pair %v reported twice", key)
		assert.NotEqual(t, c.First.Path, c.Second.Path)
		seen[key] = true
	}
}

func TestMatch_EmptySequencesNeverMatch(t *testing.T) {
	got := Match([]*video.Record{rec("a", nil), rec("b", nil)}, math.MaxFloat64)
	assert.Empty(t, got)
}

func TestMatch_TrimmedEndMatchesTrimmedFrontMisses(t *testing.T) {
	orig := make([]phash.Fingerprint, 20)
	for i := range orig {
		// Sparse distinct patterns; neighbours differ in many bits.
		orig[i] = phash.Fingerprint(uint64(0x9e3779b97f4a7c15) * uint64(i+1))
	}
	trimmedEnd := orig[:15]
	trimmedFront := orig[5:]

	a := rec("orig.mp4", orig)
	end := rec("end.mp4", trimmedEnd)
	front := rec("front.mp4", trimmedFront)

	assert.Zero(t, Distance(orig, trimmedEnd))
	assert.Greater(t, Distance(orig, trimmedFront), DefaultThreshold)

	got := Match([]*video.Record{a, end, front}, DefaultThreshold)
	require.Len(t, got, 1)
	assert.Equal(t, "end.mp4", got[0].Second.Path)
}

func TestMatcher_Progress(t *testing.T) {
	records := []*video.Record{rec("a", fps(1)), rec("b", fps(2)), rec("c", fps(3))}
	var calls []int
	m := Matcher{Threshold: 0, Progress: func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	}}
	m.Match(records)
	assert.Equal(t, []int{1, 2, 3}, calls)
}
