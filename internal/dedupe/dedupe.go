// Package dedupe runs a duplicate scan: discover files, fingerprint them
// through the cache, and match the results.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/vidupe/internal/matcher"
	"github.com/vmunix/vidupe/internal/phash"
	"github.com/vmunix/vidupe/internal/sampler"
	"github.com/vmunix/vidupe/internal/scan"
	"github.com/vmunix/vidupe/internal/video"
)

// Cache stores fingerprint sequences between runs.
type Cache interface {
	Lookup(ctx context.Context, path string, modTime time.Time, p video.Params) (*video.Record, bool, error)
	Save(ctx context.Context, r *video.Record) error
}

// Deps are the scanner's collaborators. Cache, Logger and Observer are
// optional.
type Deps struct {
	Source   sampler.FrameSource
	Hasher   phash.PerceptualHasher
	Cache    Cache
	Logger   *slog.Logger
	Observer Observer
}

// Options for a scan.
type Options struct {
	Skip       int
	Threshold  float64
	Workers    int // files hashed concurrently; 0 or 1 is sequential
	Extensions []string
	Exclude    []string
}

// Failure is a file that could not be fingerprinted.
type Failure struct {
	Path string
	Err  error
}

// Report is the result of a scan.
type Report struct {
	Folder        string
	Files         int
	Records       []*video.Record // discovery order
	Candidates    []video.Candidate
	Failures      []Failure
	PairsCompared int
	CacheHits     int
	Elapsed       time.Duration
}

// Scanner runs duplicate scans.
type Scanner struct {
	deps Deps
	opts Options
	log  *slog.Logger
	obs  Observer
}

// New creates a scanner with defaults applied to unset options.
func New(deps Deps, opts Options) (*Scanner, error) {
	if deps.Source == nil {
		return nil, ErrNoSource
	}
	if deps.Hasher == nil {
		return nil, ErrNoHasher
	}
	if opts.Skip == 0 {
		opts.Skip = sampler.DefaultSkip
	}
	if opts.Skip < 0 {
		return nil, sampler.ErrInvalidSkip
	}
	if opts.Threshold < 0 || math.IsNaN(opts.Threshold) {
		return nil, ErrInvalidThreshold
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	obs := deps.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	return &Scanner{
		deps: deps,
		opts: opts,
		log:  log.With("component", "dedupe"),
		obs:  obs,
	}, nil
}

// Run scans folder and returns the duplicate candidates. Files that cannot
// be read are listed in Report.Failures; only a bad folder or cancellation
// fail the run.
func (s *Scanner) Run(ctx context.Context, folder string) (*Report, error) {
	start := time.Now()
	files, err := scan.Videos(folder, scan.Options{Extensions: s.opts.Extensions, Exclude: s.opts.Exclude})
	if err != nil {
		return nil, err
	}
	s.log.Info("scan started", "folder", folder, "files", len(files), "skip", s.opts.Skip, "workers", s.opts.Workers)
	s.obs.OnDiscovered(len(files))

	report := &Report{Folder: folder, Files: len(files)}
	records := make([]*video.Record, len(files))

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, cached, err := s.fingerprint(gctx, f)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			if err != nil {
				s.log.Warn("skipping file", "path", f.Path, "error", err)
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				report.Failures = append(report.Failures, Failure{Path: f.Path, Err: err})
			} else {
				records[i] = rec
				if cached {
					report.CacheHits++
				}
			}
			// Under the lock so done reaches the observer in order.
			s.obs.OnFileDone(done, len(files), f.Path, cached, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range records {
		if r != nil {
			report.Records = append(report.Records, r)
		}
	}
	sortFailures(report.Failures, files)

	m := matcher.Matcher{Threshold: s.opts.Threshold, Progress: s.obs.OnCompare}
	report.Candidates = m.Match(report.Records)
	report.PairsCompared = matcher.Pairs(len(report.Records))
	report.Elapsed = time.Since(start)

	s.log.Info("scan finished",
		"files", report.Files,
		"fingerprinted", len(report.Records),
		"cache_hits", report.CacheHits,
		"failures", len(report.Failures),
		"pairs", report.PairsCompared,
		"duplicates", len(report.Candidates),
		"elapsed", report.Elapsed.Round(time.Millisecond),
	)
	return report, nil
}

// fingerprint returns the record for f, from the cache when it is current.
func (s *Scanner) fingerprint(ctx context.Context, f scan.File) (*video.Record, bool, error) {
	params := video.Params{Skip: s.opts.Skip, Algorithm: s.deps.Hasher.Algorithm()}

	if s.deps.Cache != nil {
		rec, ok, err := s.deps.Cache.Lookup(ctx, f.Path, f.ModTime, params)
		switch {
		case err != nil:
			s.log.Warn("cache lookup failed, recomputing", "path", f.Path, "error", err)
		case ok:
			s.log.Debug("cache hit", "path", f.Path, "frames", len(rec.Fingerprints))
			// The stored key is normalized; act on the name found on disk.
			rec.Path = f.Path
			rec.Size = f.Size
			return rec, true, nil
		}
	}

	fps, err := s.sample(ctx, f.Path)
	if err != nil {
		return nil, false, err
	}
	// A cancelled decode ends early; never persist a truncated sequence.
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	rec := &video.Record{
		Path:         f.Path,
		ModTime:      f.ModTime,
		Size:         f.Size,
		Params:       params,
		Fingerprints: fps,
	}
	s.log.Debug("fingerprinted", "path", f.Path, "frames", len(fps))

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Save(ctx, rec); err != nil {
			s.log.Warn("cache store failed", "path", f.Path, "error", err)
		}
	}
	return rec, false, nil
}

func (s *Scanner) sample(ctx context.Context, path string) (fps []phash.Fingerprint, err error) {
	frames, err := s.deps.Source.Open(ctx, path, s.opts.Skip)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := frames.Close(); cerr != nil {
			s.log.Debug("close decoder", "path", path, "error", cerr)
		}
	}()

	for i := 0; ; i++ {
		img, err := frames.Next()
		if errors.Is(err, io.EOF) {
			return fps, nil
		}
		if err != nil {
			return nil, err
		}
		fp, err := s.deps.Hasher.Hash(img)
		if err != nil {
			return nil, fmt.Errorf("hash frame %d of %s: %w", i, path, err)
		}
		fps = append(fps, fp)
	}
}

// sortFailures orders failures by discovery order so parallel runs report
// them deterministically.
func sortFailures(failures []Failure, files []scan.File) {
	if len(failures) < 2 {
		return
	}
	index := make(map[string]int, len(files))
	for i, f := range files {
		index[f.Path] = i
	}
	slices.SortFunc(failures, func(a, b Failure) int { return index[a.Path] - index[b.Path] })
}
