// Package action resolves duplicate pairs by deleting or relocating the
// file that is not kept.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vmunix/vidupe/internal/fingerprint"
	"github.com/vmunix/vidupe/internal/video"
)

// Policy selects how pairs are resolved.
type Policy string

const (
	// PolicyInteractive asks the Prompter for every pair.
	PolicyInteractive Policy = "interactive"
	// PolicyBatch keeps the first-discovered file and deletes the other.
	PolicyBatch Policy = "batch"
	// PolicyMove keeps the first-discovered file and moves the other to MoveDir.
	PolicyMove Policy = "move"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyInteractive, PolicyBatch, PolicyMove:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Decision is the resolution chosen for one pair.
type Decision int

const (
	DecisionKeepFirst  Decision = iota + 1 // delete Second
	DecisionKeepSecond                     // delete First
	DecisionKeepBoth
	DecisionMoveSecond
	DecisionQuit
)

func (d Decision) String() string {
	switch d {
	case DecisionKeepFirst:
		return "keep-first"
	case DecisionKeepSecond:
		return "keep-second"
	case DecisionKeepBoth:
		return "keep-both"
	case DecisionMoveSecond:
		return "move-second"
	case DecisionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Prompter asks the user how to resolve a pair. canMove reports whether a
// move folder is configured.
type Prompter interface {
	Decide(ctx context.Context, c video.Candidate, canMove bool) (Decision, error)
}

// Cache is the part of the fingerprint cache that follows file actions.
type Cache interface {
	Delete(ctx context.Context, path string) error
	Rename(ctx context.Context, oldPath, newPath string) error
}

// Recorder persists resolved pairs.
type Recorder interface {
	Add(ctx context.Context, h *HistoryEntry) error
}

// Config for the executor.
type Config struct {
	Policy  Policy
	MoveDir string
	DryRun  bool
	RunID   string
}

// Deps are the executor's collaborators. Cache and History are optional.
type Deps struct {
	Prompter Prompter
	Cache    Cache
	History  Recorder
}

// Outcome describes what happened to one pair.
type Outcome struct {
	Candidate video.Candidate
	Decision  Decision
	Action    string // one of the History actions, or "skipped"
	Path      string // file acted on
	Kept      string
	Dest      string
	Reason    string // why a pair was skipped
	Err       error  // *ActionError when the delete or move failed
}

// ActionSkipped marks pairs that were not acted on.
const ActionSkipped = "skipped"

// Summary totals a batch of outcomes.
type Summary struct {
	Outcomes []Outcome
	Deleted  int
	Moved    int
	Kept     int
	Skipped  int
	Failed   int
	Quit     bool
}

// Executor applies a policy to duplicate pairs. It never acts twice on the
// same file. Not safe for concurrent use.
type Executor struct {
	cfg      Config
	deps     Deps
	log      *slog.Logger
	touched  map[string]bool
	dirReady bool
	now      func() time.Time
}

// New creates an executor.
func New(cfg Config, deps Deps, log *slog.Logger) (*Executor, error) {
	if _, err := ParsePolicy(string(cfg.Policy)); err != nil {
		return nil, err
	}
	if cfg.Policy == PolicyMove && cfg.MoveDir == "" {
		return nil, ErrNoMoveDir
	}
	if cfg.Policy == PolicyInteractive && deps.Prompter == nil {
		return nil, ErrNoPrompter
	}
	if cfg.MoveDir != "" {
		abs, err := filepath.Abs(cfg.MoveDir)
		if err != nil {
			return nil, fmt.Errorf("resolve move folder: %w", err)
		}
		cfg.MoveDir = abs
	}
	if cfg.RunID == "" {
		cfg.RunID = NewRunID()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		cfg:     cfg,
		deps:    deps,
		log:     log,
		touched: make(map[string]bool),
		now:     time.Now,
	}, nil
}

// RunID returns the identifier recorded with every history entry.
func (e *Executor) RunID() string { return e.cfg.RunID }

// ResolveAll resolves pairs in order until done or the user quits.
// Per-pair failures are collected in the summary; the returned error is
// only set for cancellation or a failing prompter.
func (e *Executor) ResolveAll(ctx context.Context, cands []video.Candidate) (*Summary, error) {
	s := &Summary{}
	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		out, err := e.Resolve(ctx, c)
		if err != nil {
			return s, err
		}
		if out.Decision == DecisionQuit {
			s.Quit = true
			break
		}
		s.Outcomes = append(s.Outcomes, out)
		switch {
		case out.Err != nil:
			s.Failed++
		case out.Action == ActionDeleted:
			s.Deleted++
		case out.Action == ActionMoved:
			s.Moved++
		case out.Action == ActionKept:
			s.Kept++
		default:
			s.Skipped++
		}
	}
	return s, nil
}

// Resolve decides and applies the action for one pair.
func (e *Executor) Resolve(ctx context.Context, c video.Candidate) (Outcome, error) {
	out := Outcome{Candidate: c}

	if reason := e.unavailable(c); reason != "" {
		out.Action = ActionSkipped
		out.Reason = reason
		e.log.Debug("pair skipped", "first", c.First.Path, "second", c.Second.Path, "reason", reason)
		return out, nil
	}

	d, err := e.decide(ctx, c)
	if err != nil {
		return out, err
	}
	out.Decision = d

	switch d {
	case DecisionQuit:
		return out, nil
	case DecisionKeepBoth:
		out.Action = ActionKept
		out.Path = c.Second.Path
		out.Kept = c.First.Path
	case DecisionKeepFirst:
		e.delete(ctx, &out, c.Second.Path, c.First.Path)
	case DecisionKeepSecond:
		e.delete(ctx, &out, c.First.Path, c.Second.Path)
	case DecisionMoveSecond:
		e.move(ctx, &out, c.Second.Path, c.First.Path)
	default:
		return out, fmt.Errorf("unsupported decision %d", d)
	}

	e.record(ctx, out)
	return out, nil
}

func (e *Executor) decide(ctx context.Context, c video.Candidate) (Decision, error) {
	switch e.cfg.Policy {
	case PolicyBatch:
		return DecisionKeepFirst, nil
	case PolicyMove:
		return DecisionMoveSecond, nil
	}
	d, err := e.deps.Prompter.Decide(ctx, c, e.cfg.MoveDir != "")
	if err != nil {
		return 0, fmt.Errorf("prompt: %w", err)
	}
	if d == DecisionMoveSecond && e.cfg.MoveDir == "" {
		return 0, ErrNoMoveDir
	}
	return d, nil
}

// unavailable returns a reason when either file of the pair was already
// acted on or is gone from disk.
func (e *Executor) unavailable(c video.Candidate) string {
	for _, p := range []string{c.First.Path, c.Second.Path} {
		if e.touched[p] {
			return "already handled: " + p
		}
		if !e.cfg.DryRun && !exists(p) {
			return "missing: " + p
		}
	}
	return ""
}

func (e *Executor) delete(ctx context.Context, out *Outcome, path, kept string) {
	out.Path = path
	out.Kept = kept
	out.Action = ActionDeleted

	if e.cfg.DryRun {
		e.touched[path] = true
		e.log.Info("dry run: would delete", "path", path, "kept", kept)
		return
	}
	if err := removeFunc(path); err != nil {
		out.Action = ActionFailed
		out.Err = &ActionError{Action: "delete", Path: path, Err: err}
		e.log.Error("delete failed", "path", path, "error", err)
		return
	}
	e.touched[path] = true
	e.log.Info("deleted duplicate", "path", path, "kept", kept)

	if e.deps.Cache != nil {
		if err := e.deps.Cache.Delete(ctx, path); err != nil {
			e.log.Warn("cache delete failed", "path", path, "error", err)
		}
	}
}

func (e *Executor) move(ctx context.Context, out *Outcome, path, kept string) {
	out.Path = path
	out.Kept = kept
	out.Action = ActionMoved

	if e.cfg.DryRun {
		e.touched[path] = true
		out.Dest = filepath.Join(e.cfg.MoveDir, filepath.Base(path))
		e.log.Info("dry run: would move", "path", path, "dest", out.Dest)
		return
	}
	if err := e.ensureMoveDir(); err != nil {
		out.Action = ActionFailed
		out.Err = &ActionError{Action: "move", Path: path, Err: err}
		e.log.Error("create move folder failed", "dir", e.cfg.MoveDir, "error", err)
		return
	}

	dest := uniqueDest(e.cfg.MoveDir, filepath.Base(path), e.now())
	if err := MoveFile(path, dest); err != nil {
		out.Action = ActionFailed
		out.Err = &ActionError{Action: "move", Path: path, Err: err}
		e.log.Error("move failed", "path", path, "dest", dest, "error", err)
		return
	}
	e.touched[path] = true
	out.Dest = dest
	e.log.Info("moved duplicate", "path", path, "dest", dest, "kept", kept)

	if e.deps.Cache != nil {
		err := e.deps.Cache.Rename(ctx, path, dest)
		if err != nil && !errors.Is(err, fingerprint.ErrNotFound) {
			e.log.Warn("cache rename failed", "path", path, "dest", dest, "error", err)
		}
	}
}

func (e *Executor) ensureMoveDir() error {
	if e.dirReady {
		return nil
	}
	if err := os.MkdirAll(e.cfg.MoveDir, 0755); err != nil {
		return err
	}
	e.dirReady = true
	return nil
}

func (e *Executor) record(ctx context.Context, out Outcome) {
	if e.deps.History == nil || e.cfg.DryRun {
		return
	}
	h := &HistoryEntry{
		RunID:    e.cfg.RunID,
		Action:   out.Action,
		Path:     out.Path,
		KeptPath: out.Kept,
		DestPath: out.Dest,
		Distance: out.Candidate.Distance,
	}
	if out.Err != nil {
		h.Error = out.Err.Error()
	}
	if err := e.deps.History.Add(ctx, h); err != nil {
		e.log.Warn("record history failed", "path", out.Path, "error", err)
	}
}
