package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/vidupe/internal/action"
	"github.com/vmunix/vidupe/internal/dedupe"
	"github.com/vmunix/vidupe/internal/fingerprint"
	"github.com/vmunix/vidupe/internal/matcher"
	"github.com/vmunix/vidupe/internal/phash"
	"github.com/vmunix/vidupe/internal/sampler"
	"github.com/vmunix/vidupe/internal/scan"
)

var scanOpts struct {
	threshold  float64
	skip       int
	workers    int
	batch      bool
	moveDir    string
	algorithm  string
	extensions []string
	exclude    []string
	dryRun     bool
	noProgress bool
}

func init() {
	f := rootCmd.Flags()
	f.Float64Var(&scanOpts.threshold, "threshold", matcher.DefaultThreshold, "Largest mean hash distance reported as a duplicate")
	f.IntVar(&scanOpts.skip, "skip", sampler.DefaultSkip, "Sample every Nth frame")
	f.IntVarP(&scanOpts.workers, "workers", "w", 1, "Files fingerprinted concurrently")
	f.BoolVar(&scanOpts.batch, "batch", false, "Keep the first file of each pair and delete the other without asking")
	f.StringVar(&scanOpts.moveDir, "move", "", "Keep the first file of each pair and move the other to this folder")
	f.StringVar(&scanOpts.algorithm, "algorithm", string(phash.DefaultAlgorithm), "Hash algorithm: phash, dhash, ahash")
	f.StringSliceVar(&scanOpts.extensions, "ext", nil, "Video extensions to scan (repeatable, default .mp4,.mov,.avi,.mkv,.webm,.flv,.m4v)")
	f.StringSliceVar(&scanOpts.exclude, "exclude", nil, "Directories to skip (repeatable)")
	f.BoolVarP(&scanOpts.dryRun, "dry-run", "n", false, "Report actions without deleting or moving files")
	f.BoolVar(&scanOpts.noProgress, "no-progress", false, "Hide progress bars")
}

// selectPolicy maps the action flags to a policy. --move wins over --batch.
func selectPolicy(cmd *cobra.Command) action.Policy {
	switch {
	case cmd.Flags().Changed("move"):
		return action.PolicyMove
	case scanOpts.batch:
		return action.PolicyBatch
	default:
		return action.PolicyInteractive
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log.Level, cmd.ErrOrStderr())

	folder := args[0]
	info, err := os.Stat(folder)
	if err != nil {
		return fmt.Errorf("folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("folder %s: %w", folder, scan.ErrNotDirectory)
	}

	algo, err := phash.ParseAlgorithm(cfg.Hash.Algorithm)
	if err != nil {
		return err
	}
	hasher, err := phash.New(algo)
	if err != nil {
		return err
	}

	smp := newSampler(cfg.FFmpeg, log.With("component", "sampler"))
	if err := smp.Available(); err != nil {
		return fmt.Errorf("video decoder not available: %w", err)
	}

	db, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	store := fingerprint.NewStore(db)

	policy := selectPolicy(cmd)
	promptOut := cmd.OutOrStdout()
	if jsonOutput {
		promptOut = cmd.ErrOrStderr()
	}
	executor, err := action.New(action.Config{
		Policy:  policy,
		MoveDir: cfg.Actions.MoveDir,
		DryRun:  cfg.Actions.DryRun,
	}, action.Deps{
		Prompter: action.NewConsolePrompter(cmd.InOrStdin(), promptOut, smp),
		Cache:    store,
		History:  action.NewHistoryStore(db),
	}, log.With("component", "action"))
	if err != nil {
		return err
	}

	// Scan excludes resolve against the folder, the move folder against the
	// working directory.
	exclude := append([]string(nil), cfg.Scan.Exclude...)
	if cfg.Actions.MoveDir != "" {
		moveDir, err := filepath.Abs(cfg.Actions.MoveDir)
		if err != nil {
			return fmt.Errorf("move folder: %w", err)
		}
		exclude = append(exclude, moveDir)
	}
	progress := newProgress(cmd.ErrOrStderr(), !jsonOutput && !scanOpts.noProgress)
	scanner, err := dedupe.New(dedupe.Deps{
		Source:   smp,
		Hasher:   hasher,
		Cache:    store,
		Logger:   log,
		Observer: progress,
	}, dedupe.Options{
		Skip:       cfg.Scan.Skip,
		Threshold:  cfg.Scan.Threshold,
		Workers:    cfg.Scan.Workers,
		Extensions: cfg.Scan.Extensions,
		Exclude:    exclude,
	})
	if err != nil {
		return err
	}

	report, err := scanner.Run(ctx, folder)
	progress.Finish()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	out := cmd.OutOrStdout()
	if !jsonOutput {
		printReport(out, report)
	}

	summary := &action.Summary{}
	if len(report.Candidates) > 0 {
		summary, err = executor.ResolveAll(ctx, report.Candidates)
	}

	if jsonOutput {
		if jerr := printJSON(out, newScanResult(report, summary, policy, cfg.Actions.DryRun, executor.RunID())); jerr != nil && err == nil {
			err = jerr
		}
	} else {
		printSummary(out, summary, policy, cfg.Actions.DryRun)
	}
	return err
}

func printReport(w io.Writer, r *dedupe.Report) {
	fmt.Fprintf(w, "Scanned %d files in %s (%d cached, %d failed), %d pairs compared\n",
		r.Files, r.Elapsed.Round(time.Millisecond), r.CacheHits, len(r.Failures), r.PairsCompared)

	if len(r.Failures) > 0 {
		fmt.Fprintln(w, "\nUnreadable files:")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s: %v\n", f.Path, f.Err)
		}
	}

	if len(r.Candidates) == 0 {
		fmt.Fprintln(w, "No duplicates found")
		return
	}
	fmt.Fprintf(w, "\nDuplicates (%d):\n", len(r.Candidates))
	for _, c := range r.Candidates {
		fmt.Fprintf(w, "  %6.2f  %s\n          %s\n", c.Distance, c.First.Path, c.Second.Path)
	}
}

func printSummary(w io.Writer, s *action.Summary, policy action.Policy, dryRun bool) {
	if len(s.Outcomes) == 0 && !s.Quit {
		return
	}
	fmt.Fprintln(w)
	prefix := ""
	if dryRun {
		prefix = "would be "
	}
	for _, o := range s.Outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintf(w, "  FAILED   %v\n", o.Err)
		case o.Action == action.ActionDeleted:
			fmt.Fprintf(w, "  %sdeleted  %s\n", prefix, o.Path)
		case o.Action == action.ActionMoved:
			fmt.Fprintf(w, "  %smoved    %s -> %s\n", prefix, o.Path, o.Dest)
		case o.Action == action.ActionSkipped:
			fmt.Fprintf(w, "  skipped  %s (%s)\n", o.Candidate.Second.Path, o.Reason)
		}
	}
	fmt.Fprintf(w, "\n%s: %d deleted, %d moved, %d kept, %d skipped, %d failed\n",
		policy, s.Deleted, s.Moved, s.Kept, s.Skipped, s.Failed)
	if s.Quit {
		fmt.Fprintln(w, "Stopped before all pairs were reviewed")
	}
}
