package main

import (
	"github.com/vmunix/vidupe/internal/action"
	"github.com/vmunix/vidupe/internal/dedupe"
)

// scanResult is the --json document for a scan.
type scanResult struct {
	Folder        string          `json:"folder"`
	RunID         string          `json:"run_id"`
	Policy        string          `json:"policy"`
	DryRun        bool            `json:"dry_run"`
	Files         int             `json:"files"`
	CacheHits     int             `json:"cache_hits"`
	PairsCompared int             `json:"pairs_compared"`
	ElapsedMS     int64           `json:"elapsed_ms"`
	Failures      []failureJSON   `json:"failures"`
	Duplicates    []duplicateJSON `json:"duplicates"`
	Actions       []actionJSON    `json:"actions"`
	Summary       summaryJSON     `json:"summary"`
}

type failureJSON struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type duplicateJSON struct {
	First    string  `json:"first"`
	Second   string  `json:"second"`
	Distance float64 `json:"distance"`
}

type actionJSON struct {
	Action   string `json:"action"`
	Decision string `json:"decision,omitempty"`
	Path     string `json:"path,omitempty"`
	Kept     string `json:"kept,omitempty"`
	Dest     string `json:"dest,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
}

type summaryJSON struct {
	Deleted int  `json:"deleted"`
	Moved   int  `json:"moved"`
	Kept    int  `json:"kept"`
	Skipped int  `json:"skipped"`
	Failed  int  `json:"failed"`
	Quit    bool `json:"quit"`
}

func newScanResult(r *dedupe.Report, s *action.Summary, policy action.Policy, dryRun bool, runID string) scanResult {
	res := scanResult{
		Folder:        r.Folder,
		RunID:         runID,
		Policy:        string(policy),
		DryRun:        dryRun,
		Files:         r.Files,
		CacheHits:     r.CacheHits,
		PairsCompared: r.PairsCompared,
		ElapsedMS:     r.Elapsed.Milliseconds(),
		Failures:      []failureJSON{},
		Duplicates:    []duplicateJSON{},
		Actions:       []actionJSON{},
		Summary: summaryJSON{
			Deleted: s.Deleted,
			Moved:   s.Moved,
			Kept:    s.Kept,
			Skipped: s.Skipped,
			Failed:  s.Failed,
			Quit:    s.Quit,
		},
	}
	for _, f := range r.Failures {
		res.Failures = append(res.Failures, failureJSON{Path: f.Path, Error: f.Err.Error()})
	}
	for _, c := range r.Candidates {
		res.Duplicates = append(res.Duplicates, duplicateJSON{First: c.First.Path, Second: c.Second.Path, Distance: c.Distance})
	}
	for _, o := range s.Outcomes {
		a := actionJSON{
			Action: o.Action,
			Path:   o.Path,
			Kept:   o.Kept,
			Dest:   o.Dest,
			Reason: o.Reason,
		}
		if o.Decision != 0 {
			a.Decision = o.Decision.String()
		}
		if o.Err != nil {
			a.Error = o.Err.Error()
		}
		res.Actions = append(res.Actions, a)
	}
	return res
}
