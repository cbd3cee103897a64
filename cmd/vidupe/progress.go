package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progress renders scan progress as two bars on stderr: fingerprinting,
// then pair comparison.
type progress struct {
	w       io.Writer
	visible bool
	files   *progressbar.ProgressBar
	pairs   *progressbar.ProgressBar
}

func newProgress(w io.Writer, visible bool) *progress {
	return &progress{w: w, visible: visible}
}

func (p *progress) bar(total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetVisibility(p.visible),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progress) OnDiscovered(total int) {
	p.files = p.bar(total, "Fingerprinting")
}

func (p *progress) OnFileDone(done, _ int, _ string, _ bool, _ error) {
	_ = p.files.Set(done)
}

func (p *progress) OnCompare(done, total int) {
	if p.pairs == nil {
		if p.files != nil {
			_ = p.files.Finish()
		}
		p.pairs = p.bar(total, "Comparing")
	}
	_ = p.pairs.Set(done)
}

// Finish completes any open bar.
func (p *progress) Finish() {
	for _, b := range []*progressbar.ProgressBar{p.files, p.pairs} {
		if b != nil {
			_ = b.Finish()
		}
	}
}
