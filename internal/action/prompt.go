package action

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hbollon/go-edlib"

	"github.com/vmunix/vidupe/internal/sampler"
	"github.com/vmunix/vidupe/internal/video"
)

// ConsolePrompter asks for a decision on a text terminal.
type ConsolePrompter struct {
	in     *bufio.Reader
	out    io.Writer
	prober sampler.Prober // optional, for durations
}

// NewConsolePrompter reads answers from in and writes prompts to out.
func NewConsolePrompter(in io.Reader, out io.Writer, prober sampler.Prober) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out, prober: prober}
}

// Decide prints both files and reads a choice until a valid one is given.
// End of input is treated as quit.
func (p *ConsolePrompter) Decide(ctx context.Context, c video.Candidate, canMove bool) (Decision, error) {
	p.describe(ctx, c)

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintln(p.out, "  [1] keep first, delete second")
		fmt.Fprintln(p.out, "  [2] keep second, delete first")
		fmt.Fprintln(p.out, "  [3] keep both")
		if canMove {
			fmt.Fprintln(p.out, "  [4] move second to the move folder")
		}
		fmt.Fprintln(p.out, "  [q] quit")
		fmt.Fprint(p.out, "Choice: ")

		line, err := p.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if err != nil && answer == "" {
			if err == io.EOF {
				fmt.Fprintln(p.out)
				return DecisionQuit, nil
			}
			return 0, fmt.Errorf("read choice: %w", err)
		}

		switch answer {
		case "1":
			return DecisionKeepFirst, nil
		case "2":
			return DecisionKeepSecond, nil
		case "3":
			return DecisionKeepBoth, nil
		case "4":
			if canMove {
				return DecisionMoveSecond, nil
			}
		case "q", "quit":
			return DecisionQuit, nil
		}
		fmt.Fprintf(p.out, "Invalid choice %q.\n", answer)
	}
}

func (p *ConsolePrompter) describe(ctx context.Context, c video.Candidate) {
	fmt.Fprintf(p.out, "\nPossible duplicate (distance %.2f):\n", c.Distance)
	p.describeFile(ctx, "1", c.First)
	p.describeFile(ctx, "2", c.Second)

	sim := edlib.JaroWinklerSimilarity(strings.ToLower(c.First.Name()), strings.ToLower(c.Second.Name()))
	fmt.Fprintf(p.out, "  name similarity: %.0f%%\n", sim*100)
}

func (p *ConsolePrompter) describeFile(ctx context.Context, label string, r *video.Record) {
	fmt.Fprintf(p.out, "  %s: %s\n", label, r.Path)
	details := []string{"size " + humanize.Bytes(uint64(max(r.Size, 0)))}
	if p.prober != nil {
		if info, err := p.prober.Probe(ctx, r.Path); err == nil {
			if info.Duration > 0 {
				details = append(details, "duration "+formatDuration(info.Duration))
			}
			if info.Width > 0 && info.Height > 0 {
				details = append(details, fmt.Sprintf("%dx%d", info.Width, info.Height))
			}
		}
	}
	details = append(details, "modified "+humanize.Time(r.ModTime))
	fmt.Fprintf(p.out, "     %s (%s)\n", strings.Join(details, ", "), filepath.Dir(r.Path))
}

// formatDuration renders d as "1h 2m 3s", dropping leading zero units.
func formatDuration(d time.Duration) string {
	total := int64(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
