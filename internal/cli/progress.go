package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/mvp-joe/pybridge/internal/pipeline"
	"github.com/schollz/progressbar/v3"
)

// generateProgress reports progress over generate targets. Everything goes
// to out (stderr), since stdout may carry generated text.
type generateProgress struct {
	quiet     bool
	out       io.Writer
	bar       *progressbar.ProgressBar
	startTime time.Time
	written   int
	unchanged int
}

func newGenerateProgress(quiet bool, out io.Writer) *generateProgress {
	return &generateProgress{
		quiet:     quiet,
		out:       out,
		startTime: time.Now(),
	}
}

func (g *generateProgress) OnStart(totalTargets int) {
	g.startTime = time.Now()
	g.written, g.unchanged = 0, 0
	if g.quiet || totalTargets < 2 {
		return
	}

	g.bar = progressbar.NewOptions(totalTargets,
		progressbar.OptionSetWriter(g.out),
		progressbar.OptionSetDescription("Generating"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(g.out)
		}),
	)
}

func (g *generateProgress) OnTarget(name string, result *pipeline.TargetResult) {
	for _, r := range []*pipeline.Result{result.Interfaces, result.Bridge} {
		if r == nil || r.Dest == "" {
			continue
		}
		if r.Written {
			g.written++
		} else {
			g.unchanged++
		}
	}
	if g.bar != nil {
		g.bar.Describe(name)
		g.bar.Add(1)
	}
}

func (g *generateProgress) OnComplete() {
	if g.bar != nil {
		g.bar.Finish()
		g.bar = nil
	}
	if g.quiet {
		return
	}
	fmt.Fprintf(g.out, "✓ Generated in %.2fs: %d written, %d unchanged\n",
		time.Since(g.startTime).Seconds(), g.written, g.unchanged)
}
