package progress

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Reporter renders a phase on the terminal: a spinner while the total is
// unknown, then a bounded bar fed by the progress channel.
type Reporter struct {
	w           io.Writer
	interactive bool
	spinner     *progressbar.ProgressBar
}

// NewReporter writes to w. Bars are only drawn when w is a terminal.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w, interactive: IsTerminal(w)}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Interactive reports whether bars are drawn
func (r *Reporter) Interactive() bool { return r.interactive }

// StartSpinner shows an indeterminate spinner until the total arrives
func (r *Reporter) StartSpinner(description string) {
	if !r.interactive {
		return
	}
	r.spinner = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// Found counts one discovered item on the spinner. Safe for concurrent use.
func (r *Reporter) Found(name string) {
	if r.spinner == nil {
		return
	}
	r.spinner.Describe(name)
	_ = r.spinner.Add(1)
}

// Run consumes c until Done. onTotal runs after the spinner is cleared and
// before the bar is drawn.
func (r *Reporter) Run(ctx context.Context, c *Channels, onTotal func(total int)) (int, error) {
	var bar *progressbar.ProgressBar
	return Consume(ctx, c, func(ev Event) {
		switch ev.Kind {
		case EventStarted:
			if r.spinner != nil {
				_ = r.spinner.Finish()
				r.spinner = nil
			}
			if onTotal != nil {
				onTotal(ev.N)
			}
			if r.interactive {
				bar = r.newBar(ev.N)
			}
		case EventUnit:
			if bar != nil {
				_ = bar.Add(1)
			}
		case EventFinished:
			if bar != nil {
				_ = bar.Finish()
				_ = bar.Clear()
			} else if !r.interactive {
				fmt.Fprintf(r.w, "processed %d item(s)\n", ev.N)
			}
		}
	})
}

func (r *Reporter) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
