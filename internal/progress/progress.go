// Package progress provides terminal progress reporting for multi-file
// operations: a simple counting bar for sequential backlogs and an mpb-based
// UI for concurrent batches.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter is the interface for reporting progress over a known number of
// items.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
}

// StderrReporter returns the reporter for sequential operations: a live bar
// when stderr is a terminal, a no-op otherwise. The same gate the batch UI
// applies.
func StderrReporter() Reporter {
	return reporterFor(term.IsTerminal(int(os.Stderr.Fd())))
}

func reporterFor(isTerminal bool) Reporter {
	if isTerminal {
		return NewBarReporter()
	}
	return NewNoOpReporter()
}

// BarReporter implements progress reporting with a terminal progress bar.
type BarReporter struct {
	bar *progressbar.ProgressBar
}

// NewBarReporter creates a new bar-based progress reporter.
func NewBarReporter() *BarReporter {
	return &BarReporter{}
}

// Start initializes the progress bar with the item count and description.
func (p *BarReporter) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update updates the progress bar to the current position.
func (p *BarReporter) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the progress bar.
func (p *BarReporter) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// NoOpReporter is a progress reporter that does nothing (for non-interactive
// or silent operations).
type NoOpReporter struct{}

// NewNoOpReporter creates a new no-op progress reporter.
func NewNoOpReporter() *NoOpReporter {
	return &NoOpReporter{}
}

// Start does nothing.
func (p *NoOpReporter) Start(total int64, description string) {}

// Update does nothing.
func (p *NoOpReporter) Update(current int64) {}

// Finish does nothing.
func (p *NoOpReporter) Finish() {}
