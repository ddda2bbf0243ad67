package utils

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter defines methods for reporting progress.
type ProgressReporter interface {
	// SetTotal reinitializes the progress bar with the new total count.
	SetTotal(total int)
	// Increment increases the progress by one.
	Increment()
	// Finish completes the bar.
	Finish()
}

// BarProgressReporter is a concrete implementation using progressbar.
type BarProgressReporter struct {
	description string
	writer      io.Writer
	bar         *progressbar.ProgressBar
	total       int
}

// NewBarProgressReporter creates a new BarProgressReporter writing to stderr.
func NewBarProgressReporter(total int, description string) *BarProgressReporter {
	return NewBarProgressReporterWithWriter(total, description, os.Stderr)
}

func NewBarProgressReporterWithWriter(total int, description string, writer io.Writer) *BarProgressReporter {
	p := &BarProgressReporter{
		description: description,
		writer:      writer,
	}
	p.SetTotal(total)
	return p
}

// SetTotal reinitializes the progress bar with the new total count.
func (p *BarProgressReporter) SetTotal(total int) {
	p.total = total
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSetDescription(p.description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100e6),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// Increment increases the progress bar by one.
func (p *BarProgressReporter) Increment() {
	_ = p.bar.Add(1)
}

func (p *BarProgressReporter) Finish() {
	_ = p.bar.Finish()
}

// NoopProgressReporter ignores all progress.
type NoopProgressReporter struct{}

func (NoopProgressReporter) SetTotal(int) {}
func (NoopProgressReporter) Increment()   {}
func (NoopProgressReporter) Finish()      {}
