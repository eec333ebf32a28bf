package ui

import (
	"fmt"
	"io"

	"github.com/nconklindev/labpivot/internal/pipeline"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter draws one progress bar per pipeline phase.
type ProgressReporter struct {
	output io.Writer
	phase  pipeline.Phase
	bar    *progressbar.ProgressBar
}

// NewProgressReporter writes bars to output.
func NewProgressReporter(output io.Writer) *ProgressReporter {
	return &ProgressReporter{output: output}
}

func (p *ProgressReporter) Start(phase pipeline.Phase) {
	p.phase = phase
	p.bar = nil
}

// Progress creates the bar on first use so phases without rows draw nothing.
func (p *ProgressReporter) Progress(done, total int) {
	if total <= 0 {
		return
	}
	if p.bar == nil {
		p.bar = newBar(p.phase, total, p.output)
	}
	p.bar.Set(done)
}

func (p *ProgressReporter) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

func newBar(phase pipeline.Phase, total int, output io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(0),
	)
}
