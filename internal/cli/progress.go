package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// ScoringProgress draws a progress bar while customers are evaluated. Its
// Update method matches engine.ProgressFunc.
type ScoringProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

// NewScoringProgress creates a progress bar writing to w. The bar is created
// on the first update, once the number of customers is known.
func NewScoringProgress(w io.Writer) *ScoringProgress {
	return &ScoringProgress{writer: w}
}

// Update moves the bar to done out of total.
func (p *ScoringProgress) Update(done, total int) {
	if p.bar == nil {
		p.bar = p.newBar(total)
	}
	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

func (p *ScoringProgress) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Evaluando clientes...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
