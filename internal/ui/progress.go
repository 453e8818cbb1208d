package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"jts/internal/domain"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	label   string
	done    int
	passed  int
	failed  int
	errored int
}

// NewProgressBar creates a new progress bar
func NewProgressBar(count int, label string) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(label, 0, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar, label: label}
}

// Observe advances the bar and refreshes the counts
func (p *ProgressBar) Observe(result domain.TestResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	switch {
	case result.Verdict == domain.Errored:
		p.errored++
	case result.Verdict.CountsAsPass():
		p.passed++
	default:
		p.failed++
	}
	p.bar.Set(p.done)
	p.bar.Describe(describe(p.label, p.passed, p.failed, p.errored))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar.Finish()
}

func describe(label string, passed, failed, errored int) string {
	if label == "" {
		label = "Running corpus"
	}
	d := color.CyanString("%s: ", label) +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("not passed: %d", failed)
	if errored > 0 {
		d += " | " + color.MagentaString("errored: %d", errored)
	}
	return d + color.RedString("]")
}
