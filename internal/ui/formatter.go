package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"

	"jts/internal/discovery"
	"jts/internal/domain"
)

var (
	confirmColor    = color.New(color.FgGreen, color.Bold)
	contradictColor = color.New(color.FgRed, color.Bold)
	neutralColor    = color.New(color.FgYellow)
	erroredColor    = color.New(color.FgMagenta, color.Bold)
)

// Formatter formats and displays harness output
type Formatter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// Observe prints one line per classified case. Each line is written with a
// single call so concurrent workers never interleave within a line.
func (f *Formatter) Observe(result domain.TestResult) {
	line := FormatResult(result)
	f.mu.Lock()
	fmt.Fprintln(f.out, line)
	f.mu.Unlock()
}

// FormatResult renders a case as "<path>  expected: <class>  got: <outcome>"
func FormatResult(result domain.TestResult) string {
	got := result.Outcome.String()
	switch result.Verdict {
	case domain.Pass:
		got = confirmColor.Sprint(got)
	case domain.UnexpectedFailure:
		got = contradictColor.Sprint(got)
	case domain.Informational:
		got = neutralColor.Sprint(got)
	case domain.Errored:
		got = erroredColor.Sprint(got)
	}
	return fmt.Sprintf("%s  expected: %s  got: %s", result.Case.Path, result.Case.Expectation, got)
}

// PrintDirectoryHeader announces the directory about to be processed
func (f *Formatter) PrintDirectoryHeader(dir string, cases int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.out, color.CyanString("==> %s (%d files)", dir, cases))
}

// PrintDirectoryError reports a directory that could not be processed
func (f *Formatter) PrintDirectoryError(dir string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.out, color.RedString("✗ %s: %v", dir, err))
}

// PrintSummary prints the per-directory counters line
func (f *Formatter) PrintSummary(s domain.RunSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.out, FormatSummary(s))
}

// FormatSummary renders "Total: N  Passed: P  Not Passed: F" plus extras when non-zero
func FormatSummary(s domain.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d  Passed: %s  Not Passed: %s",
		s.Total,
		color.GreenString("%d", s.Passed),
		notPassedColor(s.NotPassed).Sprintf("%d", s.NotPassed))
	if s.Errored > 0 {
		fmt.Fprintf(&b, "  Errored: %s", erroredColor.Sprintf("%d", s.Errored))
	}
	if s.Crashed > 0 {
		fmt.Fprintf(&b, "  Crashed: %s", contradictColor.Sprintf("%d", s.Crashed))
	}
	if s.Interrupted {
		b.WriteString(color.YellowString("  (interrupted)"))
	}
	return b.String()
}

// PrintDumpPath tells the operator where the failure list went
func (f *Formatter) PrintDumpPath(path string, entries int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.out, "Unexpected failures (%d) written to %s\n", entries, path)
}

func notPassedColor(n int) *color.Color {
	if n == 0 {
		return color.New(color.FgGreen)
	}
	return color.New(color.FgRed)
}

// PrintMetaStats prints the statistics table for a finished run
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meta := output.Meta
	w := f.out

	// Print header
	fmt.Fprint(w, "\n")
	fmt.Fprintln(w, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(w, color.CyanString("║                 Conformance Run Statistics                    ║"))
	fmt.Fprintln(w, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))

	// Print table
	const sep = "├─────────────────────────────────┼─────────────────────────────┤"
	fmt.Fprintln(w, "┌─────────────────────────────────┬─────────────────────────────┐")
	row := func(label string, value string) {
		fmt.Fprintf(w, "│ %-31s │ %s │\n", label, value)
	}
	row("Directories", color.WhiteString("%-27d", len(output.Directories)))
	fmt.Fprintln(w, sep)
	row("Total Cases", color.WhiteString("%-27d", meta.TotalCases))
	fmt.Fprintln(w, sep)
	row("Passed Cases", color.GreenString("%-27d", meta.PassedCases))
	fmt.Fprintln(w, sep)
	row("Not Passed Cases", color.RedString("%-27d", meta.NotPassedCases))
	fmt.Fprintln(w, sep)
	row("Errored Cases", color.MagentaString("%-27d", meta.ErroredCases))
	fmt.Fprintln(w, sep)
	row("Duration", color.WhiteString("%-27s", fmt.Sprintf("%.2fs", meta.DurationSeconds)))
	fmt.Fprintln(w, sep)
	row("Workers", color.WhiteString("%-27d", meta.Workers))
	fmt.Fprintln(w, sep)
	row("Crash Policy", color.WhiteString("%-27s", meta.CrashPolicy))
	fmt.Fprintln(w, sep)
	row("Timestamp", color.WhiteString("%-27s", meta.Timestamp))
	fmt.Fprintln(w, "└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Fprintln(w)
	unavailable := 0
	for _, d := range output.Directories {
		if d.Error != "" {
			unavailable++
		}
	}
	switch {
	case unavailable > 0:
		fmt.Fprintln(w, color.RedString("✗ %d director(ies) could not be processed", unavailable))
	case meta.NotPassedCases == 0 && meta.ErroredCases == 0:
		fmt.Fprintln(w, color.GreenString("✓ All cases matched their expectation!"))
	default:
		fmt.Fprintln(w, color.RedString("✗ %d unexpected failure(s), %d errored case(s)", meta.NotPassedCases, meta.ErroredCases))
	}
	if meta.Interrupted {
		fmt.Fprintln(w, color.YellowString("! Run was interrupted; results are partial"))
	}
}

// PrintCaseList prints the cases of a directory grouped by expectation class
func (f *Formatter) PrintCaseList(dir string, cases []domain.TestCase, failedPaths map[string]struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.out

	counts := discovery.CountByExpectation(cases)
	fmt.Fprintln(w, color.GreenString("%s: %d file(s)", dir, len(cases)))

	groups := make(map[domain.Expectation][]domain.TestCase, 3)
	for _, c := range cases {
		groups[c.Expectation] = append(groups[c.Expectation], c)
	}
	order := []domain.Expectation{domain.MustAccept, domain.MustReject, domain.Either}
	for gi, exp := range order {
		lastGroup := gi == len(order)-1
		branch, indent := "├── ", "│   "
		if lastGroup {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintln(w, color.CyanString("%sexpected %s (%d)", branch, exp, counts[exp]))

		group := groups[exp]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		for ci, c := range group {
			leaf := "├── "
			if ci == len(group)-1 {
				leaf = "└── "
			}
			marker := ""
			if _, ok := failedPaths[c.Path]; ok {
				marker = " " + color.RedString("[F]")
			}
			fmt.Fprintf(w, "%s%s%s%s\n", indent, leaf, color.YellowString(c.Name), marker)
		}
	}
}
