package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"jts/internal/domain"
	"jts/internal/storage"
)

// FailureViewer displays unexpected failures of the last run in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// View displays failures in an interactive TUI
func (fv *FailureViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No unexpected failures recorded!")
		return nil
	}

	screen := newFailureScreen(results, fv.storage)
	if err := screen.app.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// failureScreen is the widget tree of one viewer session
type failureScreen struct {
	app     *tview.Application
	header  *tview.TextView
	list    *tview.List
	stats   *tview.TextView
	details *tview.TextView

	results *domain.TestResultsOutput
	storage storage.Storage
	saveErr error
}

func newFailureScreen(results *domain.TestResultsOutput, st storage.Storage) *failureScreen {
	s := &failureScreen{
		app:     tview.NewApplication(),
		header:  tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true),
		list:    tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true),
		stats:   tview.NewTextView().SetDynamicColors(true).SetWrap(false).SetWordWrap(false),
		details: tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetWordWrap(true),
		results: results,
		storage: st,
	}

	for i, f := range results.Details {
		s.list.AddItem(listItemText(f, i), "", 0, nil)
	}
	s.list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	s.list.SetChangedFunc(func(int, string, string, rune) { s.showSelected() })
	s.list.SetInputCapture(s.onListKey)
	s.details.SetInputCapture(s.onDetailsKey)

	// List on the left third, selected failure on the right
	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.stats, 3, 0, false).
		AddItem(tview.NewFlex().
			AddItem(s.details, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)
	body := tview.NewFlex().
		AddItem(s.list, 0, 1, true).
		AddItem(right, 0, 2, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.header, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	s.showHeader()
	s.showSelected()
	s.app.SetRoot(root, true).SetFocus(s.list)
	return s
}

func (s *failureScreen) showHeader() {
	s.header.SetText(fmt.Sprintf(" Unexpected Failures (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, Ctrl+C exit ",
		len(s.results.Details), countUnresolved(s.results.Details)))
}

func (s *failureScreen) showSelected() {
	index := s.list.GetCurrentItem()
	if index < 0 || index >= len(s.results.Details) {
		return
	}
	failure := s.results.Details[index]
	s.stats.SetText(formatFailureStats(failure))
	text := formatFailureDetails(failure)
	if s.saveErr != nil {
		text += fmt.Sprintf("\n[red]Could not save resolved state: %v[white]\n", tview.Escape(s.saveErr.Error()))
	}
	s.details.SetText(text)
}

// toggleResolved flips the selected failure and writes the report back
func (s *failureScreen) toggleResolved() {
	index := s.list.GetCurrentItem()
	if index < 0 || index >= len(s.results.Details) {
		return
	}
	s.results.Details[index].Resolved = !s.results.Details[index].Resolved
	s.saveErr = s.storage.SaveOutput(s.results)
	s.list.SetItemText(index, listItemText(s.results.Details[index], index), "")
	s.showHeader()
	s.showSelected()
}

func (s *failureScreen) onListKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		s.app.SetFocus(s.details)
		return nil
	case tcell.KeyCtrlC:
		s.app.Stop()
		return nil
	case tcell.KeyRune:
		if r := event.Rune(); r == 'r' || r == 'R' {
			s.toggleResolved()
			return nil
		}
	}
	return event
}

func (s *failureScreen) onDetailsKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft, tcell.KeyEsc:
		s.app.SetFocus(s.list)
		return nil
	case tcell.KeyCtrlC:
		s.app.Stop()
		return nil
	}
	return event
}

func listItemText(failure domain.TestFailure, index int) string {
	name := tview.Escape(failure.FilePath)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

func countUnresolved(failures []domain.TestFailure) int {
	n := 0
	for _, f := range failures {
		if !f.Resolved {
			n++
		}
	}
	return n
}

// formatFailureDetails formats a failure using tview color tags
func formatFailureDetails(failure domain.TestFailure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ %s[white]\n\n", tview.Escape(failure.FilePath))
	fmt.Fprintf(w, "[cyan]Directory:\t%s[white]\n", failure.Dir)
	fmt.Fprintf(w, "[cyan]Expected:\t%s[white]\n", failure.Expectation)
	fmt.Fprintf(w, "[cyan]Got:\t%s[white]\n", failure.Outcome)
	fmt.Fprintf(w, "[cyan]Verdict:\t%s[white]\n", failure.Verdict)
	fmt.Fprintf(w, "[cyan]Exit code:\t%d[white]\n\n", failure.ExitCode)

	if failure.Stderr != "" {
		fmt.Fprintf(w, "[yellow]Subject stderr:[white]\n%s\n", tview.Escape(failure.Stderr))
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats formats the header line for a failure
func formatFailureStats(failure domain.TestFailure) string {
	state := "[red]unresolved[white]"
	if failure.Resolved {
		state = "[green]resolved[white]"
	}
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white] (%s)\n", tview.Escape(failure.FilePath), state)
}
