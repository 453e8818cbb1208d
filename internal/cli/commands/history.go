package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jts/internal/history"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	env *Env
	out io.Writer
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(env *Env) *HistoryCommand {
	return &HistoryCommand{env: env, out: os.Stdout}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := hc.env.Config
	if cfg.HistoryDSN == "" {
		return errors.New("no history database configured (use --history-dsn or history_dsn in jts.yaml)")
	}

	store, err := history.Open(cmd.Context(), cfg.HistoryDSN)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), cfg.Flags.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		color.Yellow("No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(hc.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tRUN\tDIR\tTOTAL\tPASSED\tNOT PASSED\tERRORED\tDURATION")
	for _, e := range entries {
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		dir := e.Dir
		if e.Interrupted {
			dir += " (interrupted)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			humanize.Time(e.FinishedAt),
			run,
			dir,
			humanize.Comma(int64(e.Total)),
			humanize.Comma(int64(e.Passed)),
			humanize.Comma(int64(e.NotPassed)),
			humanize.Comma(int64(e.Errored)),
			e.FinishedAt.Sub(e.StartedAt).Round(time.Millisecond),
		)
	}
	return w.Flush()
}
