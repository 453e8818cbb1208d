package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jts/internal/cli"
	"jts/internal/discovery"
	"jts/internal/domain"
	"jts/internal/execution"
	"jts/internal/harness"
	"jts/internal/history"
	"jts/internal/storage"
	"jts/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	env       *Env
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(env *Env, st storage.Storage, formatter *ui.Formatter, viewer ui.Viewer) *RunCommand {
	return &RunCommand{
		env:       env,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.env.Config
	logger := rc.env.Logger

	if err := cfg.Validate(); err != nil {
		return err
	}
	policy, err := cfg.GetCrashPolicy()
	if err != nil {
		return err
	}

	runner := execution.NewRunner(cfg, logger)
	if err := runner.Check(); err != nil {
		return err
	}

	opts := harness.Options{NameFilter: cfg.Flags.NameFilter}
	if cfg.Flags.OnlyFailed {
		last, err := rc.storage.Load()
		if err != nil {
			return fmt.Errorf("no previous run to take failures from: %w", err)
		}
		opts.OnlyPaths = storage.FailedPaths(last)
		if len(opts.OnlyPaths) == 0 {
			color.Green("✓ No unresolved failures in the last run")
			return nil
		}
	}

	pool := execution.NewWorkerPool(runner, cfg.Processors, policy, logger)
	pool.SetFailFast(cfg.Flags.FailFast)
	h := harness.New(
		discovery.NewScanner(cfg.Sort),
		discovery.NewFilter(),
		pool,
		storage.NewDumpWriter(cfg, logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	listener := &consoleListener{
		formatter: rc.formatter,
		progress:  cfg.Flags.Progress,
		runID:     runID,
		subject:   runner.Subject(),
		logger:    logger,
	}
	if cfg.HistoryDSN != "" {
		store, err := history.Open(ctx, cfg.HistoryDSN)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		listener.history = store
		// interrupted directories are still recorded
		listener.historyCtx = context.WithoutCancel(ctx)
	}

	logger.Debug("run started",
		zap.String("run_id", runID),
		zap.String("subject", runner.Subject()),
		zap.Strings("dirs", cfg.GetDirs()),
		zap.Int("processors", cfg.Processors),
		zap.Duration("timeout", cfg.Timeout))

	result := h.Run(ctx, cfg.GetDirs(), opts, listener)
	for _, dir := range result.Skipped {
		logger.Warn("corpus directory skipped", zap.String("dir", dir))
	}
	totals := result.Totals()
	logger.Debug("run finished",
		zap.String("run_id", runID),
		zap.Int("total", totals.Total),
		zap.Int("not_passed", totals.NotPassed),
		zap.Int("errored", totals.Errored),
		zap.Bool("interrupted", result.Interrupted),
		zap.Duration("duration", result.Duration))

	reports := make([]domain.DirectoryReport, 0, len(result.Directories))
	var details []domain.TestFailure
	for _, d := range result.Directories {
		reports = append(reports, d.Report())
		details = append(details, d.Details...)
	}
	meta := domain.TestResultsMeta{
		RunID:       runID,
		Subject:     runner.Subject(),
		Workers:     cfg.Processors,
		CrashPolicy: string(policy),
	}
	if err := rc.storage.Save(meta, reports, details, result.Duration); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	output, err := rc.storage.Load()
	if err != nil {
		return err
	}
	rc.formatter.PrintMetaStats(output)

	if cfg.Flags.OpenFailures && !result.Interrupted && len(output.Details) > 0 {
		if err := rc.viewer.View(output); err != nil {
			return err
		}
	}

	if code := result.ExitCode(cfg.Strict); code != 0 {
		return &cli.ExitError{Code: code}
	}
	return nil
}

// consoleListener prints per-directory progress and records history
type consoleListener struct {
	formatter *ui.Formatter
	progress  bool
	bar       *ui.ProgressBar

	runID      string
	subject    string
	history    *history.Store
	historyCtx context.Context
	logger     *zap.Logger
}

func (l *consoleListener) DirectoryStarted(dir string, cases []domain.TestCase) []execution.Observer {
	l.formatter.PrintDirectoryHeader(dir, len(cases))
	if !l.progress {
		return []execution.Observer{l.formatter}
	}
	l.bar = ui.NewProgressBar(len(cases), dir)
	return []execution.Observer{l.bar}
}

func (l *consoleListener) DirectoryFinished(r harness.DirectoryResult) {
	if l.bar != nil {
		l.bar.Finish()
		l.bar = nil
	}
	if r.Unavailable() {
		l.formatter.PrintDirectoryError(r.Dir, r.Err)
		return
	}

	l.formatter.PrintSummary(r.Summary)
	if r.Err != nil {
		l.formatter.PrintDirectoryError(r.Dir, r.Err)
	} else if r.DumpFile != "" {
		l.formatter.PrintDumpPath(r.DumpFile, len(r.Summary.Failures))
	}

	if l.history == nil {
		return
	}
	if err := l.history.Record(l.historyCtx, l.runID, l.subject, r.DumpFile, r.Summary); err != nil {
		l.logger.Warn("failed to record run history", zap.String("dir", r.Dir), zap.Error(err))
	}
}
