// Package harness drives the subject over corpus directories and returns the
// per-directory summaries as values. Persistence is optional and injected.
package harness

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"jts/internal/aggregate"
	"jts/internal/discovery"
	"jts/internal/domain"
	"jts/internal/execution"
)

// Dumper persists the unexpected-failure list of a directory
type Dumper interface {
	Write(paths []string) (string, error)
}

// Listener follows the progress of a run. DirectoryStarted may return extra
// observers that receive every result of that directory.
type Listener interface {
	DirectoryStarted(dir string, cases []domain.TestCase) []execution.Observer
	DirectoryFinished(result DirectoryResult)
}

// NopListener ignores all events
type NopListener struct{}

// DirectoryStarted implements Listener
func (NopListener) DirectoryStarted(string, []domain.TestCase) []execution.Observer { return nil }

// DirectoryFinished implements Listener
func (NopListener) DirectoryFinished(DirectoryResult) {}

// Options narrow the cases of a run
type Options struct {
	NameFilter string
	// OnlyPaths, when non-nil, restricts the run to these cleaned paths
	OnlyPaths map[string]struct{}
}

// DirectoryResult is the outcome of processing one corpus directory
type DirectoryResult struct {
	Dir      string
	Summary  domain.RunSummary
	Details  []domain.TestFailure
	DumpFile string
	// Err is a *domain.DirectoryUnavailableError when the directory could not
	// be listed, or a *domain.DumpWriteError when the dump failed.
	Err     error
	Stopped bool
}

// Unavailable reports whether the directory could not be enumerated
func (r DirectoryResult) Unavailable() bool {
	var unavailable *domain.DirectoryUnavailableError
	return errors.As(r.Err, &unavailable)
}

// Report converts the result into its persisted form
func (r DirectoryResult) Report() domain.DirectoryReport {
	rep := domain.DirectoryReport{
		Dir:             r.Dir,
		Total:           r.Summary.Total,
		Passed:          r.Summary.Passed,
		NotPassed:       r.Summary.NotPassed,
		Errored:         r.Summary.Errored,
		Crashed:         r.Summary.Crashed,
		DumpFile:        r.DumpFile,
		Interrupted:     r.Summary.Interrupted,
		DurationSeconds: r.Summary.Duration().Seconds(),
	}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}
	return rep
}

// RunResult collects every directory of a run
type RunResult struct {
	Directories []DirectoryResult
	Skipped     []string
	Interrupted bool
	Stopped     bool
	Duration    time.Duration
}

// Failed reports whether any directory could not be processed or persisted
func (r RunResult) Failed() bool {
	for _, d := range r.Directories {
		if d.Err != nil {
			return true
		}
	}
	return false
}

// Totals merges the summaries of every processed directory
func (r RunResult) Totals() domain.RunSummary {
	var total domain.RunSummary
	for _, d := range r.Directories {
		total.Merge(d.Summary)
	}
	return total
}

// Unexpected reports whether any case contradicted its expectation or errored
func (r RunResult) Unexpected() bool {
	for _, d := range r.Directories {
		if !d.Summary.OK() {
			return true
		}
	}
	return false
}

// ExitCode maps the run to a process exit status: 130 when interrupted, 1
// when a directory failed (or, if strict, any case did), else 0.
func (r RunResult) ExitCode(strict bool) int {
	switch {
	case r.Interrupted:
		return 130
	case r.Failed():
		return 1
	case strict && (r.Unexpected() || r.Stopped):
		return 1
	default:
		return 0
	}
}

// Harness runs corpus directories through an executor
type Harness struct {
	scanner  *discovery.Scanner
	filter   *discovery.Filter
	executor execution.Executor
	dumper   Dumper
	logger   *zap.Logger
}

// New creates a Harness. A nil dumper keeps failure lists in memory only.
func New(scanner *discovery.Scanner, filter *discovery.Filter, executor execution.Executor, dumper Dumper, logger *zap.Logger) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{
		scanner:  scanner,
		filter:   filter,
		executor: executor,
		dumper:   dumper,
		logger:   logger,
	}
}

// Run processes dirs one after another. After cancellation or a fail-fast
// stop the remaining directories are skipped.
func (h *Harness) Run(ctx context.Context, dirs []string, opts Options, listener Listener) RunResult {
	if listener == nil {
		listener = NopListener{}
	}
	start := time.Now()
	var result RunResult

	for _, dir := range dirs {
		if ctx.Err() != nil || result.Stopped {
			result.Skipped = append(result.Skipped, dir)
			continue
		}
		dr := h.RunDirectory(ctx, dir, opts, listener)
		result.Directories = append(result.Directories, dr)
		result.Stopped = result.Stopped || dr.Stopped
	}

	result.Interrupted = ctx.Err() != nil
	result.Duration = time.Since(start)
	return result
}

// RunDirectory enumerates, executes and finalizes a single directory
func (h *Harness) RunDirectory(ctx context.Context, dir string, opts Options, listener Listener) DirectoryResult {
	if listener == nil {
		listener = NopListener{}
	}

	cases, err := h.scanner.Enumerate(dir)
	if err != nil {
		h.logger.Warn("corpus directory unavailable", zap.String("dir", dir), zap.Error(err))
		dr := DirectoryResult{Dir: dir, Summary: domain.RunSummary{Dir: dir}, Err: err}
		listener.DirectoryFinished(dr)
		return dr
	}
	cases = h.filter.FilterByName(cases, opts.NameFilter)
	if opts.OnlyPaths != nil {
		cases = h.filter.FilterByPaths(cases, opts.OnlyPaths)
	}
	h.logger.Debug("corpus enumerated", zap.String("dir", dir), zap.Int("cases", len(cases)))

	var dumpFile string
	agg := aggregate.New(dir, func(s domain.RunSummary) error {
		if h.dumper == nil {
			return nil
		}
		path, err := h.dumper.Write(s.Failures)
		if err != nil {
			return err
		}
		dumpFile = path
		return nil
	})

	observers := append([]execution.Observer{agg}, listener.DirectoryStarted(dir, cases)...)
	execErr := h.executor.Execute(ctx, cases, observers...)
	stopped := errors.Is(execErr, execution.ErrStopped)
	if execErr != nil {
		agg.MarkInterrupted()
	}

	summary, err := agg.Finalize()
	if err != nil {
		h.logger.Error("failed to persist unexpected failures", zap.String("dir", dir), zap.Error(err))
	}

	dr := DirectoryResult{
		Dir:      dir,
		Summary:  summary,
		Details:  agg.Details(),
		DumpFile: dumpFile,
		Err:      err,
		Stopped:  stopped,
	}
	listener.DirectoryFinished(dr)
	return dr
}
