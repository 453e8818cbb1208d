// Package aggregate accumulates classified results into per-directory summaries.
package aggregate

import (
	"errors"
	"sync"
	"time"

	"jts/internal/domain"
)

// FinalizeHook persists or reports a finished summary. Hooks run once, in
// order, when the aggregator is finalized.
type FinalizeHook func(summary domain.RunSummary) error

// Aggregator owns the RunSummary of one corpus directory. It is safe for
// concurrent use by worker goroutines.
type Aggregator struct {
	mu        sync.Mutex
	summary   domain.RunSummary
	details   []domain.TestFailure
	finalized bool
	hooks     []FinalizeHook
	now       func() time.Time

	once   sync.Once
	result domain.RunSummary
	err    error
}

// New starts aggregating results for dir
func New(dir string, hooks ...FinalizeHook) *Aggregator {
	a := &Aggregator{hooks: hooks, now: time.Now}
	a.summary.Dir = dir
	a.summary.StartedAt = a.now()
	return a
}

// Observe implements execution.Observer
func (a *Aggregator) Observe(result domain.TestResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		return
	}
	a.summary.Add(result.Case.Path, result.Outcome, result.Verdict)
	if result.Verdict == domain.UnexpectedFailure || result.Verdict == domain.Errored {
		a.details = append(a.details, domain.NewTestFailure(a.summary.Dir, result))
	}
}

// Record stores a case classified outside the worker pool
func (a *Aggregator) Record(tc domain.TestCase, out domain.Outcome, v domain.Verdict) {
	a.Observe(domain.TestResult{Case: tc, Outcome: out, Verdict: v})
}

// MarkInterrupted flags the summary as covering only part of the directory
func (a *Aggregator) MarkInterrupted() {
	a.mu.Lock()
	if !a.finalized {
		a.summary.Interrupted = true
	}
	a.mu.Unlock()
}

// Snapshot returns a copy of the current summary
func (a *Aggregator) Snapshot() domain.RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary.Clone()
}

// Details returns the failure details recorded so far
func (a *Aggregator) Details() []domain.TestFailure {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.TestFailure(nil), a.details...)
}

// Finalize closes the summary to further results and runs the hooks. Later
// calls return the same summary and error without running the hooks again.
func (a *Aggregator) Finalize() (domain.RunSummary, error) {
	a.once.Do(func() {
		a.mu.Lock()
		a.finalized = true
		a.summary.FinishedAt = a.now()
		a.result = a.summary.Clone()
		a.mu.Unlock()

		var errs []error
		for _, hook := range a.hooks {
			if err := hook(a.result.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
		a.err = errors.Join(errs...)
	})
	return a.result.Clone(), a.err
}
