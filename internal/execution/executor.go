package execution

import (
	"context"
	"errors"

	"jts/internal/domain"
)

// ErrStopped is returned by Execute when fail-fast stopped the run early.
var ErrStopped = errors.New("stopped after first unexpected failure")

// Executor runs corpus cases and hands every classified result to observers
type Executor interface {
	Execute(ctx context.Context, cases []domain.TestCase, observers ...Observer) error
}

// Invoker runs the subject once on a single file
type Invoker interface {
	Run(ctx context.Context, path string) domain.Outcome
}

// Observer receives classified results. Observe is called from worker
// goroutines and must be safe for concurrent use.
type Observer interface {
	Observe(result domain.TestResult)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(result domain.TestResult)

// Observe calls f(result)
func (f ObserverFunc) Observe(result domain.TestResult) {
	f(result)
}
