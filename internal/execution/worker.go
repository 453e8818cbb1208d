package execution

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jts/internal/domain"
)

// WorkerPool runs subject invocations in parallel with a bounded number of workers
type WorkerPool struct {
	runner   Invoker
	workers  int
	policy   domain.CrashPolicy
	failFast bool
	logger   *zap.Logger
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(runner Invoker, workers int, policy domain.CrashPolicy, logger *zap.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		runner:  runner,
		workers: workers,
		policy:  policy,
		logger:  logger,
	}
}

// SetFailFast makes Execute stop dispatching after the first unexpected failure
func (wp *WorkerPool) SetFailFast(failFast bool) {
	wp.failFast = failFast
}

// Execute runs every case, classifies each outcome and hands the result to
// the observers. It returns nil when all cases ran, ErrStopped when
// fail-fast triggered, or the context error when ctx was cancelled. Cases
// still in flight at cancellation are dropped, not reported.
func (wp *WorkerPool) Execute(ctx context.Context, cases []domain.TestCase, observers ...Observer) error {
	if len(cases) == 0 {
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workers)

	for _, tc := range cases {
		if gctx.Err() != nil {
			break
		}
		tc := tc
		// Go blocks while all workers are busy
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			out := wp.runner.Run(gctx, tc.Path)
			if out.Kind == domain.Canceled {
				return nil
			}
			result := domain.TestResult{
				Case:    tc,
				Outcome: out,
				Verdict: domain.Classify(tc.Expectation, out, wp.policy),
			}
			for _, o := range observers {
				o.Observe(result)
			}
			if wp.failFast && result.Verdict == domain.UnexpectedFailure {
				return ErrStopped
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil && !errors.Is(err, ErrStopped) {
		wp.logger.Debug("execution interrupted", zap.Error(err))
	}
	return err
}
