package execution

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/alessio/shellescape"
	"go.uber.org/zap"

	"jts/internal/config"
	"jts/internal/domain"
)

const (
	// stderrTailLimit bounds how much subject stderr is kept per case
	stderrTailLimit = 4 << 10
	// waitDelay bounds how long Wait blocks on I/O after the subject exits
	waitDelay = 2 * time.Second
)

// Runner invokes the subject executable on a single corpus file
type Runner struct {
	subject string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		subject: cfg.Subject,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Subject returns the configured executable
func (r *Runner) Subject() string {
	return r.subject
}

// Check verifies the subject can be resolved and is executable
func (r *Runner) Check() error {
	if _, err := exec.LookPath(r.subject); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSubjectNotFound, r.subject, err)
	}
	return nil
}

// Run executes `<subject> <path>`, discarding stdout, and reports how it ended
func (r *Runner) Run(ctx context.Context, path string) domain.Outcome {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if r.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
	}
	defer cancel()

	// #nosec G204 -- the subject is operator configured.
	cmd := exec.CommandContext(runCtx, r.subject, path)
	// A nil Stdout is connected to the null device
	cmd.Stdout = nil
	stderr := newTailBuffer(stderrTailLimit)
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	if ce := r.logger.Check(zap.DebugLevel, "invoking subject"); ce != nil {
		ce.Write(zap.String("cmd", quoteCommand(r.subject, path)))
	}

	start := time.Now()
	err := cmd.Run()
	out := domain.Outcome{
		Duration: time.Since(start),
		Stderr:   strings.TrimSpace(stderr.String()),
	}

	resolveOutcome(&out, err, ctx.Err() != nil, errors.Is(runCtx.Err(), context.DeadlineExceeded))

	if out.Kind != domain.Accepted && out.Kind != domain.Rejected {
		r.logger.Debug("subject ended abnormally",
			zap.String("path", path),
			zap.String("outcome", out.String()),
			zap.Error(err))
	}
	return out
}

// resolveOutcome fills in how the subject ended. A normal exit status is kept
// even when the run was canceled or timed out meanwhile; only a process that
// was killed (or never started) is reported as Canceled or TimedOut.
func resolveOutcome(out *domain.Outcome, err error, canceled, timedOut bool) {
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		// ErrWaitDelay is only reported after a successful exit
		out.Kind = domain.Accepted
		return
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ws, ok := exitErr.Sys().(syscall.WaitStatus)
		signaled := ok && ws.Signaled()
		if code := exitErr.ExitCode(); !signaled && code >= 0 {
			out.Kind = domain.Rejected
			out.ExitCode = code
			return
		}
		switch {
		case canceled:
			out.Kind = domain.Canceled
		case timedOut:
			out.Kind = domain.TimedOut
		default:
			out.Kind = domain.Crashed
			if signaled {
				out.Signal = ws.Signal().String()
			}
		}
		return
	}

	switch {
	case canceled:
		out.Kind = domain.Canceled
	case timedOut:
		out.Kind = domain.TimedOut
	default:
		out.Kind = domain.FailedToRun
		out.Err = err
	}
}

func quoteCommand(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellescape.Quote(a)
	}
	return strings.Join(quoted, " ")
}
