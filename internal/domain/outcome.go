package domain

import (
	"fmt"
	"time"
)

// OutcomeKind tags how a subject invocation ended.
type OutcomeKind int

const (
	// Accepted means the subject exited with status 0.
	Accepted OutcomeKind = iota
	// Rejected means the subject exited normally with a non-zero status.
	Rejected
	// Crashed means the subject was terminated by a signal.
	Crashed
	// TimedOut means the invocation deadline expired and the subject was killed.
	TimedOut
	// FailedToRun means the subject could not be started at all.
	FailedToRun
	// Canceled means the run was aborted while the case was in flight.
	Canceled
)

// Outcome is the result of running the subject on one TestCase.
type Outcome struct {
	Kind     OutcomeKind
	ExitCode int           // Valid for Accepted and Rejected
	Signal   string        // Valid for Crashed
	Err      error         // Valid for FailedToRun
	Stderr   string        // Tail of the subject's stderr
	Duration time.Duration // Wall time of the invocation
}

// String renders the observed outcome for the per-case report line.
func (o Outcome) String() string {
	switch o.Kind {
	case Accepted:
		return "Passed"
	case Rejected:
		return "Not Passed"
	case Crashed:
		if o.Signal != "" {
			return fmt.Sprintf("Crashed (%s)", o.Signal)
		}
		return "Crashed"
	case TimedOut:
		return "Timed Out"
	case FailedToRun:
		return "Failed To Run"
	case Canceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// Abnormal reports whether the subject ended without a normal exit status.
func (o Outcome) Abnormal() bool {
	return o.Kind == Crashed || o.Kind == TimedOut
}
