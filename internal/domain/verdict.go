package domain

import "fmt"

// Verdict is the harness's judgement of one test case.
type Verdict int

const (
	// Pass means the outcome matched a strict expectation.
	Pass Verdict = iota
	// UnexpectedFailure means the outcome contradicted the expectation.
	UnexpectedFailure
	// Informational is an Either case; it counts as a pass.
	Informational
	// Errored is a harness-infrastructure problem, not a conformance result.
	Errored
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case UnexpectedFailure:
		return "unexpected_failure"
	case Informational:
		return "informational"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// CountsAsPass reports whether the verdict increments the passed counter.
func (v Verdict) CountsAsPass() bool {
	return v == Pass || v == Informational
}

// CrashPolicy decides how crashed or timed-out subjects are counted.
type CrashPolicy string

const (
	// CrashIsFailure counts an abnormal termination as an unexpected failure.
	CrashIsFailure CrashPolicy = "failure"
	// CrashIsError counts an abnormal termination as a harness error.
	CrashIsError CrashPolicy = "error"
)

// ParseCrashPolicy validates a policy name from configuration.
func ParseCrashPolicy(s string) (CrashPolicy, error) {
	switch CrashPolicy(s) {
	case CrashIsFailure, CrashIsError:
		return CrashPolicy(s), nil
	case "":
		return CrashIsFailure, nil
	default:
		return "", fmt.Errorf("unknown crash policy %q (want %q or %q)", s, CrashIsFailure, CrashIsError)
	}
}

// Classify maps an expectation and an observed outcome to a verdict.
// Canceled outcomes must not be classified; they classify as Errored.
func Classify(exp Expectation, out Outcome, policy CrashPolicy) Verdict {
	switch out.Kind {
	case FailedToRun, Canceled:
		return Errored
	case Crashed, TimedOut:
		switch {
		case policy == CrashIsError:
			return Errored
		case exp == Either:
			// Either files never count toward failure; RunSummary.Crashed still records it
			return Informational
		}
		return UnexpectedFailure
	}

	accepted := out.Kind == Accepted
	switch exp {
	case MustAccept:
		if accepted {
			return Pass
		}
		return UnexpectedFailure
	case MustReject:
		if accepted {
			return UnexpectedFailure
		}
		return Pass
	default:
		return Informational
	}
}
