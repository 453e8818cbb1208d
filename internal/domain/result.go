package domain

import "time"

// TestResult is one classified invocation of the subject
type TestResult struct {
	Case    TestCase
	Outcome Outcome
	Verdict Verdict
}

// RunSummary accumulates the results of one corpus directory.
//
// Total always equals Passed+NotPassed and NotPassed always equals
// len(Failures). Errored cases are kept apart from Total.
type RunSummary struct {
	Dir         string
	Total       int
	Passed      int
	NotPassed   int
	Failures    []string
	Errored     int
	Errors      []string
	Crashed     int
	StartedAt   time.Time
	FinishedAt  time.Time
	Interrupted bool
}

// Add records one verdict. Counters are never decremented.
func (s *RunSummary) Add(path string, out Outcome, v Verdict) {
	if out.Abnormal() {
		s.Crashed++
	}
	switch v {
	case Errored:
		s.Errored++
		s.Errors = append(s.Errors, path)
		return
	case UnexpectedFailure:
		s.Total++
		s.NotPassed++
		s.Failures = append(s.Failures, path)
	default:
		s.Total++
		s.Passed++
	}
}

// Merge folds another partial summary of the same directory into s.
func (s *RunSummary) Merge(o RunSummary) {
	s.Total += o.Total
	s.Passed += o.Passed
	s.NotPassed += o.NotPassed
	s.Failures = append(s.Failures, o.Failures...)
	s.Errored += o.Errored
	s.Errors = append(s.Errors, o.Errors...)
	s.Crashed += o.Crashed
	s.Interrupted = s.Interrupted || o.Interrupted
	if s.StartedAt.IsZero() || (!o.StartedAt.IsZero() && o.StartedAt.Before(s.StartedAt)) {
		s.StartedAt = o.StartedAt
	}
	if o.FinishedAt.After(s.FinishedAt) {
		s.FinishedAt = o.FinishedAt
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s RunSummary) Clone() RunSummary {
	c := s
	c.Failures = append([]string(nil), s.Failures...)
	c.Errors = append([]string(nil), s.Errors...)
	return c
}

// Consistent reports whether the counter invariants hold.
func (s RunSummary) Consistent() bool {
	return s.Total == s.Passed+s.NotPassed &&
		s.NotPassed == len(s.Failures) &&
		s.Errored == len(s.Errors)
}

// OK reports whether the directory finished without contradictions or errors.
func (s RunSummary) OK() bool {
	return s.NotPassed == 0 && s.Errored == 0
}

// Duration is the wall time spent on the directory.
func (s RunSummary) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// DirectoryReport is the persisted form of one directory's run
type DirectoryReport struct {
	Dir             string  `json:"dir"`
	Total           int     `json:"total"`
	Passed          int     `json:"passed"`
	NotPassed       int     `json:"not_passed"`
	Errored         int     `json:"errored"`
	Crashed         int     `json:"crashed"`
	DumpFile        string  `json:"dump_file,omitempty"`
	Error           string  `json:"error,omitempty"` // Enumeration or dump failure
	Interrupted     bool    `json:"interrupted,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// TestResultsMeta contains metadata about a harness run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	Subject         string  `json:"subject"`
	TotalCases      int     `json:"total_cases"`
	PassedCases     int     `json:"passed_cases"`
	NotPassedCases  int     `json:"not_passed_cases"`
	ErroredCases    int     `json:"errored_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	CrashPolicy     string  `json:"crash_policy"`
	Interrupted     bool    `json:"interrupted,omitempty"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete JSON report of a harness run
type TestResultsOutput struct {
	Meta        TestResultsMeta   `json:"meta"`
	Directories []DirectoryReport `json:"directories"`
	Details     []TestFailure     `json:"details"`
}
