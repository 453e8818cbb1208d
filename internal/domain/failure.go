package domain

// TestFailure describes a case that produced an unexpected failure or a harness error
type TestFailure struct {
	FilePath    string `json:"file_path"`
	Dir         string `json:"dir"`
	Expectation string `json:"expectation"`
	Outcome     string `json:"outcome"`
	Verdict     string `json:"verdict"`
	ExitCode    int    `json:"exit_code"`
	Stderr      string `json:"stderr,omitempty"`
	Resolved    bool   `json:"resolved,omitempty"` // Toggled from the failures viewer
}

// NewTestFailure converts a classified result into its persisted form.
func NewTestFailure(dir string, r TestResult) TestFailure {
	return TestFailure{
		FilePath:    r.Case.Path,
		Dir:         dir,
		Expectation: r.Case.Expectation.String(),
		Outcome:     r.Outcome.String(),
		Verdict:     r.Verdict.String(),
		ExitCode:    r.Outcome.ExitCode,
		Stderr:      r.Outcome.Stderr,
	}
}
