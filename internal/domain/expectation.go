package domain

// Expectation is the outcome a corpus file requires, encoded in its name prefix.
type Expectation int

const (
	// Either means the subject may accept or reject the file.
	Either Expectation = iota
	// MustAccept is encoded by a leading 'y'.
	MustAccept
	// MustReject is encoded by a leading 'n'.
	MustReject
)

// ExpectationFromName derives the expectation from the first byte of a base
// file name. The check is case-sensitive.
func ExpectationFromName(name string) Expectation {
	if name == "" {
		return Either
	}
	switch name[0] {
	case 'y':
		return MustAccept
	case 'n':
		return MustReject
	default:
		return Either
	}
}

// String renders the expectation the way the report prints it.
func (e Expectation) String() string {
	switch e {
	case MustAccept:
		return "Passed"
	case MustReject:
		return "Not Passed"
	default:
		return "All"
	}
}
