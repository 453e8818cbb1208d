package domain

import "path/filepath"

// TestCase is a single corpus file to be fed to the subject
type TestCase struct {
	Path        string      // Path passed to the subject
	Name        string      // Base file name
	Expectation Expectation // Derived from Name
}

// NewTestCase builds a TestCase from a file path
func NewTestCase(path string) TestCase {
	name := filepath.Base(path)
	return TestCase{
		Path:        path,
		Name:        name,
		Expectation: ExpectationFromName(name),
	}
}
