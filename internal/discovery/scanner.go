package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"jts/internal/domain"
)

// Scanner enumerates corpus files in a directory
type Scanner struct {
	sorted bool
}

// NewScanner creates a new Scanner. When sorted is set, cases are ordered by
// name so logs diff cleanly between runs.
func NewScanner(sorted bool) *Scanner {
	return &Scanner{sorted: sorted}
}

// Enumerate lists the files directly inside dir. Subdirectories are not
// descended into. A directory that cannot be listed yields a
// *domain.DirectoryUnavailableError, never an empty result.
func (s *Scanner) Enumerate(dir string) ([]domain.TestCase, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &domain.DirectoryUnavailableError{Dir: dir, Cause: err}
	}
	if !info.IsDir() {
		return nil, &domain.DirectoryUnavailableError{Dir: dir, Cause: errors.New("not a directory")}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.DirectoryUnavailableError{Dir: dir, Cause: err}
	}

	cases := make([]domain.TestCase, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		cases = append(cases, domain.NewTestCase(filepath.Join(dir, entry.Name())))
	}

	if s.sorted {
		sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	}
	return cases, nil
}

// CountByExpectation tallies cases per expectation class
func CountByExpectation(cases []domain.TestCase) map[domain.Expectation]int {
	counts := make(map[domain.Expectation]int, 3)
	for _, c := range cases {
		counts[c.Expectation]++
	}
	return counts
}
