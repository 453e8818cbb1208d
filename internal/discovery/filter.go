package discovery

import (
	"path/filepath"
	"strings"

	"jts/internal/domain"
)

// Filter filters corpus cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters cases by base name using wildcard matching.
// Supports patterns like "n_number_*" or "*string*"; a pattern without
// wildcards matches as a substring.
func (f *Filter) FilterByName(cases []domain.TestCase, pattern string) []domain.TestCase {
	if pattern == "" {
		return cases
	}

	var filtered []domain.TestCase
	for _, c := range cases {
		if matchName(pattern, c.Name) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// FilterByPaths keeps only cases whose path is in paths
func (f *Filter) FilterByPaths(cases []domain.TestCase, paths map[string]struct{}) []domain.TestCase {
	var filtered []domain.TestCase
	for _, c := range cases {
		if _, ok := paths[filepath.Clean(c.Path)]; ok {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func matchName(pattern, name string) bool {
	// filepath.Match supports * and ? wildcards
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		// Every non-empty fragment must appear, in order
		rest := name
		nonEmpty := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			nonEmpty = true
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return nonEmpty
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
