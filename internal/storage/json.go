package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jts/internal/domain"
)

// Save totals the directory reports into meta and writes the JSON report.
func (s *JSONStorage) Save(meta domain.TestResultsMeta, dirs []domain.DirectoryReport, failures []domain.TestFailure, duration time.Duration) error {
	meta.TotalCases, meta.PassedCases, meta.NotPassedCases, meta.ErroredCases = 0, 0, 0, 0
	for _, d := range dirs {
		meta.TotalCases += d.Total
		meta.PassedCases += d.Passed
		meta.NotPassedCases += d.NotPassed
		meta.ErroredCases += d.Errored
		meta.Interrupted = meta.Interrupted || d.Interrupted
	}
	meta.Duration = duration.String()
	meta.DurationSeconds = duration.Seconds()
	meta.Timestamp = time.Now().Format(time.RFC3339)

	if dirs == nil {
		dirs = []domain.DirectoryReport{}
	}
	if failures == nil {
		failures = []domain.TestFailure{}
	}

	return s.SaveOutput(&domain.TestResultsOutput{
		Meta:        meta,
		Directories: dirs,
		Details:     failures,
	})
}

// Load reads the last run report from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// FailedPaths returns the unresolved failure paths of a report, cleaned for lookup.
func FailedPaths(output *domain.TestResultsOutput) map[string]struct{} {
	paths := make(map[string]struct{}, len(output.Details))
	for _, f := range output.Details {
		if f.Resolved {
			continue
		}
		paths[filepath.Clean(f.FilePath)] = struct{}{}
	}
	return paths
}
