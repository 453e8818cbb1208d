package ui

import "jts/internal/domain"

// Viewer displays run failures
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}

var _ Viewer = (*FailureViewer)(nil)
