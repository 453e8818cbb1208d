package storage

import (
	"time"

	"jts/internal/config"
	"jts/internal/domain"
)

// Storage persists and loads harness run reports (e.g. for the failures viewer).
type Storage interface {
	Save(meta domain.TestResultsMeta, dirs []domain.DirectoryReport, failures []domain.TestFailure, duration time.Duration) error
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after toggling resolved flags).
	SaveOutput(output *domain.TestResultsOutput) error
}

// JSONStorage stores reports in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
