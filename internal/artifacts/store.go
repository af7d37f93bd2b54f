package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

const (
	RosterFile         = "roster.json"
	ScenarioReportFile = "scenario_report.json"
	MetricsReportFile  = "metrics_report.json"
)

// Store writes evaluation artifacts as indented JSON files under a
// single output directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "artifacts"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) WriteRoster(roster models.Roster) error {
	return s.write(RosterFile, roster)
}

func (s *Store) WriteScenarioReport(report models.ScenarioReport) error {
	return s.write(ScenarioReportFile, report)
}

func (s *Store) WriteMetricsReport(report models.MetricsReport) error {
	return s.write(MetricsReportFile, report)
}

func (s *Store) write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.WithField("path", path).Info("Artifact written")
	return nil
}
