package simulator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// scenarioFile is the on-disk shape of an extra scenario table.
type scenarioFile struct {
	Scenarios []fileScenario `yaml:"scenarios"`
}

type fileScenario struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Sequence    []float64 `yaml:"sequence"`
	Expected    struct {
		FinalState  string `yaml:"final_state"`
		EntryReason string `yaml:"entry_reason"`
	} `yaml:"expected"`
}

// LoadScenarioFile reads additional scenarios from a YAML file and
// appends them to the built-in table.
func LoadScenarioFile(path string) ([]models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	scenarios := DefaultScenarios()
	for i, fs := range file.Scenarios {
		if fs.ID == "" {
			return nil, fmt.Errorf("scenario %d: id is required", i)
		}
		if len(fs.Sequence) == 0 {
			return nil, fmt.Errorf("scenario %s: sequence is required", fs.ID)
		}
		sc := models.Scenario{
			ID:          fs.ID,
			Description: fs.Description,
			Sequence:    fs.Sequence,
		}
		if fs.Expected.FinalState != "" {
			state := models.UnitState(fs.Expected.FinalState)
			sc.Expected.FinalState = &state
		}
		if fs.Expected.EntryReason != "" {
			reason := models.TransitionReason(fs.Expected.EntryReason)
			sc.Expected.EntryReason = &reason
		}
		scenarios = append(scenarios, sc)
	}

	return scenarios, nil
}
