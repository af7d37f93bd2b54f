package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
	"github.com/coveragewatch/coverage-sentinel/pkg/validation"
)

var (
	ErrEmptyFeed       = errors.New("feed contains no snapshots")
	ErrNonFiniteSample = errors.New("feed contains a non-finite ratio")
)

// Loader reads a snapshot feed. The engine never fetches data itself;
// a loader hands it a fully materialized in-memory list.
type Loader interface {
	Load() (models.Feed, error)
}

// FileLoader reads a JSON feed file: either a {"snapshots": [...]}
// document or a bare snapshot array.
type FileLoader struct {
	Path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

func (l *FileLoader) Load() (models.Feed, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return models.Feed{}, fmt.Errorf("failed to read feed file: %w", err)
	}

	var feed models.Feed
	if err := json.Unmarshal(data, &feed); err != nil || len(feed.Snapshots) == 0 {
		var snapshots []models.Snapshot
		if arrErr := json.Unmarshal(data, &snapshots); arrErr != nil {
			if err != nil {
				return models.Feed{}, fmt.Errorf("failed to parse feed file: %w", err)
			}
			return models.Feed{}, fmt.Errorf("failed to parse feed file: %w", arrErr)
		}
		feed.Snapshots = snapshots
	}

	if len(feed.Snapshots) == 0 {
		return models.Feed{}, ErrEmptyFeed
	}
	for i, s := range feed.Snapshots {
		if err := validation.ValidateUnitName(s.Unit); err != nil {
			return models.Feed{}, fmt.Errorf("snapshot %d: %w", i, err)
		}
		if math.IsNaN(s.Ratio) || math.IsInf(s.Ratio, 0) {
			return models.Feed{}, fmt.Errorf("%w: snapshot %d (unit %s)", ErrNonFiniteSample, i, s.Unit)
		}
	}

	logger.WithFields(map[string]interface{}{
		"path":      l.Path,
		"snapshots": len(feed.Snapshots),
		"units":     len(feed.Units()),
	}).Info("Feed loaded")

	return feed, nil
}
