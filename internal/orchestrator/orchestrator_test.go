package orchestrator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveragewatch/coverage-sentinel/internal/artifacts"
	"github.com/coveragewatch/coverage-sentinel/internal/metrics"
	"github.com/coveragewatch/coverage-sentinel/pkg/config"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()

	cfg := &config.Config{
		App:       config.AppConfig{Name: "test", Mode: "test", LogLevel: "error"},
		Engine:    models.DefaultParams(),
		Artifacts: config.ArtifactsConfig{Dir: filepath.Join(t.TempDir(), "artifacts")},
		Events:    config.EventsConfig{BufferSize: 100},
	}

	orch, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, orch.Start())
	t.Cleanup(orch.Stop)
	return orch
}

func testFeed() models.Feed {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var feed models.Feed
	add := func(unit string, ratios ...float64) {
		for i, r := range ratios {
			feed.Snapshots = append(feed.Snapshots, models.Snapshot{
				Unit:  unit,
				Ratio: r,
				TS:    base.Add(time.Duration(i) * time.Hour),
			})
		}
	}
	add("checkout-flow", 0.49, 0.52)
	add("billing-core", 0.80, 0.78)
	return feed
}

func TestOrchestrator_EvaluateFeed(t *testing.T) {
	metrics.Get().Reset()
	orch := newTestOrchestrator(t)

	eventsCh := orch.SubscribeAllEvents()

	roster, err := orch.EvaluateFeed(testFeed(), "test-feed")
	require.NoError(t, err)

	assert.Equal(t, 2, roster.UnitsEvaluated)
	require.Equal(t, 1, roster.Count)
	assert.Equal(t, "checkout-flow", roster.Units[0].Unit)
	assert.Equal(t, models.StateActive, roster.Units[0].State)

	cached := orch.LastRoster()
	require.NotNil(t, cached)
	assert.Equal(t, roster.Count, cached.Count)

	assert.FileExists(t, filepath.Join(orch.store.Dir(), artifacts.RosterFile))

	// The evaluation publishes feed_loaded, two unit evaluations, one
	// transition (the severe entry) and the roster itself.
	seen := make(map[models.EventType]int)
	deadline := time.After(time.Second)
	for i := 0; i < 5; i++ {
		select {
		case ev := <-eventsCh:
			seen[ev.Type]++
		case <-deadline:
			t.Fatalf("timed out after %d events, saw %v", i, seen)
		}
	}
	assert.Equal(t, 1, seen[models.EventTypeFeedLoaded])
	assert.Equal(t, 2, seen[models.EventTypeUnitEvaluated])
	assert.Equal(t, 1, seen[models.EventTypeUnitTransitioned])
	assert.Equal(t, 1, seen[models.EventTypeRosterBuilt])

	snap := metrics.Get().Snapshot()
	assert.Equal(t, int64(4), snap["snapshots_processed"])
	assert.Equal(t, int64(2), snap["units_evaluated"])
	assert.Equal(t, 1, snap["roster_size"])
}

func TestOrchestrator_RunScenarios(t *testing.T) {
	metrics.Get().Reset()
	orch := newTestOrchestrator(t)

	report, metricsReport, err := orch.RunScenarios(nil, &models.UnitTestSummary{Pass: 10})
	require.NoError(t, err)

	assert.Equal(t, report.Summary.ScenariosTotal, report.Summary.ScenariosPass)
	assert.Equal(t, report.Summary.ScenariosTotal, metricsReport.ScenarioCount)
	require.NotNil(t, metricsReport.UnitTests)
	assert.Equal(t, 10, metricsReport.UnitTests.Pass)

	require.NotNil(t, orch.LastScenarioReport())
	assert.FileExists(t, filepath.Join(orch.store.Dir(), artifacts.ScenarioReportFile))
	assert.FileExists(t, filepath.Join(orch.store.Dir(), artifacts.MetricsReportFile))

	snap := metrics.Get().Snapshot()
	assert.Equal(t, int64(1), snap["scenario_runs"])
}
