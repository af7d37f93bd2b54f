package runner

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/coveragewatch/coverage-sentinel/internal/engine"
	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// Result is the outcome of folding one unit's snapshot sequence through
// the decision engine.
type Result struct {
	Unit      string                   `json:"unit"`
	Final     models.EngineState       `json:"final"`
	LastRatio float64                  `json:"last_ratio"`
	LastTS    time.Time                `json:"last_ts"`
	Events    []models.TransitionEvent `json:"events"`
	States    []models.UnitState       `json:"states"`
}

// Status converts the result to its roster row.
func (r Result) Status() models.UnitStatus {
	return models.UnitStatus{
		Unit:      r.Unit,
		State:     r.Final.State,
		LastRatio: r.LastRatio,
		LastTS:    r.LastTS,
	}
}

// RunSequence sorts a unit's snapshots by timestamp (stable, so exact
// ties keep insertion order) and folds them through the engine. Events
// are annotated with tick index, ratio and timestamp.
func RunSequence(eng *engine.Engine, unit string, snapshots []models.Snapshot) (Result, error) {
	sorted := make([]models.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TS.Before(sorted[j].TS)
	})

	result := Result{
		Unit:   unit,
		Final:  models.InitialState(),
		States: make([]models.UnitState, 0, len(sorted)),
	}

	state := models.InitialState()
	for i, snap := range sorted {
		next, events, err := eng.Decide(&state, snap.Ratio)
		if err != nil {
			return Result{}, fmt.Errorf("unit %s snapshot %d: %w", unit, i, err)
		}
		for _, ev := range events {
			ev.Unit = unit
			ev.Index = i
			ev.Ratio = snap.Ratio
			ev.Timestamp = snap.TS
			result.Events = append(result.Events, ev)
		}
		state = next
		result.States = append(result.States, state.State)
		result.LastRatio = snap.Ratio
		result.LastTS = snap.TS
	}

	result.Final = state
	return result, nil
}

// RunRatios folds a bare ratio sequence with synthetic per-tick
// timestamps. Used by the scenario simulator and metrics aggregator.
func RunRatios(eng *engine.Engine, unit string, ratios []float64) (Result, error) {
	base := time.Unix(0, 0).UTC()
	snapshots := make([]models.Snapshot, len(ratios))
	for i, r := range ratios {
		snapshots[i] = models.Snapshot{
			Unit:  unit,
			Ratio: r,
			TS:    base.Add(time.Duration(i) * time.Minute),
		}
	}
	return RunSequence(eng, unit, snapshots)
}

// BuildRoster evaluates every unit in the feed, one worker per unit,
// and returns the under-served roster plus the per-unit results. Units
// share nothing but the read-only engine, so no locking is needed
// beyond collecting results.
func BuildRoster(eng *engine.Engine, feed models.Feed) (models.Roster, map[string]Result, error) {
	byUnit := feed.ByUnit()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  = make(map[string]Result, len(byUnit))
		firstErr error
	)

	for unit, snaps := range byUnit {
		wg.Add(1)
		go func(unit string, snaps []models.Snapshot) {
			defer wg.Done()
			res, err := RunSequence(eng, unit, snaps)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[unit] = res
		}(unit, snaps)
	}
	wg.Wait()

	if firstErr != nil {
		return models.Roster{}, nil, firstErr
	}

	roster := models.Roster{
		GeneratedAt:    time.Now().UTC(),
		ParamsVersion:  eng.Params().Version,
		UnitsEvaluated: len(results),
	}
	for _, res := range results {
		if res.Final.UnderServed() {
			roster.Units = append(roster.Units, res.Status())
		}
	}
	sort.Slice(roster.Units, func(i, j int) bool {
		return roster.Units[i].Unit < roster.Units[j].Unit
	})
	roster.Count = len(roster.Units)

	logger.WithFields(map[string]interface{}{
		"units_evaluated": roster.UnitsEvaluated,
		"under_served":    roster.Count,
	}).Info("Roster built")

	return roster, results, nil
}
