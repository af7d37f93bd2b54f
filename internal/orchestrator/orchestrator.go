package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coveragewatch/coverage-sentinel/internal/artifacts"
	"github.com/coveragewatch/coverage-sentinel/internal/engine"
	"github.com/coveragewatch/coverage-sentinel/internal/events"
	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/internal/metrics"
	"github.com/coveragewatch/coverage-sentinel/internal/runner"
	"github.com/coveragewatch/coverage-sentinel/internal/simulator"
	"github.com/coveragewatch/coverage-sentinel/pkg/config"
	"github.com/coveragewatch/coverage-sentinel/pkg/database"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// Orchestrator wires the flow: feed -> sequence runner -> roster,
// publishing events along the way and writing artifacts at the end.
type Orchestrator struct {
	config      *config.Config
	db          *database.DB
	engine      *engine.Engine
	eventBus    *events.EventBus
	eventLogger *events.EventLogger
	publisher   *events.Publisher
	store       *artifacts.Store

	mu         sync.RWMutex
	lastRoster *models.Roster
	lastReport *models.ScenarioReport
}

func New(cfg *config.Config, db *database.DB) (*Orchestrator, error) {
	eng, err := engine.New(cfg.Engine)
	if err != nil {
		return nil, err
	}

	store, err := artifacts.NewStore(cfg.Artifacts.Dir)
	if err != nil {
		return nil, err
	}

	eventBus := events.NewEventBus(cfg.Events.BufferSize)
	eventLogger := events.NewEventLogger(db, eventBus.SubscribeAll())

	return &Orchestrator{
		config:      cfg,
		db:          db,
		engine:      eng,
		eventBus:    eventBus,
		eventLogger: eventLogger,
		publisher:   events.NewPublisher(eventBus),
		store:       store,
	}, nil
}

func (o *Orchestrator) Start() error {
	logger.Info("Orchestrator starting")

	if o.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if ok, err := o.db.TableExists(ctx, "transition_events"); err != nil {
			logger.Warnf("Could not verify schema: %v", err)
		} else if !ok {
			logger.Warn("Schema missing, run with -migrate to create it")
		}
	}

	o.eventLogger.Start()
	return nil
}

func (o *Orchestrator) Stop() {
	logger.Info("Orchestrator stopping")
	o.eventLogger.Stop()
	o.eventBus.Close()
	logger.Info("Orchestrator stopped")
}

func (o *Orchestrator) Engine() *engine.Engine {
	return o.engine
}

func (o *Orchestrator) SubscribeAllEvents() <-chan *models.Event {
	return o.eventBus.SubscribeAll()
}

// EvaluateFeed folds every unit in the feed through the engine, emits
// transition events, records runtime counters and writes the roster
// artifact.
func (o *Orchestrator) EvaluateFeed(feed models.Feed, source string) (models.Roster, error) {
	o.publisher.FeedLoaded(source, len(feed.Snapshots), len(feed.Units()))

	roster, results, err := runner.BuildRoster(o.engine, feed)
	if err != nil {
		o.publisher.Error("", "Feed evaluation failed", err)
		return models.Roster{}, fmt.Errorf("feed evaluation failed: %w", err)
	}

	reg := metrics.Get()
	reg.AddSnapshots(len(feed.Snapshots))

	stateCount := make(map[models.UnitState]int)
	for unit, res := range results {
		reg.IncUnitsEvaluated()
		stateCount[res.Final.State]++
		o.publisher.UnitEvaluated(unit, res.Status())
		for _, ev := range res.Events {
			reg.IncTransition(ev.Type)
			o.publisher.UnitTransitioned(unit, ev, res.Final)
		}
	}
	reg.SetRoster(roster.Count, stateCount)

	o.publisher.RosterBuilt(roster)

	if err := o.store.WriteRoster(roster); err != nil {
		return models.Roster{}, err
	}

	o.mu.Lock()
	o.lastRoster = &roster
	o.mu.Unlock()

	return roster, nil
}

// RunScenarios executes the scenario suite plus the metrics aggregation
// pass and writes both report artifacts. unitTests may be nil.
func (o *Orchestrator) RunScenarios(scenarios []models.Scenario, unitTests *models.UnitTestSummary) (models.ScenarioReport, models.MetricsReport, error) {
	suite := simulator.New(o.engine, scenarios)

	report, err := suite.Run()
	if err != nil {
		o.publisher.Error("", "Scenario suite failed", err)
		return models.ScenarioReport{}, models.MetricsReport{}, err
	}

	metricsReport, err := metrics.NewAggregator(o.engine).Aggregate(suite.Scenarios(), unitTests)
	if err != nil {
		return models.ScenarioReport{}, models.MetricsReport{}, err
	}

	metrics.Get().IncScenarioRuns()
	o.publisher.ScenarioSuiteRun(report.Summary)

	if err := o.store.WriteScenarioReport(report); err != nil {
		return models.ScenarioReport{}, models.MetricsReport{}, err
	}
	if err := o.store.WriteMetricsReport(metricsReport); err != nil {
		return models.ScenarioReport{}, models.MetricsReport{}, err
	}

	o.mu.Lock()
	o.lastReport = &report
	o.mu.Unlock()

	return report, metricsReport, nil
}

// LastRoster returns the most recent roster, if one was built.
func (o *Orchestrator) LastRoster() *models.Roster {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastRoster
}

// LastScenarioReport returns the most recent scenario report, if any.
func (o *Orchestrator) LastScenarioReport() *models.ScenarioReport {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastReport
}
