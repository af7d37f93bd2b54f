package events

import (
	"fmt"

	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) FeedLoaded(source string, snapshotCount, unitCount int) {
	msg := fmt.Sprintf("Feed loaded: %d snapshots across %d units", snapshotCount, unitCount)
	event := models.NewEvent(models.EventTypeFeedLoaded, "", msg).
		WithData(map[string]interface{}{
			"source":    source,
			"snapshots": snapshotCount,
			"units":     unitCount,
		})
	p.publish(event)
}

func (p *Publisher) UnitEvaluated(unit string, status models.UnitStatus) {
	event := models.NewEvent(models.EventTypeUnitEvaluated, unit, "Unit evaluated").
		WithData(status)
	p.publish(event)
}

// TransitionPayload is the data carried by unit_transitioned events.
type TransitionPayload struct {
	Transition models.TransitionEvent `json:"transition"`
	State      models.EngineState     `json:"state"`
}

func (p *Publisher) UnitTransitioned(unit string, transition models.TransitionEvent, state models.EngineState) {
	msg := fmt.Sprintf("Unit transitioned: %s", transition.Type)
	event := models.NewEvent(models.EventTypeUnitTransitioned, unit, msg).
		WithData(&TransitionPayload{Transition: transition, State: state})

	switch transition.Type {
	case models.TransitionEnter, models.TransitionReenter:
		event.WithSeverity(models.SeverityCritical)
	case models.TransitionStall:
		event.WithSeverity(models.SeverityWarning)
	}

	p.publish(event)
}

func (p *Publisher) RosterBuilt(roster models.Roster) {
	msg := fmt.Sprintf("Roster built: %d of %d units under-served", roster.Count, roster.UnitsEvaluated)
	event := models.NewEvent(models.EventTypeRosterBuilt, "", msg).
		WithData(roster)

	if roster.Count > 0 {
		event.WithSeverity(models.SeverityWarning)
	}

	p.publish(event)
}

func (p *Publisher) ScenarioSuiteRun(summary models.ScenarioSummary) {
	msg := fmt.Sprintf("Scenario suite: %d/%d passed", summary.ScenariosPass, summary.ScenariosTotal)
	event := models.NewEvent(models.EventTypeScenarioSuiteRun, "", msg).
		WithData(summary)

	if summary.ScenariosPass < summary.ScenariosTotal {
		event.WithSeverity(models.SeverityWarning)
	}

	p.publish(event)
}

func (p *Publisher) Alert(unit string, severity models.EventSeverity, message string, data interface{}) {
	event := models.NewEvent(models.EventTypeAlert, unit, message).
		WithSeverity(severity).
		WithData(data)
	p.publish(event)
}

func (p *Publisher) Error(unit string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, unit, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
