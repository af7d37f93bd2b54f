package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

func receive(t *testing.T, ch <-chan *models.Event) *models.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestEventBus_SubscribeByType(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	rosterCh := bus.Subscribe(models.EventTypeRosterBuilt)
	alertCh := bus.Subscribe(models.EventTypeAlert)

	bus.Publish(models.NewEvent(models.EventTypeRosterBuilt, "", "roster"))

	ev := receive(t, rosterCh)
	assert.Equal(t, models.EventTypeRosterBuilt, ev.Type)

	select {
	case <-alertCh:
		t.Fatal("alert subscriber must not see roster events")
	default:
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	all := bus.SubscribeAll()

	bus.Publish(models.NewEvent(models.EventTypeFeedLoaded, "", "feed"))
	bus.Publish(models.NewEvent(models.EventTypeAlert, "u", "alert"))

	assert.Equal(t, models.EventTypeFeedLoaded, receive(t, all).Type)
	assert.Equal(t, models.EventTypeAlert, receive(t, all).Type)
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	ch := bus.Subscribe(models.EventTypeAlert)

	bus.Publish(models.NewEvent(models.EventTypeAlert, "u", "first"))
	bus.Publish(models.NewEvent(models.EventTypeAlert, "u", "second"))

	assert.Equal(t, "first", receive(t, ch).Message)
	select {
	case ev := <-ch:
		t.Fatalf("expected overflow drop, got %q", ev.Message)
	default:
	}
}

func TestEventBus_PublishAfterClose(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.SubscribeAll()
	bus.Close()

	// Must not panic; the subscriber channel is closed.
	bus.Publish(models.NewEvent(models.EventTypeAlert, "u", "late"))

	_, open := <-ch
	assert.False(t, open)
}

func TestPublisher_UnitTransitionedSeverity(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(models.EventTypeUnitTransitioned)

	pub := NewPublisher(bus)
	state := models.EngineState{State: models.StateActive}

	pub.UnitTransitioned("checkout-flow", models.TransitionEvent{Type: models.TransitionEnter}, state)
	ev := receive(t, ch)
	assert.Equal(t, models.SeverityCritical, ev.Severity)
	assert.Equal(t, "checkout-flow", ev.Unit)

	payload, ok := ev.Data.(*TransitionPayload)
	require.True(t, ok)
	assert.Equal(t, models.TransitionEnter, payload.Transition.Type)
	assert.Equal(t, models.StateActive, payload.State.State)

	pub.UnitTransitioned("checkout-flow", models.TransitionEvent{Type: models.TransitionStall}, state)
	assert.Equal(t, models.SeverityWarning, receive(t, ch).Severity)

	pub.UnitTransitioned("checkout-flow", models.TransitionEvent{Type: models.TransitionExit}, state)
	assert.Equal(t, models.SeverityInfo, receive(t, ch).Severity)
}

func TestPublisher_RosterSeverity(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(models.EventTypeRosterBuilt)

	pub := NewPublisher(bus)

	pub.RosterBuilt(models.Roster{UnitsEvaluated: 3})
	assert.Equal(t, models.SeverityInfo, receive(t, ch).Severity)

	pub.RosterBuilt(models.Roster{UnitsEvaluated: 3, Count: 1})
	assert.Equal(t, models.SeverityWarning, receive(t, ch).Severity)
}

func TestPublisher_WithTraceID(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(models.EventTypeError)

	NewPublisher(bus).
		WithTraceID("trace-123").
		Error("billing-core", "evaluation failed", errors.New("boom"))

	ev := receive(t, ch)
	assert.Equal(t, "trace-123", ev.TraceID)
	assert.Equal(t, models.SeverityCritical, ev.Severity)
}
