package websocket

import (
	"context"

	"github.com/coveragewatch/coverage-sentinel/internal/events"
	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// EventBridge forwards orchestrator events to WebSocket clients.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	switch event.Type {
	case models.EventTypeUnitTransitioned:
		payload, ok := event.Data.(*events.TransitionPayload)
		if !ok {
			return
		}
		BroadcastTransition(b.hub, event.Unit, &TransitionData{
			Type:   payload.Transition.Type,
			Reason: payload.Transition.Reason,
			Window: payload.Transition.Window,
			Ratio:  payload.Transition.Ratio,
			State:  payload.State.State,
		})

	case models.EventTypeRosterBuilt:
		roster, ok := event.Data.(models.Roster)
		if !ok {
			return
		}
		BroadcastRoster(b.hub, roster)

	case models.EventTypeAlert, models.EventTypeError:
		BroadcastAlert(b.hub, event.Unit, string(event.Severity), event.Message)
	}
}
