package events

import (
	"context"
	"database/sql"

	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/pkg/database"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// EventLogger subscribes to the bus, writes structured logs for every
// event and persists transitions and rosters when a database is
// configured (db may be nil).
type EventLogger struct {
	db        *database.DB
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewEventLogger(db *database.DB, eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		db:        db,
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (l *EventLogger) Start() {
	go l.run()
}

func (l *EventLogger) Stop() {
	l.cancel()
}

func (l *EventLogger) run() {
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"unit":       event.Unit,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	if l.db == nil {
		return
	}

	switch event.Type {
	case models.EventTypeUnitTransitioned:
		l.persistTransition(event)
	case models.EventTypeRosterBuilt:
		l.persistRoster(event)
	}
}

func (l *EventLogger) persistTransition(event *models.Event) {
	payload, ok := event.Data.(*TransitionPayload)
	if !ok {
		return
	}

	query := `
		INSERT INTO transition_events
			(unit, transition_type, reason, window_snapshots, snapshot_index, ratio, snapshot_ts, state_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := l.db.ExecContext(l.ctx, query,
		payload.Transition.Unit,
		payload.Transition.Type,
		payload.Transition.Reason,
		payload.Transition.Window,
		payload.Transition.Index,
		payload.Transition.Ratio,
		payload.Transition.Timestamp,
		payload.State.State,
	)

	if err != nil {
		logger.Errorf("Failed to persist transition event: %v", err)
	}
}

func (l *EventLogger) persistRoster(event *models.Event) {
	roster, ok := event.Data.(models.Roster)
	if !ok {
		return
	}

	query := `
		INSERT INTO roster_entries (generated_at, params_version, unit, state, last_ratio, last_ts)
		VALUES ($1, $2, $3, $4, $5, $6)`

	// All rows of one roster land atomically.
	err := l.db.WithTransaction(l.ctx, func(tx *sql.Tx) error {
		for _, u := range roster.Units {
			_, err := tx.ExecContext(l.ctx, query,
				roster.GeneratedAt,
				roster.ParamsVersion,
				u.Unit,
				u.State,
				u.LastRatio,
				u.LastTS,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf("Failed to persist roster: %v", err)
	}
}
