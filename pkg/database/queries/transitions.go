package queries

import (
	"context"
	"database/sql"
	"time"
)

type TransitionRepository struct {
	db *sql.DB
}

func NewTransitionRepository(db *sql.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

type TransitionRecord struct {
	ID         int       `json:"id"`
	Unit       string    `json:"unit"`
	Type       string    `json:"type"`
	Reason     string    `json:"reason,omitempty"`
	Window     int       `json:"window,omitempty"`
	Index      int       `json:"index"`
	Ratio      float64   `json:"ratio"`
	SnapshotTS time.Time `json:"snapshot_ts"`
	StateAfter string    `json:"state_after"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (r *TransitionRepository) GetByUnit(ctx context.Context, unit string, from, to time.Time, limit int) ([]TransitionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, unit, transition_type, reason, window_snapshots, snapshot_index,
		       ratio, snapshot_ts, state_after, recorded_at
		FROM transition_events
		WHERE unit = $1 AND snapshot_ts >= $2 AND snapshot_ts <= $3
		ORDER BY snapshot_ts DESC
		LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, unit, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransitions(rows)
}

func (r *TransitionRepository) GetRecent(ctx context.Context, limit int) ([]TransitionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, unit, transition_type, reason, window_snapshots, snapshot_index,
		       ratio, snapshot_ts, state_after, recorded_at
		FROM transition_events
		ORDER BY recorded_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransitions(rows)
}

func (r *TransitionRepository) CountByType(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT transition_type, COUNT(*)
		FROM transition_events
		GROUP BY transition_type`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}

	return counts, rows.Err()
}

func scanTransitions(rows *sql.Rows) ([]TransitionRecord, error) {
	var records []TransitionRecord
	for rows.Next() {
		var rec TransitionRecord
		var reason sql.NullString
		err := rows.Scan(
			&rec.ID, &rec.Unit, &rec.Type, &reason, &rec.Window, &rec.Index,
			&rec.Ratio, &rec.SnapshotTS, &rec.StateAfter, &rec.RecordedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Reason = reason.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
