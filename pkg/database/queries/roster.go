package queries

import (
	"context"
	"database/sql"
	"time"
)

type RosterRepository struct {
	db *sql.DB
}

func NewRosterRepository(db *sql.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

type RosterRecord struct {
	ID            int       `json:"id"`
	GeneratedAt   time.Time `json:"generated_at"`
	ParamsVersion string    `json:"params_version,omitempty"`
	Unit          string    `json:"unit"`
	State         string    `json:"state"`
	LastRatio     float64   `json:"last_ratio"`
	LastTS        time.Time `json:"last_ts"`
}

// GetLatest returns the most recently generated roster, if any.
func (r *RosterRepository) GetLatest(ctx context.Context) ([]RosterRecord, error) {
	query := `
		SELECT id, generated_at, params_version, unit, state, last_ratio, last_ts
		FROM roster_entries
		WHERE generated_at = (SELECT MAX(generated_at) FROM roster_entries)
		ORDER BY unit`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoster(rows)
}

func (r *RosterRepository) GetUnitHistory(ctx context.Context, unit string, limit int) ([]RosterRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, generated_at, params_version, unit, state, last_ratio, last_ts
		FROM roster_entries
		WHERE unit = $1
		ORDER BY generated_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, unit, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoster(rows)
}

func scanRoster(rows *sql.Rows) ([]RosterRecord, error) {
	var records []RosterRecord
	for rows.Next() {
		var rec RosterRecord
		var version sql.NullString
		err := rows.Scan(
			&rec.ID, &rec.GeneratedAt, &version, &rec.Unit,
			&rec.State, &rec.LastRatio, &rec.LastTS,
		)
		if err != nil {
			return nil, err
		}
		rec.ParamsVersion = version.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
