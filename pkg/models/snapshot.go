package models

import "time"

// Snapshot is one timestamped ratio measurement for a unit.
type Snapshot struct {
	Unit  string    `json:"unit"`
	Ratio float64   `json:"ratio"`
	TS    time.Time `json:"ts"`
}

// Feed is an ordered-by-arrival list of snapshots across many units,
// typically one day's worth of measurements.
type Feed struct {
	Snapshots []Snapshot `json:"snapshots"`
}

// ByUnit partitions the feed per unit, preserving arrival order within
// each unit (the sequence runner sorts by timestamp before folding).
func (f Feed) ByUnit() map[string][]Snapshot {
	out := make(map[string][]Snapshot)
	for _, s := range f.Snapshots {
		out[s.Unit] = append(out[s.Unit], s)
	}
	return out
}

// Units returns the distinct unit names in first-appearance order.
func (f Feed) Units() []string {
	seen := make(map[string]bool)
	var units []string
	for _, s := range f.Snapshots {
		if !seen[s.Unit] {
			seen[s.Unit] = true
			units = append(units, s.Unit)
		}
	}
	return units
}
