package feed

import (
	"math"
	"math/rand"
	"time"

	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

// Generator produces a synthetic feed for demos and load trials. Each
// unit follows a named ratio pattern around a base value. A fixed seed
// makes runs repeatable.
type Generator struct {
	Units     []GeneratedUnit
	Snapshots int
	Interval  time.Duration
	Start     time.Time
	Seed      int64
}

type GeneratedUnit struct {
	Name      string
	BaseRatio float64
	Pattern   Pattern
	Variance  float64
}

type Pattern string

const (
	PatternSteady    Pattern = "steady"
	PatternDecline   Pattern = "decline"
	PatternRecovery  Pattern = "recovery"
	PatternOscillate Pattern = "oscillate"
)

func (g *Generator) Load() (models.Feed, error) {
	snapshots := g.Snapshots
	if snapshots <= 0 {
		snapshots = 24
	}
	interval := g.Interval
	if interval == 0 {
		interval = time.Hour
	}
	start := g.Start
	if start.IsZero() {
		start = time.Now().UTC().Add(-time.Duration(snapshots) * interval)
	}

	rng := rand.New(rand.NewSource(g.Seed))

	var feed models.Feed
	for _, u := range g.Units {
		for i := 0; i < snapshots; i++ {
			progress := float64(i) / float64(snapshots)
			ratio := u.BaseRatio

			switch u.Pattern {
			case PatternDecline:
				ratio -= 0.3 * progress
			case PatternRecovery:
				ratio += 0.3 * progress
			case PatternOscillate:
				ratio += 0.08 * math.Sin(float64(i)*math.Pi/3)
			}

			if u.Variance > 0 {
				ratio += (rng.Float64()*2 - 1) * u.Variance
			}

			feed.Snapshots = append(feed.Snapshots, models.Snapshot{
				Unit:  u.Name,
				Ratio: ratio,
				TS:    start.Add(time.Duration(i) * interval),
			})
		}
	}

	if len(feed.Snapshots) == 0 {
		return models.Feed{}, ErrEmptyFeed
	}
	return feed, nil
}
