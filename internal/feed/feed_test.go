package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLoader_Document(t *testing.T) {
	path := writeFeedFile(t, `{"snapshots": [
		{"unit": "billing-core", "ratio": 0.55, "ts": "2026-03-01T00:00:00Z"},
		{"unit": "auth-gateway", "ratio": 0.72, "ts": "2026-03-01T01:00:00Z"}
	]}`)

	feed, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	require.Len(t, feed.Snapshots, 2)
	assert.Equal(t, "billing-core", feed.Snapshots[0].Unit)
	assert.Equal(t, 0.55, feed.Snapshots[0].Ratio)
	assert.Equal(t, []string{"billing-core", "auth-gateway"}, feed.Units())
}

func TestFileLoader_BareArray(t *testing.T) {
	path := writeFeedFile(t, `[
		{"unit": "billing-core", "ratio": 0.55, "ts": "2026-03-01T00:00:00Z"}
	]`)

	feed, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	require.Len(t, feed.Snapshots, 1)
}

func TestFileLoader_Empty(t *testing.T) {
	path := writeFeedFile(t, `{"snapshots": []}`)

	_, err := NewFileLoader(path).Load()
	assert.ErrorIs(t, err, ErrEmptyFeed)
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.json")).Load()
	assert.Error(t, err)
}

func TestFileLoader_Malformed(t *testing.T) {
	path := writeFeedFile(t, `{"snapshots": [`)

	_, err := NewFileLoader(path).Load()
	assert.Error(t, err)
}

func TestFileLoader_RejectsBadUnitName(t *testing.T) {
	path := writeFeedFile(t, `{"snapshots": [
		{"unit": "", "ratio": 0.55, "ts": "2026-03-01T00:00:00Z"}
	]}`)

	_, err := NewFileLoader(path).Load()
	assert.Error(t, err)
}

func TestGenerator_Deterministic(t *testing.T) {
	gen := &Generator{
		Units: []GeneratedUnit{
			{Name: "checkout-flow", BaseRatio: 0.70, Pattern: PatternDecline, Variance: 0.02},
			{Name: "search-index", BaseRatio: 0.57, Pattern: PatternOscillate, Variance: 0.01},
		},
		Snapshots: 10,
		Interval:  time.Hour,
		Start:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Seed:      42,
	}

	first, err := gen.Load()
	require.NoError(t, err)
	second, err := gen.Load()
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must yield the same feed")
	assert.Len(t, first.Snapshots, 20)
	assert.Equal(t, []string{"checkout-flow", "search-index"}, first.Units())
}

func TestGenerator_DeclinePatternFalls(t *testing.T) {
	gen := &Generator{
		Units:     []GeneratedUnit{{Name: "u", BaseRatio: 0.70, Pattern: PatternDecline}},
		Snapshots: 10,
		Start:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	feed, err := gen.Load()
	require.NoError(t, err)
	assert.Greater(t, feed.Snapshots[0].Ratio, feed.Snapshots[9].Ratio)
}

func TestGenerator_NoUnits(t *testing.T) {
	_, err := (&Generator{}).Load()
	assert.ErrorIs(t, err, ErrEmptyFeed)
}
