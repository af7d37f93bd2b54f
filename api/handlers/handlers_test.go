package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveragewatch/coverage-sentinel/internal/orchestrator"
	"github.com/coveragewatch/coverage-sentinel/pkg/config"
	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestOrchestrator(t *testing.T) *orchestrator.Orchestrator {
	t.Helper()

	cfg := &config.Config{
		App:       config.AppConfig{Name: "test", Mode: "test", LogLevel: "error"},
		Engine:    models.DefaultParams(),
		Artifacts: config.ArtifactsConfig{Dir: filepath.Join(t.TempDir(), "artifacts")},
		Events:    config.EventsConfig{BufferSize: 10},
	}

	orch, err := orchestrator.New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, orch.Start())
	t.Cleanup(orch.Stop)
	return orch
}

func TestHealthHandler_WithoutDatabase(t *testing.T) {
	router := gin.New()
	h := NewHealthHandler(nil)
	router.GET("/health", h.Health)
	router.GET("/health/ready", h.Ready)
	router.GET("/health/live", h.Live)

	for _, path := range []string{"/health", "/health/ready", "/health/live"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "disabled", resp.Checks["database"])
}

func TestRosterHandler(t *testing.T) {
	orch := newTestOrchestrator(t)
	router := gin.New()
	router.GET("/roster", NewRosterHandler(orch, nil).GetRoster)

	// Nothing evaluated yet.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roster", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	feed := models.Feed{Snapshots: []models.Snapshot{
		{Unit: "checkout-flow", Ratio: 0.49, TS: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	_, err := orch.EvaluateFeed(feed, "test")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roster", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var roster models.Roster
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roster))
	assert.Equal(t, 1, roster.Count)
	assert.Equal(t, "checkout-flow", roster.Units[0].Unit)
}

func TestScenariosHandler(t *testing.T) {
	orch := newTestOrchestrator(t)
	router := gin.New()
	h := NewScenariosHandler(orch)
	router.GET("/scenarios/report", h.GetReport)
	router.POST("/scenarios/run", h.Run)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scenarios/report", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scenarios/run", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scenarios/report", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var report models.ScenarioReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, report.Summary.ScenariosTotal, report.Summary.ScenariosPass)
}

func TestTransitionsHandler_WithoutDatabase(t *testing.T) {
	router := gin.New()
	h := NewTransitionsHandler(nil)
	router.GET("/transitions", h.GetRecent)
	router.GET("/transitions/counts", h.GetCounts)
	router.GET("/units/:unit/transitions", h.GetByUnit)

	for _, path := range []string{"/transitions", "/transitions/counts", "/units/checkout-flow/transitions"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestMetricsHandler(t *testing.T) {
	router := gin.New()
	router.GET("/metrics", NewMetricsHandler().GetMetrics)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Contains(t, snap, "snapshots_processed")
	assert.Contains(t, snap, "roster_size")
}

func TestAuthHandler_WithoutDatabase(t *testing.T) {
	router := gin.New()
	router.POST("/auth/login", NewAuthHandler(nil, nil, time.Hour).Login)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, newJSONRequest(t, "/auth/login", `{"username": "operator", "password": "Sup3r$ecret"}`))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, newJSONRequest(t, "/auth/login", `{"username": "operator"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func newJSONRequest(t *testing.T, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
