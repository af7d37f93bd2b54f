package handlers

import (
	"net/http"

	"github.com/coveragewatch/coverage-sentinel/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsHandler exposes the process-wide counters.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Get().Snapshot())
}
