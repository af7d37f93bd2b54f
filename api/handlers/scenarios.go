package handlers

import (
	"net/http"

	"github.com/coveragewatch/coverage-sentinel/internal/orchestrator"
	"github.com/gin-gonic/gin"
)

// ScenariosHandler runs the scenario suite on demand and serves the
// latest report.
type ScenariosHandler struct {
	orch *orchestrator.Orchestrator
}

func NewScenariosHandler(orch *orchestrator.Orchestrator) *ScenariosHandler {
	return &ScenariosHandler{orch: orch}
}

func (h *ScenariosHandler) GetReport(c *gin.Context) {
	report := h.orch.LastScenarioReport()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scenario suite has been run yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ScenariosHandler) Run(c *gin.Context) {
	report, metrics, err := h.orch.RunScenarios(nil, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if report.Summary.ScenariosPass < report.Summary.ScenariosTotal {
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{"report": report, "metrics": metrics})
}
