package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/coveragewatch/coverage-sentinel/internal/orchestrator"
	"github.com/coveragewatch/coverage-sentinel/pkg/database/queries"
	"github.com/gin-gonic/gin"
)

// RosterHandler serves the under-served roster: the in-memory result of
// the latest evaluation, with a database fallback for history.
type RosterHandler struct {
	orch       *orchestrator.Orchestrator
	rosterRepo *queries.RosterRepository
}

func NewRosterHandler(orch *orchestrator.Orchestrator, rosterRepo *queries.RosterRepository) *RosterHandler {
	return &RosterHandler{orch: orch, rosterRepo: rosterRepo}
}

func (h *RosterHandler) GetRoster(c *gin.Context) {
	if roster := h.orch.LastRoster(); roster != nil {
		c.JSON(http.StatusOK, roster)
		return
	}

	if h.rosterRepo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no roster has been built yet"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.rosterRepo.GetLatest(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load roster"})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no roster has been built yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(records), "units": records})
}

func (h *RosterHandler) GetUnitHistory(c *gin.Context) {
	if h.rosterRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history requires a database"})
		return
	}

	unit := c.Param("unit")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.rosterRepo.GetUnitHistory(ctx, unit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load unit history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit, "history": records})
}
