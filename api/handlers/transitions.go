package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/coveragewatch/coverage-sentinel/pkg/database/queries"
	"github.com/gin-gonic/gin"
)

// TransitionsHandler serves persisted transition events.
type TransitionsHandler struct {
	transitionRepo *queries.TransitionRepository
}

func NewTransitionsHandler(transitionRepo *queries.TransitionRepository) *TransitionsHandler {
	return &TransitionsHandler{transitionRepo: transitionRepo}
}

func (h *TransitionsHandler) GetRecent(c *gin.Context) {
	if h.transitionRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transition history requires a database"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	events, err := h.transitionRepo.GetRecent(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transitions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(events), "transitions": events})
}

func (h *TransitionsHandler) GetByUnit(c *gin.Context) {
	if h.transitionRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transition history requires a database"})
		return
	}

	unit := c.Param("unit")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))

	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	events, err := h.transitionRepo.GetByUnit(ctx, unit, from, to, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transitions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit, "transitions": events})
}

func (h *TransitionsHandler) GetCounts(c *gin.Context) {
	if h.transitionRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transition history requires a database"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	counts, err := h.transitionRepo.CountByType(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count transitions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts})
}
