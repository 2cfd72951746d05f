package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"nigraan/internal/models"
	"nigraan/internal/services"

	"github.com/gin-gonic/gin"
)

// SafetyController exposes the threshold table and alert log.
type SafetyController struct {
	safety *services.SafetyService
}

func NewSafetyController(safety *services.SafetyService) *SafetyController {
	return &SafetyController{safety: safety}
}

// GetThresholds returns the full threshold table
func (ctl *SafetyController) GetThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.safety.Thresholds())
}

// GetThreshold returns the threshold entry for one sensor type
func (ctl *SafetyController) GetThreshold(c *gin.Context) {
	t := models.SensorType(c.Param("type"))

	th, err := ctl.safety.Threshold(t)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown sensor type: " + string(t)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": t, "threshold": th})
}

// UpdateThreshold merge-patches min/max for one sensor type
func (ctl *SafetyController) UpdateThreshold(c *gin.Context) {
	t := models.SensorType(c.Param("type"))

	var patch models.ThresholdPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	th, err := ctl.safety.UpdateThreshold(t, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownSensor):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown sensor type: " + string(t)})
		case errors.Is(err, services.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": t, "threshold": th})
}

// GetAlerts returns the bounded alert log, newest first
// Query params: type=vibration|temperature|current, limit (default: all)
func (ctl *SafetyController) GetAlerts(c *gin.Context) {
	t := models.SensorType(c.Query("type"))
	if t != "" && !t.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sensor type: " + string(t)})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	alerts := ctl.safety.Alerts(t, limit)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}
