package controllers

import (
	"net/http"
	"strconv"
	"time"

	"nigraan/internal/config"
	"nigraan/internal/models"
	"nigraan/internal/services"

	"github.com/gin-gonic/gin"
)

// SensorsController serves the sensor catalogue, latest readings and history.
type SensorsController struct {
	history *services.HistoryService
	sensors config.SensorsConfig
}

func NewSensorsController(history *services.HistoryService, sensors config.SensorsConfig) *SensorsController {
	return &SensorsController{history: history, sensors: sensors}
}

// GetSensors returns the static sensor catalogue the dashboard builds its
// gauges from
func (ctl *SensorsController) GetSensors(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.sensors)
}

// GetLatest returns the most recent reading per sensor. Before the first
// tick lands it synthesizes base-value placeholders so the dashboard never
// renders empty gauges.
func (ctl *SensorsController) GetLatest(c *gin.Context) {
	latest := ctl.history.Latest()
	if len(latest) == 0 {
		now := time.Now().Format(time.RFC3339)
		latest = make(map[models.SensorType]models.Reading, len(ctl.sensors))
		for t, sc := range ctl.sensors {
			latest[t] = models.Reading{
				Value:     sc.BaseValue,
				Unit:      sc.Unit,
				Timestamp: now,
			}
		}
	}
	c.JSON(http.StatusOK, latest)
}

// GetHistory returns recent history entries, newest first
// Query params: type=vibration|temperature|current, limit (server-capped)
func (ctl *SensorsController) GetHistory(c *gin.Context) {
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

	entries := ctl.history.Query(t, limit)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"history": entries,
	})
}
