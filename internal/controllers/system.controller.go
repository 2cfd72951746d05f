package controllers

import (
	"net/http"

	"nigraan/internal/services"

	"github.com/gin-gonic/gin"
)

// GetSystem returns backend host health for the dashboard status panel
func GetSystem(c *gin.Context) {
	status, err := services.GetHostStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Healthz is the liveness probe
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
