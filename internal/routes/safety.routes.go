package routes

import (
	"nigraan/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterSafetyRoutes(r *gin.Engine, ctl *controllers.SafetyController) {
	api := r.Group("/api")
	{
		api.GET("/thresholds", ctl.GetThresholds)
		api.GET("/thresholds/:type", ctl.GetThreshold)
		api.PUT("/thresholds/:type", ctl.UpdateThreshold)
		api.GET("/alerts", ctl.GetAlerts)
	}
}
