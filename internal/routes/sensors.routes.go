package routes

import (
	"nigraan/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterSensorRoutes(r *gin.Engine, ctl *controllers.SensorsController) {
	api := r.Group("/api")
	{
		api.GET("/sensors", ctl.GetSensors)
		api.GET("/readings/latest", ctl.GetLatest)
		api.GET("/readings/history", ctl.GetHistory)
	}
}
