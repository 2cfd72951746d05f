package routes

import (
	"nigraan/internal/controllers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterSystemRoutes(r *gin.Engine, reg *prometheus.Registry) {
	r.GET("/api/system", controllers.GetSystem)
	r.GET("/healthz", controllers.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}
