package routes

import (
	"nigraan/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the realtime endpoint and the demo token mint.
func RegisterAuthRoutes(r *gin.Engine, ctl *controllers.WebSocketController) {
	r.GET("/ws", ctl.HandleWebSocket)
	r.GET("/auth/token", ctl.HandleGetToken)
}
