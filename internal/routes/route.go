package routes

import (
	"github.com/gin-gonic/gin"

	"intersect_api/internal/handlers"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(r *gin.Engine, chat *handlers.ChatHandler, health *handlers.HealthHandler, ws *handlers.WSHandler) {
	r.GET("/", health.HandleRoot)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/chat", chat.HandleChat)
		v1.DELETE("/chat/:conversation_id", chat.HandleDelete)
		v1.GET("/health", health.HandleHealth)
		v1.GET("/stats", health.HandleStats)
		v1.GET("/ws", ws.HandleWebSocket)
	}
}
