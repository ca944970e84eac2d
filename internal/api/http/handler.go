package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"checkers-server/internal/config"
	"checkers-server/internal/room"
)

// HealthHandler reports liveness plus the live room count.
func HealthHandler(mgr *room.Manager, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"active_rooms": mgr.RoomCount(),
			"environment":  cfg.Env,
		})
	}
}

// RootHandler points clients at the websocket endpoint.
func RootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":        "Checkers Multiplayer API",
			"version":        "1.0.0",
			"websocket_path": "/ws",
		})
	}
}
