package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"checkers-server/internal/api/ws"
	"checkers-server/internal/config"
	"checkers-server/internal/room"
)

func NewRouter(mgr *room.Manager, hub *ws.Hub, cfg config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	// Live game traffic
	r.GET("/ws", hub.HandleWS)

	// Status endpoints
	r.GET("/health", HealthHandler(mgr, cfg))
	r.GET("/", RootHandler())

	return r
}
