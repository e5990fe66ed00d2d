package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP router consumed by the coaching UI.
func NewRouter(moveApi *MoveApi) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", Health)
	router.POST("/api/move", moveApi.Move)
	router.GET("/api/levels", moveApi.Levels)
	router.GET("/api/game/:game_id/telemetry", moveApi.GameTelemetry)

	return router
}
