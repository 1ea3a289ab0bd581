package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with logging, recovery and CORS in place
func NewRouter(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		api.GET("/properties", handler.GetAllProperties)
		api.GET("/properties/map", handler.GetPropertyMap)
		api.GET("/properties/:id", handler.GetProperty)

		game := api.Group("/game")
		{
			game.GET("", handler.GetGame)
			game.POST("/begin", handler.BeginGame)
			game.POST("/renovation", handler.StartRenovation)
			game.POST("/back", handler.GoBack)
			game.PUT("/upgrades/:room", handler.SelectUpgrade)
			game.DELETE("/upgrades/:room", handler.RemoveUpgrade)
			game.POST("/results", handler.ShowResults)
			game.POST("/adjust", handler.AdjustPlan)
			game.POST("/play-again", handler.PlayAgain)
			game.POST("/submission", handler.SubmitResults)
		}

		api.GET("/player", handler.GetPlayer)
		api.GET("/notifications", handler.GetNotifications)
	}
}
