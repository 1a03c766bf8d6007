package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"bookride/internal/handler"
	"bookride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router. TripHandler is
// nil when trip history is disabled (no database configured).
type RouterDeps struct {
	SessionHandler *handler.SessionHandler
	CatalogHandler *handler.CatalogHandler
	TripHandler    *handler.TripHandler
	WSHandler      *handler.WSHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Catalog routes.
		v1.GET("/categories", deps.CatalogHandler.GetCategories)
		v1.GET("/promotions", deps.CatalogHandler.GetPromotions)

		// Session routes.
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", deps.SessionHandler.CreateSession)
			sessions.GET("/:id", deps.SessionHandler.GetSession)
			sessions.GET("/:id/position", deps.SessionHandler.GetPosition)
			sessions.POST("/:id/route", deps.SessionHandler.SelectRoute)
			sessions.POST("/:id/category", deps.SessionHandler.SelectCategory)
			sessions.POST("/:id/promo", deps.SessionHandler.ApplyPromo)
			sessions.DELETE("/:id/promo", deps.SessionHandler.ClearPromo)
			sessions.POST("/:id/confirm", deps.SessionHandler.Confirm)
			sessions.POST("/:id/dispatch", deps.SessionHandler.Dispatch)
			sessions.POST("/:id/match", deps.SessionHandler.Match)
			sessions.POST("/:id/start", deps.SessionHandler.StartTrip)
			sessions.POST("/:id/complete", deps.SessionHandler.CompleteTrip)
			sessions.POST("/:id/cancel", deps.SessionHandler.Cancel)
			sessions.POST("/:id/reset", deps.SessionHandler.Reset)
			sessions.POST("/:id/interaction", deps.SessionHandler.Interaction)
			sessions.POST("/:id/feed", deps.SessionHandler.IngestFeed)
		}

		// Trip history routes.
		if deps.TripHandler != nil {
			trips := v1.Group("/trips")
			{
				trips.GET("", deps.TripHandler.GetAll)
				trips.GET("/:id", deps.TripHandler.GetTrip)
			}
		}
	}

	// Position streaming.
	router.GET("/ws/sessions/:id", deps.WSHandler.Stream)

	return router
}
