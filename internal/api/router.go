package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gflcollect/boxes-backend-go/internal/config"
	"github.com/gflcollect/boxes-backend-go/internal/handler"
	"github.com/gflcollect/boxes-backend-go/internal/middleware"
	"github.com/gflcollect/boxes-backend-go/internal/service"
)

// SetupRouter wires all HTTP routes.
func SetupRouter(cfg *config.Config, optimizer *service.OptimizerService, export *service.ExportService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateLimitWindow))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	recommendationHandler := handler.NewRecommendationHandler(optimizer, export)
	boxHandler := handler.NewBoxHandler(optimizer)
	visitHandler := handler.NewVisitHandler(optimizer)
	statsHandler := handler.NewStatsHandler(optimizer)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Box Collection API is running",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/recommendations", recommendationHandler.GetRecommendations)
		api.GET("/recommendations/export", recommendationHandler.ExportRecommendations)

		api.GET("/boxes", boxHandler.ListBoxes)
		api.GET("/boxes/:id", boxHandler.GetBox)

		api.GET("/visits", visitHandler.ListVisited)
		api.GET("/visits/events", visitHandler.ListEvents)
		api.GET("/stats", statsHandler.GetStats)

		// Mutating routes run one at a time against the shared state.
		mutating := api.Group("")
		mutating.Use(middleware.SingleWriter())
		{
			mutating.POST("/visits", visitHandler.RecordVisit)

			admin := mutating.Group("")
			admin.Use(middleware.AdminAuth(cfg.JWTSecret))
			{
				admin.DELETE("/visits", visitHandler.ResetVisits)
				admin.POST("/boxes", boxHandler.CreateBox)
				admin.PUT("/boxes/:id", boxHandler.UpdateBox)
				admin.DELETE("/boxes/:id", boxHandler.DeleteBox)
			}
		}
	}

	return r
}
