package routes

import (
	"net/http"
	"time"

	"marketpulse/handlers"
	"marketpulse/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAnalyticsRoutes registers the metrics and benchmarking endpoints.
func RegisterAnalyticsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/analytics")
	{
		// All analytics endpoints require provider authentication.
		api.Use(middleware.JWTAuthProviderMiddleware())
		api.GET("/dashboard", hb.DashboardHandler)
		api.GET("/revenue", hb.RevenueHandler)
		api.GET("/performance", hb.PerformanceHandler)
		api.GET("/customers", hb.CustomersHandler)
		api.GET("/realtime", hb.RealTimeHandler)
		api.GET("/basic", hb.BasicMetricsHandler)
		api.DELETE("/basic", hb.InvalidateMetricsHandler)
		api.GET("/benchmarks", hb.BenchmarksHandler)
		api.GET("/alerts", hb.AlertsHandler)
	}
}

// RegisterReportRoutes registers report generation and scheduling endpoints.
func RegisterReportRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reports")
	{
		api.Use(middleware.JWTAuthProviderMiddleware())
		api.POST("/generate", hb.GenerateReportHandler)
		api.POST("/export", hb.ExportReportHandler)
		api.POST("/schedule", hb.ScheduleReportHandler)
		api.DELETE("/schedule/:id", hb.CancelScheduleHandler)
		api.GET("/history", hb.ReportHistoryHandler)
		api.GET("/history/:id", hb.ReportByIDHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Marketpulse"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAnalyticsRoutes(r, hb)
	RegisterReportRoutes(r, hb)
	RegisterHealthRoute(r)
}
