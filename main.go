package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketpulse/config"
	"marketpulse/cron"
	"marketpulse/database"
	paymentRepoPkg "marketpulse/database/repository/payment"
	ratingRepoPkg "marketpulse/database/repository/rating"
	reportRepoPkg "marketpulse/database/repository/report"
	snapshotRepoPkg "marketpulse/database/repository/snapshot"
	thresholdRepoPkg "marketpulse/database/repository/threshold"
	workorderRepoPkg "marketpulse/database/repository/workorder"
	"marketpulse/handlers"
	"marketpulse/middleware"
	"marketpulse/routes"
	"marketpulse/services/alert"
	"marketpulse/services/analytics"
	"marketpulse/services/benchmark"
	"marketpulse/services/report"
	"marketpulse/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	workOrderRepo := workorderRepoPkg.NewMongoWorkOrderRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	ratingRepo := ratingRepoPkg.NewMongoRatingRepo()
	snapshotRepo := snapshotRepoPkg.NewMongoSnapshotRepo()
	thresholdRepo := thresholdRepoPkg.NewMongoThresholdRepo()
	reportRepo := reportRepoPkg.NewMongoReportRepo()

	// services.
	analyticsService := &analytics.DefaultAnalyticsService{
		WorkOrders:  workOrderRepo,
		Payments:    paymentRepo,
		Ratings:     ratingRepo,
		Snapshots:   snapshotRepo,
		CacheTTL:    time.Duration(config.AppConfig.MetricsCacheTTLMin) * time.Minute,
		MonthlySpan: config.AppConfig.MonthlyComparisonSpan,
	}

	benchmarkService := &benchmark.DefaultBenchmarkService{
		WorkOrders: workOrderRepo,
		Analytics:  analyticsService,
		Cache: &benchmark.RedisAveragesCache{
			Client: utils.GetCacheClient(),
			TTL:    time.Duration(config.AppConfig.MetricsCacheTTLMin) * time.Minute,
		},
		MinWorkOrders: config.AppConfig.MinWorkOrderSample,
		MinRated:      config.AppConfig.MinRatingSample,
	}

	alertService := &alert.DefaultAlertService{
		Thresholds: thresholdRepo,
		Analytics:  analyticsService,
	}

	reportService := &report.DefaultReportService{
		Analytics:  analyticsService,
		Benchmarks: benchmarkService,
		Repo:       reportRepo,
		Files:      report.NewLocalFileStore(config.AppConfig.ReportStorageDir),
		ExpiryDays: config.AppConfig.ReportExpiryDays,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Analytics endpoints.
		DashboardHandler:         handlers.DashboardHandler(analyticsService),
		RevenueHandler:           handlers.RevenueHandler(analyticsService),
		PerformanceHandler:       handlers.PerformanceHandler(analyticsService),
		CustomersHandler:         handlers.CustomersHandler(analyticsService),
		RealTimeHandler:          handlers.RealTimeHandler(analyticsService, alertService),
		BasicMetricsHandler:      handlers.BasicMetricsHandler(analyticsService),
		InvalidateMetricsHandler: handlers.InvalidateMetricsHandler(analyticsService),
		BenchmarksHandler:        handlers.BenchmarksHandler(benchmarkService),
		AlertsHandler:            handlers.AlertsHandler(alertService),

		// Report endpoints.
		GenerateReportHandler: handlers.GenerateReportHandler(reportService),
		ExportReportHandler:   handlers.ExportReportHandler(reportService),
		ScheduleReportHandler: handlers.ScheduleReportHandler(reportService),
		CancelScheduleHandler: handlers.CancelScheduleHandler(reportService),
		ReportHistoryHandler:  handlers.ReportHistoryHandler(reportService),
		ReportByIDHandler:     handlers.ReportByIDHandler(reportService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the scheduled report worker.
	cron.InitReportWorker(reportService, reportRepo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
