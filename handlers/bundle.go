package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Analytics endpoints
	DashboardHandler         gin.HandlerFunc
	RevenueHandler           gin.HandlerFunc
	PerformanceHandler       gin.HandlerFunc
	CustomersHandler         gin.HandlerFunc
	RealTimeHandler          gin.HandlerFunc
	BasicMetricsHandler      gin.HandlerFunc
	InvalidateMetricsHandler gin.HandlerFunc
	BenchmarksHandler        gin.HandlerFunc
	AlertsHandler            gin.HandlerFunc

	// Report endpoints
	GenerateReportHandler gin.HandlerFunc
	ExportReportHandler   gin.HandlerFunc
	ScheduleReportHandler gin.HandlerFunc
	CancelScheduleHandler gin.HandlerFunc
	ReportHistoryHandler  gin.HandlerFunc
	ReportByIDHandler     gin.HandlerFunc
}
