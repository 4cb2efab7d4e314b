package handlers

import (
	"net/http"
	"strconv"

	"marketpulse/services/alert"
	"marketpulse/services/analytics"
	"marketpulse/services/benchmark"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the combined dashboard. The period query param
// defaults to 30 days.
func DashboardHandler(svc analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		period := c.DefaultQuery("period", string(analytics.Period30Days))
		view, err := svc.Dashboard(c.Request.Context(), providerID, period)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// RevenueHandler serves the revenue metric group on its own.
func RevenueHandler(svc analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		period := c.DefaultQuery("period", string(analytics.Period30Days))
		metrics, err := svc.Revenue(c.Request.Context(), providerID, period)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

// PerformanceHandler serves the performance metric group on its own.
func PerformanceHandler(svc analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		period := c.DefaultQuery("period", string(analytics.Period30Days))
		metrics, err := svc.Performance(c.Request.Context(), providerID, period)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

// CustomersHandler serves the customer metric group on its own.
func CustomersHandler(svc analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		period := c.DefaultQuery("period", string(analytics.Period30Days))
		metrics, err := svc.Customers(c.Request.Context(), providerID, period)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

// RealTimeHandler serves today-vs-yesterday counters plus the live queue,
// the currently triggered threshold alerts and the recent activity feed.
func RealTimeHandler(svc analytics.Service, alerts alert.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		metrics, err := svc.RealTime(ctx, providerID)
		if err != nil {
			respondError(c, err)
			return
		}
		queue, err := svc.Queue(ctx, providerID)
		if err != nil {
			respondError(c, err)
			return
		}
		triggered, err := alerts.CheckThresholds(ctx, providerID)
		if err != nil {
			respondError(c, err)
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("activity_limit", "10"))
		activity, err := svc.RecentActivity(ctx, providerID, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"metrics":  metrics,
			"queue":    queue,
			"alerts":   triggered,
			"activity": activity,
		})
	}
}

// BasicMetricsHandler serves the cached snapshot. refresh=true bypasses
// the cache and recomputes.
func BasicMetricsHandler(svc analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		force := c.Query("refresh") == "true"
		metrics, err := svc.BasicMetrics(c.Request.Context(), providerID, force)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

// InvalidateMetricsHandler marks the provider's snapshot stale.
func InvalidateMetricsHandler(svc analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		if err := svc.InvalidateBasicMetrics(c.Request.Context(), providerID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invalidated": true})
	}
}

// BenchmarksHandler serves the full benchmark report.
func BenchmarksHandler(svc benchmark.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		report, err := svc.Benchmarks(c.Request.Context(), providerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// AlertsHandler evaluates the provider's active thresholds now.
func AlertsHandler(svc alert.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		triggered, err := svc.CheckThresholds(c.Request.Context(), providerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"alerts": triggered, "count": len(triggered)})
	}
}
