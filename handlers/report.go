package handlers

import (
	"net/http"
	"strconv"

	"marketpulse/models"
	"marketpulse/services/report"

	"github.com/gin-gonic/gin"
)

// GenerateReportHandler composes a report document without exporting it.
func GenerateReportHandler(svc report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		var opts models.ReportOptions
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
		doc, err := svc.Generate(c.Request.Context(), providerID, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// ExportReportHandler generates and serializes a report to a stored file.
func ExportReportHandler(svc report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		var opts models.ReportOptions
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
		result, err := svc.Export(c.Request.Context(), providerID, opts.Format, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		status := http.StatusOK
		if result.FilePath == "" {
			// Artifact row exists but serialization degraded; the client can
			// retry from history.
			status = http.StatusAccepted
		}
		c.JSON(status, result)
	}
}

// ScheduleReportHandler registers a recurring report.
func ScheduleReportHandler(svc report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		var body struct {
			models.ScheduleConfig
			models.ReportOptions
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
		schedule, err := svc.Schedule(c.Request.Context(), providerID, body.ScheduleConfig, body.ReportOptions)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, schedule)
	}
}

// CancelScheduleHandler deactivates one of the provider's schedules.
func CancelScheduleHandler(svc report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		scheduleID := c.Param("id")
		if err := svc.CancelSchedule(c.Request.Context(), scheduleID, providerID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cancelled": true})
	}
}

// ReportByIDHandler fetches one generated report with its derived status.
func ReportByIDHandler(svc report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		entry, err := svc.Artifact(c.Request.Context(), c.Param("id"), providerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// ReportHistoryHandler pages past artifacts and lists active schedules.
func ReportHistoryHandler(svc report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := providerIDFrom(c)
		if !ok {
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		filter := report.HistoryFilter{
			ReportType: models.ReportType(c.Query("report_type")),
			Page:       page,
			Limit:      limit,
		}
		history, err := svc.History(c.Request.Context(), providerID, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, history)
	}
}
