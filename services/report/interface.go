package report

import (
	"context"
	"time"

	reportRepo "marketpulse/database/repository/report"
	"marketpulse/models"
	"marketpulse/services/analytics"
	"marketpulse/services/benchmark"
)

// Service generates, exports and schedules analytics reports.
type Service interface {
	Generate(ctx context.Context, providerID string, opts models.ReportOptions) (*models.ReportDocument, error)
	Export(ctx context.Context, providerID string, format models.ReportFormat, opts models.ReportOptions) (*models.ExportResult, error)
	Schedule(ctx context.Context, providerID string, cfg models.ScheduleConfig, opts models.ReportOptions) (*models.ScheduledReport, error)
	CancelSchedule(ctx context.Context, scheduleID, providerID string) error
	History(ctx context.Context, providerID string, filter HistoryFilter) (*models.ReportHistory, error)
	Artifact(ctx context.Context, reportID, providerID string) (*models.ReportHistoryEntry, error)
	RunScheduled(ctx context.Context, schedule models.ScheduledReport) error
}

// HistoryFilter narrows and pages the report history listing.
type HistoryFilter struct {
	ReportType models.ReportType
	Page       int
	Limit      int
}

// DefaultReportService composes the analytics and benchmarking outputs
// into persisted, exportable artifacts.
type DefaultReportService struct {
	Analytics  analytics.Service
	Benchmarks benchmark.Service
	Repo       reportRepo.ReportRepository
	Files      FileStore

	ExpiryDays int

	// Clock is swappable for tests; nil means time.Now.
	Clock func() time.Time
}

func (s *DefaultReportService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultReportService) expiry() time.Duration {
	days := s.ExpiryDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}
