package report

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	reportRepo "marketpulse/database/repository/report"
	"marketpulse/models"
	"marketpulse/services/analytics"
	"marketpulse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validFrequencies = map[models.ScheduleFrequency]bool{
	models.FrequencyDaily:   true,
	models.FrequencyWeekly:  true,
	models.FrequencyMonthly: true,
}

// nextRunAfter advances one frequency step from a run date. Monthly
// steps use calendar months so the 15th stays the 15th.
func nextRunAfter(from time.Time, freq models.ScheduleFrequency) time.Time {
	switch freq {
	case models.FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// Schedule registers a recurring report. The first run lands one
// frequency step after the start date, which defaults to now.
func (s *DefaultReportService) Schedule(ctx context.Context, providerID string, cfg models.ScheduleConfig, opts models.ReportOptions) (*models.ScheduledReport, error) {
	if !validFrequencies[cfg.Frequency] {
		return nil, analytics.NewValidationError(fmt.Sprintf("invalid schedule frequency %q", cfg.Frequency))
	}
	if !validTypes[opts.ReportType] {
		return nil, analytics.NewValidationError(fmt.Sprintf("invalid report type %q", opts.ReportType))
	}
	if !validFormats[opts.Format] {
		return nil, analytics.NewValidationError(fmt.Sprintf("invalid report format %q", opts.Format))
	}
	if opts.ReportType == models.ReportCustom {
		if _, err := sectionsFor(opts); err != nil {
			return nil, err
		}
	}
	if len(cfg.EmailRecipients) == 0 {
		return nil, analytics.NewValidationError("at least one email recipient is required")
	}
	for _, addr := range cfg.EmailRecipients {
		if _, err := mail.ParseAddress(addr); err != nil {
			return nil, analytics.NewValidationError(fmt.Sprintf("invalid email recipient %q", addr))
		}
	}

	now := s.now()
	start := now
	if cfg.StartDate != nil {
		start = *cfg.StartDate
	}

	schedule := models.ScheduledReport{
		ID:              uuid.New().String(),
		ProviderID:      providerID,
		ReportType:      opts.ReportType,
		Format:          opts.Format,
		Frequency:       cfg.Frequency,
		NextRunDate:     nextRunAfter(start, cfg.Frequency),
		EmailRecipients: cfg.EmailRecipients,
		Sections:        opts.Sections,
		IsActive:        true,
		CreatedAt:       now,
	}
	if err := s.Repo.InsertSchedule(ctx, schedule); err != nil {
		return nil, analytics.NewDataUnavailableError("persisting report schedule", err)
	}
	return &schedule, nil
}

// CancelSchedule deactivates a schedule owned by the provider.
func (s *DefaultReportService) CancelSchedule(ctx context.Context, scheduleID, providerID string) error {
	err := s.Repo.DeactivateSchedule(ctx, scheduleID, providerID)
	if errors.Is(err, reportRepo.ErrNotFound) {
		return analytics.NewNotFoundError(fmt.Sprintf("active schedule %q not found", scheduleID))
	}
	if err != nil {
		return analytics.NewDataUnavailableError("cancelling report schedule", err)
	}
	return nil
}

// History lists past artifacts with derived statuses plus the provider's
// active schedules.
func (s *DefaultReportService) History(ctx context.Context, providerID string, filter HistoryFilter) (*models.ReportHistory, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	if filter.ReportType != "" && !validTypes[filter.ReportType] {
		return nil, analytics.NewValidationError(fmt.Sprintf("invalid report type %q", filter.ReportType))
	}

	artifacts, total, err := s.Repo.ListArtifacts(ctx, providerID, filter.ReportType, page, limit)
	if err != nil {
		return nil, analytics.NewDataUnavailableError("listing report history", err)
	}
	schedules, err := s.Repo.ActiveSchedules(ctx, providerID)
	if err != nil {
		return nil, analytics.NewDataUnavailableError("listing report schedules", err)
	}

	now := s.now()
	entries := make([]models.ReportHistoryEntry, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, models.ReportHistoryEntry{
			ReportArtifact: a,
			Status:         a.Status(now),
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.ReportHistory{
		Reports:          entries,
		ScheduledReports: schedules,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// Artifact fetches one generated report by id, scoped to the owning
// provider, with its serving status derived at read time.
func (s *DefaultReportService) Artifact(ctx context.Context, reportID, providerID string) (*models.ReportHistoryEntry, error) {
	artifact, err := s.Repo.ArtifactByID(ctx, reportID, providerID)
	if errors.Is(err, reportRepo.ErrNotFound) {
		return nil, analytics.NewNotFoundError(fmt.Sprintf("report %q not found", reportID))
	}
	if err != nil {
		return nil, analytics.NewDataUnavailableError("fetching report artifact", err)
	}
	return &models.ReportHistoryEntry{
		ReportArtifact: *artifact,
		Status:         artifact.Status(s.now()),
	}, nil
}

// RunScheduled executes one due schedule and advances its next run date.
// The advance happens even when the export degrades so a failing report
// cannot wedge the sweep into rerunning it every pass.
func (s *DefaultReportService) RunScheduled(ctx context.Context, schedule models.ScheduledReport) error {
	opts := models.ReportOptions{
		ReportType: schedule.ReportType,
		Format:     schedule.Format,
		Sections:   schedule.Sections,
	}
	result, err := s.Export(ctx, schedule.ProviderID, schedule.Format, opts)
	if err != nil {
		utils.GetLogger().Error("scheduled report run failed",
			zap.String("scheduleID", schedule.ID),
			zap.String("providerID", schedule.ProviderID),
			zap.Error(err))
	} else if result.FilePath == "" {
		utils.GetLogger().Warn("scheduled report produced no file",
			zap.String("scheduleID", schedule.ID),
			zap.String("reportID", result.ReportID))
	} else {
		utils.GetLogger().Info("scheduled report generated",
			zap.String("scheduleID", schedule.ID),
			zap.String("reportID", result.ReportID),
			zap.Strings("recipients", schedule.EmailRecipients))
	}

	next := nextRunAfter(schedule.NextRunDate, schedule.Frequency)
	if advErr := s.Repo.AdvanceSchedule(ctx, schedule.ID, next); advErr != nil {
		return analytics.NewDataUnavailableError("advancing report schedule", advErr)
	}
	return err
}
