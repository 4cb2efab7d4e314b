package report

import (
	"context"
	"errors"
	"testing"
	"time"

	reportRepo "marketpulse/database/repository/report"
	"marketpulse/models"
	"marketpulse/services/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
}

type fakeReportRepo struct {
	artifacts []models.ReportArtifact
	schedules []models.ScheduledReport

	insertArtifactErr error
	filePaths         map[string]string
	advanced          map[string]time.Time
}

func (f *fakeReportRepo) InsertArtifact(_ context.Context, artifact models.ReportArtifact) error {
	if f.insertArtifactErr != nil {
		return f.insertArtifactErr
	}
	f.artifacts = append(f.artifacts, artifact)
	return nil
}

func (f *fakeReportRepo) ArtifactByID(_ context.Context, reportID, providerID string) (*models.ReportArtifact, error) {
	for i := range f.artifacts {
		if f.artifacts[i].ID == reportID && f.artifacts[i].ProviderID == providerID {
			return &f.artifacts[i], nil
		}
	}
	return nil, reportRepo.ErrNotFound
}

func (f *fakeReportRepo) SetFilePath(_ context.Context, reportID, path string, expiresAt time.Time) error {
	if f.filePaths == nil {
		f.filePaths = make(map[string]string)
	}
	f.filePaths[reportID] = path
	for i := range f.artifacts {
		if f.artifacts[i].ID == reportID {
			f.artifacts[i].FilePath = path
			f.artifacts[i].ExpiresAt = expiresAt
		}
	}
	return nil
}

func (f *fakeReportRepo) ListArtifacts(_ context.Context, providerID string, reportType models.ReportType, page, limit int) ([]models.ReportArtifact, int64, error) {
	var all []models.ReportArtifact
	for _, a := range f.artifacts {
		if a.ProviderID != providerID {
			continue
		}
		if reportType != "" && a.ReportType != reportType {
			continue
		}
		all = append(all, a)
	}
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (f *fakeReportRepo) InsertSchedule(_ context.Context, schedule models.ScheduledReport) error {
	f.schedules = append(f.schedules, schedule)
	return nil
}

func (f *fakeReportRepo) ActiveSchedules(_ context.Context, providerID string) ([]models.ScheduledReport, error) {
	var out []models.ScheduledReport
	for _, s := range f.schedules {
		if s.ProviderID == providerID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) DeactivateSchedule(_ context.Context, scheduleID, providerID string) error {
	for i := range f.schedules {
		s := &f.schedules[i]
		if s.ID == scheduleID && s.ProviderID == providerID && s.IsActive {
			s.IsActive = false
			return nil
		}
	}
	return reportRepo.ErrNotFound
}

func (f *fakeReportRepo) DueSchedules(_ context.Context, now time.Time) ([]models.ScheduledReport, error) {
	var out []models.ScheduledReport
	for _, s := range f.schedules {
		if s.IsActive && !s.NextRunDate.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) AdvanceSchedule(_ context.Context, scheduleID string, nextRun time.Time) error {
	if f.advanced == nil {
		f.advanced = make(map[string]time.Time)
	}
	f.advanced[scheduleID] = nextRun
	for i := range f.schedules {
		if f.schedules[i].ID == scheduleID {
			f.schedules[i].NextRunDate = nextRun
		}
	}
	return nil
}

type fakeAnalytics struct {
	revenueErr error
}

func (f *fakeAnalytics) Dashboard(context.Context, string, string) (*models.DashboardView, error) {
	return nil, nil
}
func (f *fakeAnalytics) Revenue(_ context.Context, _ string, period string) (*models.RevenueMetrics, error) {
	if f.revenueErr != nil {
		return nil, f.revenueErr
	}
	return &models.RevenueMetrics{Period: period, TotalRevenue: 1234.56}, nil
}
func (f *fakeAnalytics) Performance(_ context.Context, _ string, period string) (*models.PerformanceMetrics, error) {
	return &models.PerformanceMetrics{Period: period, CompletionRate: 85}, nil
}
func (f *fakeAnalytics) Customers(_ context.Context, _ string, period string) (*models.CustomerMetrics, error) {
	return &models.CustomerMetrics{Period: period, UniqueCustomers: 12}, nil
}
func (f *fakeAnalytics) RealTime(context.Context, string) (*models.RealTimeMetrics, error) {
	return nil, nil
}
func (f *fakeAnalytics) Queue(context.Context, string) (*models.QueueStatus, error) {
	return nil, nil
}
func (f *fakeAnalytics) RecentActivity(context.Context, string, int) ([]models.ActivityItem, error) {
	return nil, nil
}
func (f *fakeAnalytics) BasicMetrics(context.Context, string, bool) (*models.BasicMetrics, error) {
	return nil, nil
}
func (f *fakeAnalytics) InvalidateBasicMetrics(context.Context, string) error { return nil }

type fakeBenchmarks struct{}

func (fakeBenchmarks) PlatformAverages(context.Context) (*models.PlatformAverages, error) {
	return &models.PlatformAverages{}, nil
}
func (fakeBenchmarks) PercentileRankings(context.Context, string) (*models.PercentileRankings, error) {
	return &models.PercentileRankings{Metrics: []models.MetricPercentile{
		{Metric: models.MetricCompletionRate, Value: 85, Percentile: 92, Band: "Top 10%"},
	}}, nil
}
func (fakeBenchmarks) ImprovementSuggestions(context.Context, string) ([]models.Suggestion, string, error) {
	return nil, "", nil
}
func (fakeBenchmarks) SeasonalTrends(context.Context, string) (*models.SeasonalTrends, error) {
	return nil, nil
}
func (fakeBenchmarks) Benchmarks(context.Context, string) (*models.BenchmarkReport, error) {
	return nil, nil
}

type memoryFileStore struct {
	saved map[string][]byte
	err   error
}

func (s *memoryFileStore) Save(name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[name] = data
	return "/reports/" + name, nil
}

func reportService(repo *fakeReportRepo) *DefaultReportService {
	return &DefaultReportService{
		Analytics:  &fakeAnalytics{},
		Benchmarks: fakeBenchmarks{},
		Repo:       repo,
		Files:      &memoryFileStore{},
		Clock:      fixedClock,
	}
}

func TestGeneratePersistsArtifactBeforeAssembly(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := reportService(repo)

	doc, err := svc.Generate(context.Background(), "p1", models.ReportOptions{
		ReportType: models.ReportComprehensive,
		Format:     models.FormatCSV,
	})
	require.NoError(t, err)

	require.Len(t, repo.artifacts, 1)
	assert.Equal(t, doc.Artifact.ID, repo.artifacts[0].ID)
	assert.Equal(t, "30days", doc.Artifact.Period)

	require.NotNil(t, doc.Revenue)
	require.NotNil(t, doc.Performance)
	require.NotNil(t, doc.Customers)
	require.NotNil(t, doc.Percentiles)
	assert.Equal(t, 1234.56, doc.Revenue.TotalRevenue)
}

func TestGenerateTwiceIsDeterministicWithDistinctRows(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := reportService(repo)
	opts := models.ReportOptions{
		ReportType: models.ReportComprehensive,
		Format:     models.FormatCSV,
	}

	first, err := svc.Generate(context.Background(), "p1", opts)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), "p1", opts)
	require.NoError(t, err)

	// Every generation persists its own artifact row.
	require.Len(t, repo.artifacts, 2)
	assert.NotEqual(t, first.Artifact.ID, second.Artifact.ID)

	// Same inputs and clock produce identical analytics content.
	assert.Equal(t, first.Revenue, second.Revenue)
	assert.Equal(t, first.Performance, second.Performance)
	assert.Equal(t, first.Customers, second.Customers)
	assert.Equal(t, first.Percentiles, second.Percentiles)
	assert.Equal(t, first.Artifact.Period, second.Artifact.Period)
	assert.Equal(t, first.Artifact.DateRangeStart, second.Artifact.DateRangeStart)
	assert.Equal(t, first.Artifact.GeneratedAt, second.Artifact.GeneratedAt)
}

func TestGenerateArtifactRowSurvivesAssemblyFailure(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := reportService(repo)
	svc.Analytics = &fakeAnalytics{revenueErr: errors.New("replica lagging")}

	_, err := svc.Generate(context.Background(), "p1", models.ReportOptions{
		ReportType: models.ReportRevenue,
		Format:     models.FormatCSV,
	})
	require.Error(t, err)

	// The row exists in the generating state even though assembly failed.
	require.Len(t, repo.artifacts, 1)
	assert.Equal(t, models.ReportGenerating, repo.artifacts[0].Status(fixedClock()))
}

func TestGenerateValidation(t *testing.T) {
	svc := reportService(&fakeReportRepo{})
	ctx := context.Background()

	_, err := svc.Generate(ctx, "p1", models.ReportOptions{ReportType: "quarterly", Format: models.FormatCSV})
	assert.True(t, analytics.IsValidation(err))

	_, err = svc.Generate(ctx, "p1", models.ReportOptions{ReportType: models.ReportRevenue, Format: "docx"})
	assert.True(t, analytics.IsValidation(err))

	_, err = svc.Generate(ctx, "p1", models.ReportOptions{ReportType: models.ReportCustom, Format: models.FormatCSV})
	assert.True(t, analytics.IsValidation(err))

	_, err = svc.Generate(ctx, "p1", models.ReportOptions{
		ReportType: models.ReportCustom,
		Format:     models.FormatCSV,
		Sections:   []models.ReportSection{"ratings"},
	})
	assert.True(t, analytics.IsValidation(err))
}

func TestPeriodDerivationFromRangeLength(t *testing.T) {
	now := fixedClock()
	tests := []struct {
		days int
		want string
	}{
		{5, "7days"},
		{7, "7days"},
		{21, "30days"},
		{120, "6months"},
		{300, "1year"},
	}
	for _, tt := range tests {
		from := now.AddDate(0, 0, -tt.days)
		period, start, end, err := periodFor(models.ReportOptions{DateFrom: &from, DateTo: &now}, now)
		require.NoError(t, err)
		assert.Equal(t, tt.want, period, "%d days", tt.days)
		assert.Equal(t, from, start)
		assert.Equal(t, now, end)
	}

	// No range defaults to the last 30 days.
	period, start, _, err := periodFor(models.ReportOptions{}, now)
	require.NoError(t, err)
	assert.Equal(t, "30days", period)
	assert.Equal(t, now.AddDate(0, 0, -30), start)

	// Inverted ranges are rejected.
	from := now.AddDate(0, 0, 1)
	_, _, _, err = periodFor(models.ReportOptions{DateFrom: &from, DateTo: &now}, now)
	assert.True(t, analytics.IsValidation(err))
}

func TestExportWritesFileAndBackfillsPath(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := reportService(repo)
	store := svc.Files.(*memoryFileStore)

	result, err := svc.Export(context.Background(), "p1", models.FormatCSV, models.ReportOptions{
		ReportType: models.ReportRevenue,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.FilePath)
	assert.Greater(t, result.Size, int64(0))
	require.Len(t, store.saved, 1)
	assert.Equal(t, result.FilePath, repo.filePaths[result.ReportID])
	assert.Equal(t, models.ReportAvailable, repo.artifacts[0].Status(fixedClock()))
}

func TestExportDegradesOnStorageFailure(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := reportService(repo)
	svc.Files = &memoryFileStore{err: errors.New("disk full")}

	result, err := svc.Export(context.Background(), "p1", models.FormatCSV, models.ReportOptions{
		ReportType: models.ReportRevenue,
	})
	require.NoError(t, err)

	// The artifact row stays queryable; only the file is missing.
	assert.Empty(t, result.FilePath)
	assert.NotEmpty(t, result.ReportID)
	require.Len(t, repo.artifacts, 1)
	assert.Equal(t, models.ReportGenerating, repo.artifacts[0].Status(fixedClock()))
}

func TestScheduleMonthlyAdvancesByCalendarMonth(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := reportService(repo)
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	schedule, err := svc.Schedule(context.Background(), "p1",
		models.ScheduleConfig{
			Frequency:       models.FrequencyMonthly,
			StartDate:       &start,
			EmailRecipients: []string{"owner@example.com"},
		},
		models.ReportOptions{ReportType: models.ReportRevenue, Format: models.FormatPDF},
	)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), schedule.NextRunDate)
	assert.True(t, schedule.IsActive)
	require.Len(t, repo.schedules, 1)
}

func TestScheduleFrequencySteps(t *testing.T) {
	from := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, from.AddDate(0, 0, 1), nextRunAfter(from, models.FrequencyDaily))
	assert.Equal(t, from.AddDate(0, 0, 7), nextRunAfter(from, models.FrequencyWeekly))
	// Jan 31 + 1 month normalizes per the calendar.
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), nextRunAfter(from, models.FrequencyMonthly))
}

func TestScheduleValidation(t *testing.T) {
	svc := reportService(&fakeReportRepo{})
	ctx := context.Background()
	opts := models.ReportOptions{ReportType: models.ReportRevenue, Format: models.FormatCSV}

	_, err := svc.Schedule(ctx, "p1", models.ScheduleConfig{
		Frequency:       "hourly",
		EmailRecipients: []string{"owner@example.com"},
	}, opts)
	assert.True(t, analytics.IsValidation(err))

	_, err = svc.Schedule(ctx, "p1", models.ScheduleConfig{
		Frequency: models.FrequencyDaily,
	}, opts)
	assert.True(t, analytics.IsValidation(err))

	_, err = svc.Schedule(ctx, "p1", models.ScheduleConfig{
		Frequency:       models.FrequencyDaily,
		EmailRecipients: []string{"not-an-address"},
	}, opts)
	assert.True(t, analytics.IsValidation(err))
}

func TestCancelScheduleMapsNotFound(t *testing.T) {
	repo := &fakeReportRepo{schedules: []models.ScheduledReport{
		{ID: "s1", ProviderID: "p1", IsActive: true},
	}}
	svc := reportService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CancelSchedule(ctx, "s1", "p1"))
	assert.False(t, repo.schedules[0].IsActive)

	// Cancelling again, or another provider's schedule, is a not-found.
	err := svc.CancelSchedule(ctx, "s1", "p1")
	assert.True(t, analytics.IsNotFound(err))
	err = svc.CancelSchedule(ctx, "missing", "p1")
	assert.True(t, analytics.IsNotFound(err))
}

func TestHistoryDerivesStatusAndPaginates(t *testing.T) {
	now := fixedClock()
	repo := &fakeReportRepo{
		artifacts: []models.ReportArtifact{
			{ID: "a1", ProviderID: "p1", ReportType: models.ReportRevenue, FilePath: "/reports/a1.csv",
				GeneratedAt: now.AddDate(0, 0, -1), ExpiresAt: now.AddDate(0, 0, 29)},
			{ID: "a2", ProviderID: "p1", ReportType: models.ReportRevenue,
				GeneratedAt: now.AddDate(0, 0, -2), ExpiresAt: now.AddDate(0, 0, 28)},
			{ID: "a3", ProviderID: "p1", ReportType: models.ReportCustomer, FilePath: "/reports/a3.csv",
				GeneratedAt: now.AddDate(0, -2, 0), ExpiresAt: now.AddDate(0, -1, 0)},
		},
		schedules: []models.ScheduledReport{
			{ID: "s1", ProviderID: "p1", IsActive: true},
			{ID: "s2", ProviderID: "p1", IsActive: false},
		},
	}
	svc := reportService(repo)

	history, err := svc.History(context.Background(), "p1", HistoryFilter{})
	require.NoError(t, err)

	require.Len(t, history.Reports, 3)
	statuses := make(map[string]models.ReportStatus)
	for _, r := range history.Reports {
		statuses[r.ID] = r.Status
	}
	assert.Equal(t, models.ReportAvailable, statuses["a1"])
	assert.Equal(t, models.ReportGenerating, statuses["a2"])
	assert.Equal(t, models.ReportExpired, statuses["a3"])

	// Only active schedules are listed.
	require.Len(t, history.ScheduledReports, 1)
	assert.Equal(t, "s1", history.ScheduledReports[0].ID)

	assert.Equal(t, 1, history.Pagination.Page)
	assert.Equal(t, 10, history.Pagination.Limit)
	assert.Equal(t, int64(3), history.Pagination.Total)
	assert.Equal(t, 1, history.Pagination.TotalPages)

	// Type filter narrows the listing.
	filtered, err := svc.History(context.Background(), "p1", HistoryFilter{ReportType: models.ReportCustomer})
	require.NoError(t, err)
	require.Len(t, filtered.Reports, 1)
	assert.Equal(t, "a3", filtered.Reports[0].ID)
}

func TestArtifactLookupScopedToProvider(t *testing.T) {
	now := fixedClock()
	repo := &fakeReportRepo{artifacts: []models.ReportArtifact{
		{ID: "a1", ProviderID: "p1", ReportType: models.ReportRevenue, FilePath: "/reports/a1.csv",
			GeneratedAt: now.AddDate(0, 0, -1), ExpiresAt: now.AddDate(0, 0, 29)},
	}}
	svc := reportService(repo)
	ctx := context.Background()

	entry, err := svc.Artifact(ctx, "a1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "a1", entry.ID)
	assert.Equal(t, models.ReportAvailable, entry.Status)

	// Another provider's id behaves like a missing report.
	_, err = svc.Artifact(ctx, "a1", "p2")
	assert.True(t, analytics.IsNotFound(err))
	_, err = svc.Artifact(ctx, "missing", "p1")
	assert.True(t, analytics.IsNotFound(err))
}

func TestHistoryCapsLimit(t *testing.T) {
	svc := reportService(&fakeReportRepo{})
	history, err := svc.History(context.Background(), "p1", HistoryFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, history.Pagination.Limit)
}

func TestRunScheduledAdvancesNextRun(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := reportService(repo)
	schedule := models.ScheduledReport{
		ID:          "s1",
		ProviderID:  "p1",
		ReportType:  models.ReportRevenue,
		Format:      models.FormatCSV,
		Frequency:   models.FrequencyWeekly,
		NextRunDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, svc.RunScheduled(context.Background(), schedule))
	assert.Equal(t, time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC), repo.advanced["s1"])
	require.Len(t, repo.artifacts, 1)
}

func TestRunScheduledAdvancesEvenWhenExportFails(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := reportService(repo)
	svc.Analytics = &fakeAnalytics{revenueErr: errors.New("replica lagging")}
	schedule := models.ScheduledReport{
		ID:          "s1",
		ProviderID:  "p1",
		ReportType:  models.ReportRevenue,
		Format:      models.FormatCSV,
		Frequency:   models.FrequencyDaily,
		NextRunDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	err := svc.RunScheduled(context.Background(), schedule)
	require.Error(t, err)
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), repo.advanced["s1"])
}
