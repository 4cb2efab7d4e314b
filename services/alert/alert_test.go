package alert

import (
	"context"
	"testing"
	"time"

	"marketpulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeThresholdRepo struct {
	thresholds []models.AlertThreshold
	markedIDs  []string
	markedAt   time.Time
}

func (f *fakeThresholdRepo) ActiveByProvider(_ context.Context, providerID string) ([]models.AlertThreshold, error) {
	var out []models.AlertThreshold
	for _, t := range f.thresholds {
		if t.ProviderID == providerID && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeThresholdRepo) MarkTriggered(_ context.Context, ids []string, at time.Time) error {
	f.markedIDs = append(f.markedIDs, ids...)
	f.markedAt = at
	return nil
}

// fakeAnalytics serves canned metric bundles; only the methods the alert
// evaluator reaches are populated.
type fakeAnalytics struct {
	performance models.PerformanceMetrics
	basic       models.BasicMetrics
	realtime    models.RealTimeMetrics
}

func (f *fakeAnalytics) Dashboard(context.Context, string, string) (*models.DashboardView, error) {
	return nil, nil
}
func (f *fakeAnalytics) Revenue(context.Context, string, string) (*models.RevenueMetrics, error) {
	return nil, nil
}
func (f *fakeAnalytics) Performance(context.Context, string, string) (*models.PerformanceMetrics, error) {
	p := f.performance
	return &p, nil
}
func (f *fakeAnalytics) Customers(context.Context, string, string) (*models.CustomerMetrics, error) {
	return nil, nil
}
func (f *fakeAnalytics) RealTime(context.Context, string) (*models.RealTimeMetrics, error) {
	rt := f.realtime
	return &rt, nil
}
func (f *fakeAnalytics) Queue(context.Context, string) (*models.QueueStatus, error) {
	return nil, nil
}
func (f *fakeAnalytics) RecentActivity(context.Context, string, int) ([]models.ActivityItem, error) {
	return nil, nil
}
func (f *fakeAnalytics) BasicMetrics(context.Context, string, bool) (*models.BasicMetrics, error) {
	b := f.basic
	return &b, nil
}
func (f *fakeAnalytics) InvalidateBasicMetrics(context.Context, string) error {
	return nil
}

func threshold(id string, metric models.AlertMetricType, op models.AlertOperator, value float64) models.AlertThreshold {
	return models.AlertThreshold{
		ID:             id,
		ProviderID:     "p1",
		MetricType:     metric,
		Operator:       op,
		ThresholdValue: value,
		IsActive:       true,
	}
}

func TestCheckThresholdsNoRulesIsEmpty(t *testing.T) {
	svc := &DefaultAlertService{Thresholds: &fakeThresholdRepo{}, Analytics: &fakeAnalytics{}}

	alerts, err := svc.CheckThresholds(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestCheckThresholdsOperators(t *testing.T) {
	repo := &fakeThresholdRepo{thresholds: []models.AlertThreshold{
		threshold("t1", models.AlertCompletionRate, models.OperatorBelow, 80), // fires: 70 < 80
		threshold("t2", models.AlertCancellationRate, models.OperatorAbove, 20), // quiet: 15 not > 20
		threshold("t3", models.AlertResponseTime, models.OperatorEquals, 45.005), // fires within tolerance
	}}
	svc := &DefaultAlertService{
		Thresholds: repo,
		Analytics: &fakeAnalytics{performance: models.PerformanceMetrics{
			CompletionRate:   70,
			CancellationRate: 15,
			ResponseTime:     models.ResponseTime{Minutes: 45},
		}},
	}

	alerts, err := svc.CheckThresholds(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	ids := []string{alerts[0].ThresholdID, alerts[1].ThresholdID}
	assert.ElementsMatch(t, []string{"t1", "t3"}, ids)
	// Only the fired rules are stamped, in one batch.
	assert.ElementsMatch(t, []string{"t1", "t3"}, repo.markedIDs)
}

func TestSeverityGrading(t *testing.T) {
	perf := models.PerformanceMetrics{CompletionRate: 40}
	tests := []struct {
		name      string
		threshold models.AlertThreshold
		want      models.AlertSeverity
	}{
		{
			// 40 against 80 is a 50% deviation, past the 30% critical line.
			name:      "critical deviation",
			threshold: threshold("t1", models.AlertCompletionRate, models.OperatorBelow, 80),
			want:      models.SeverityCritical,
		},
		{
			// 40 against 50 is 20%, between warning (15) and critical (30).
			name:      "warning deviation",
			threshold: threshold("t2", models.AlertCompletionRate, models.OperatorBelow, 50),
			want:      models.SeverityWarning,
		},
		{
			// 40 against 44 is under 15%.
			name:      "minor deviation",
			threshold: threshold("t3", models.AlertCompletionRate, models.OperatorBelow, 44),
			want:      models.SeverityInfo,
		},
		{
			// Above on completion rate is not the bad direction.
			name:      "good direction is informational",
			threshold: threshold("t4", models.AlertCompletionRate, models.OperatorAbove, 30),
			want:      models.SeverityInfo,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeThresholdRepo{thresholds: []models.AlertThreshold{tt.threshold}}
			svc := &DefaultAlertService{Thresholds: repo, Analytics: &fakeAnalytics{performance: perf}}

			alerts, err := svc.CheckThresholds(context.Background(), "p1")
			require.NoError(t, err)
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.want, alerts[0].Severity)
		})
	}
}

func TestCheckThresholdsEarningsAndRequests(t *testing.T) {
	repo := &fakeThresholdRepo{thresholds: []models.AlertThreshold{
		threshold("t1", models.AlertEarnings, models.OperatorBelow, 200),
		threshold("t2", models.AlertRequestCount, models.OperatorBelow, 5),
	}}
	svc := &DefaultAlertService{
		Thresholds: repo,
		Analytics: &fakeAnalytics{realtime: models.RealTimeMetrics{
			CompletedPaid: models.DayDelta{Today: 80},
			StatusCounts: map[models.WorkOrderStatus]models.DayDelta{
				models.WorkOrderPending:   {Today: 1},
				models.WorkOrderCompleted: {Today: 2},
			},
		}},
	}

	alerts, err := svc.CheckThresholds(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byMetric := make(map[models.AlertMetricType]models.TriggeredAlert)
	for _, a := range alerts {
		byMetric[a.MetricType] = a
	}
	assert.Equal(t, 80.0, byMetric[models.AlertEarnings].CurrentValue)
	assert.Equal(t, 3.0, byMetric[models.AlertRequestCount].CurrentValue)
	assert.Contains(t, byMetric[models.AlertEarnings].Message, "$80.00")
}

func TestCheckThresholdsStampsTriggerTime(t *testing.T) {
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	restore := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = restore }()

	repo := &fakeThresholdRepo{thresholds: []models.AlertThreshold{
		threshold("t1", models.AlertRating, models.OperatorBelow, 4.5),
	}}
	svc := &DefaultAlertService{
		Thresholds: repo,
		Analytics: &fakeAnalytics{basic: models.BasicMetrics{
			MetricSnapshot: models.MetricSnapshot{AverageRating: 4.0},
		}},
	}

	alerts, err := svc.CheckThresholds(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, fixed, alerts[0].TriggeredAt)
	assert.Equal(t, fixed, repo.markedAt)
}
