package alert

import (
	"context"
	"fmt"
	"math"
	"time"

	thresholdRepo "marketpulse/database/repository/threshold"
	"marketpulse/models"
	"marketpulse/services/analytics"
)

// timeNow is swappable for tests.
var timeNow = time.Now

// Service evaluates provider-configured thresholds against live metrics.
type Service interface {
	CheckThresholds(ctx context.Context, providerID string) ([]models.TriggeredAlert, error)
}

// DefaultAlertService reads thresholds and computes each referenced metric
// on its own window: 30 days for the rate metrics, all-time for rating,
// today for earnings and request count.
type DefaultAlertService struct {
	Thresholds thresholdRepo.ThresholdRepository
	Analytics  analytics.Service
}

// equalsTolerance absorbs float noise on the equals operator; it matches
// the two-decimal display rounding.
const equalsTolerance = 0.01

// severityCutoffs maps each metric to its critical and warning deviation
// percentages, applied only when the rule fires in the metric's bad
// direction.
var severityCutoffs = map[models.AlertMetricType][2]float64{
	models.AlertCompletionRate:   {30, 15},
	models.AlertResponseTime:     {50, 25},
	models.AlertCancellationRate: {50, 25},
	models.AlertRating:           {20, 10},
	models.AlertEarnings:         {50, 25},
	models.AlertRequestCount:     {50, 25},
}

// badDirection is the operator direction that signals trouble per metric.
var badDirection = map[models.AlertMetricType]models.AlertOperator{
	models.AlertCompletionRate:   models.OperatorBelow,
	models.AlertResponseTime:     models.OperatorAbove,
	models.AlertCancellationRate: models.OperatorAbove,
	models.AlertRating:           models.OperatorBelow,
	models.AlertEarnings:         models.OperatorBelow,
	models.AlertRequestCount:     models.OperatorBelow,
}

// CheckThresholds evaluates every active rule. Triggered rules are stamped
// in one batch write; a rule that does not fire is never mutated. No
// configured thresholds is a normal empty result.
func (s *DefaultAlertService) CheckThresholds(ctx context.Context, providerID string) ([]models.TriggeredAlert, error) {
	thresholds, err := s.Thresholds.ActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, analytics.NewDataUnavailableError("querying alert thresholds", err)
	}
	if len(thresholds) == 0 {
		return []models.TriggeredAlert{}, nil
	}

	values, err := s.metricValues(ctx, providerID, thresholds)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	alerts := make([]models.TriggeredAlert, 0, len(thresholds))
	var triggeredIDs []string
	for _, t := range thresholds {
		current, ok := values[t.MetricType]
		if !ok {
			continue
		}
		if !evaluate(t.Operator, current, t.ThresholdValue) {
			continue
		}
		alerts = append(alerts, models.TriggeredAlert{
			ThresholdID:    t.ID,
			MetricType:     t.MetricType,
			Operator:       t.Operator,
			ThresholdValue: t.ThresholdValue,
			CurrentValue:   analytics.Round2(current),
			Message:        message(t, current),
			Severity:       severity(t, current),
			TriggeredAt:    now,
		})
		triggeredIDs = append(triggeredIDs, t.ID)
	}

	if len(triggeredIDs) > 0 {
		if err := s.Thresholds.MarkTriggered(ctx, triggeredIDs, now); err != nil {
			return nil, analytics.NewDataUnavailableError("stamping triggered thresholds", err)
		}
	}
	return alerts, nil
}

// metricValues computes only the windows the configured rules reference.
func (s *DefaultAlertService) metricValues(ctx context.Context, providerID string, thresholds []models.AlertThreshold) (map[models.AlertMetricType]float64, error) {
	need := make(map[models.AlertMetricType]bool)
	for _, t := range thresholds {
		need[t.MetricType] = true
	}

	values := make(map[models.AlertMetricType]float64)

	if need[models.AlertCompletionRate] || need[models.AlertResponseTime] || need[models.AlertCancellationRate] {
		perf, err := s.Analytics.Performance(ctx, providerID, string(analytics.Period30Days))
		if err != nil {
			return nil, err
		}
		values[models.AlertCompletionRate] = perf.CompletionRate
		values[models.AlertResponseTime] = perf.ResponseTime.Minutes
		values[models.AlertCancellationRate] = perf.CancellationRate
	}

	if need[models.AlertRating] {
		basic, err := s.Analytics.BasicMetrics(ctx, providerID, false)
		if err != nil {
			return nil, err
		}
		values[models.AlertRating] = basic.AverageRating
	}

	if need[models.AlertEarnings] || need[models.AlertRequestCount] {
		rt, err := s.Analytics.RealTime(ctx, providerID)
		if err != nil {
			return nil, err
		}
		values[models.AlertEarnings] = rt.CompletedPaid.Today
		requests := 0.0
		for _, delta := range rt.StatusCounts {
			requests += delta.Today
		}
		values[models.AlertRequestCount] = requests
	}

	return values, nil
}

func evaluate(op models.AlertOperator, current, threshold float64) bool {
	switch op {
	case models.OperatorAbove:
		return current > threshold
	case models.OperatorBelow:
		return current < threshold
	case models.OperatorEquals:
		return math.Abs(current-threshold) <= equalsTolerance
	default:
		return false
	}
}

// severity grades relative deviation against per-metric cutoffs. Rules
// firing outside the metric's bad direction, and equals rules, are
// informational.
func severity(t models.AlertThreshold, current float64) models.AlertSeverity {
	if t.Operator != badDirection[t.MetricType] {
		return models.SeverityInfo
	}

	deviation := 100.0
	if t.ThresholdValue != 0 {
		deviation = math.Abs(current-t.ThresholdValue) / math.Abs(t.ThresholdValue) * 100
	} else if current == 0 {
		deviation = 0
	}

	cutoffs := severityCutoffs[t.MetricType]
	switch {
	case deviation > cutoffs[0]:
		return models.SeverityCritical
	case deviation > cutoffs[1]:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// formatValue renders a metric value in its own unit.
func formatValue(metric models.AlertMetricType, v float64) string {
	switch metric {
	case models.AlertCompletionRate, models.AlertCancellationRate:
		return fmt.Sprintf("%.2f%%", v)
	case models.AlertResponseTime:
		return fmt.Sprintf("%.0f min", v)
	case models.AlertRating:
		return fmt.Sprintf("%.1f", v)
	case models.AlertEarnings:
		return fmt.Sprintf("$%.2f", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

var metricLabels = map[models.AlertMetricType]string{
	models.AlertCompletionRate:   "Completion rate",
	models.AlertResponseTime:     "Response time",
	models.AlertCancellationRate: "Cancellation rate",
	models.AlertRating:           "Average rating",
	models.AlertEarnings:         "Earnings today",
	models.AlertRequestCount:     "Requests today",
}

func message(t models.AlertThreshold, current float64) string {
	return fmt.Sprintf("%s is %s (threshold: %s %s)",
		metricLabels[t.MetricType],
		formatValue(t.MetricType, current),
		t.Operator,
		formatValue(t.MetricType, t.ThresholdValue))
}
