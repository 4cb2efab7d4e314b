package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	ratingRepo "marketpulse/database/repository/rating"
	workorderRepo "marketpulse/database/repository/workorder"
	"marketpulse/models"
)

// MinSatisfactionReviews is the review count below which the satisfaction
// percentage is withheld rather than reported on thin data.
const MinSatisfactionReviews = 5

// Performance computes the operational bundle: completion and cancellation
// rates, response time, volume trend, cancellation reasons, per-category
// breakdown, satisfaction and the overall score.
func (s *DefaultAnalyticsService) Performance(ctx context.Context, providerID, period string) (*models.PerformanceMetrics, error) {
	now := s.now()
	win, err := ResolvePeriod(period, now)
	if err != nil {
		return nil, err
	}

	orders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{
		From: win.FilterStart(),
		To:   &win.End,
	})
	if err != nil {
		return nil, NewDataUnavailableError("querying work orders", err)
	}

	ratings, err := s.Ratings.Query(ctx, providerID, ratingRepo.Filter{
		From: win.FilterStart(),
		To:   &win.End,
	})
	if err != nil {
		return nil, NewDataUnavailableError("querying ratings", err)
	}

	completionRate := completionRateOf(orders)
	cancellationRate := cancellationRateOf(orders)
	satisfaction := satisfactionOf(ratings)

	metrics := &models.PerformanceMetrics{
		Period:              period,
		CompletionRate:      Round2(completionRate),
		ResponseTime:        responseTimeOf(orders),
		CancellationRate:    Round2(cancellationRate),
		VolumeTrend:         volumeTrend(orders, win, now),
		CancellationReasons: cancellationReasons(orders),
		ByCategory:          categoryPerformance(orders),
		Satisfaction:        satisfaction,
	}

	// Raw satisfaction feeds the score even below the display floor; a
	// provider with zero ratings simply contributes zero.
	rawSatisfaction := 0.0
	if satisfaction.Total > 0 {
		rawSatisfaction = float64(satisfaction.Positive) / float64(satisfaction.Total) * 100
	}
	metrics.Score = Round2(0.4*completionRate + 0.4*rawSatisfaction + 0.2*(100-cancellationRate))

	if win.HasComparison() {
		prev, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{
			From: win.PrevStart,
			To:   win.PrevEnd,
		})
		if err != nil {
			return nil, NewDataUnavailableError("querying previous-period work orders", err)
		}
		metrics.CompletionTrend = NewComparison(completionRate, completionRateOf(prev))
	}

	return metrics, nil
}

// completionRateOf is completed over the accepted superset, zero when the
// provider took on nothing in the window.
func completionRateOf(orders []models.WorkOrder) float64 {
	accepted, completed := 0, 0
	for _, o := range orders {
		if o.InAcceptedSuperset() {
			accepted++
		}
		if o.Status == models.WorkOrderCompleted {
			completed++
		}
	}
	if accepted == 0 {
		return 0
	}
	return float64(completed) / float64(accepted) * 100
}

func cancellationRateOf(orders []models.WorkOrder) float64 {
	if len(orders) == 0 {
		return 0
	}
	cancelled := 0
	for _, o := range orders {
		if o.Status == models.WorkOrderCancelled {
			cancelled++
		}
	}
	return float64(cancelled) / float64(len(orders)) * 100
}

// responseTimeOf averages the delay between creation and the earliest of
// first outbound message or status update, formatted by magnitude.
func responseTimeOf(orders []models.WorkOrder) models.ResponseTime {
	total, counted := 0.0, 0
	for _, o := range orders {
		respondedAt := o.UpdatedAt
		if o.FirstResponseAt != nil && o.FirstResponseAt.Before(respondedAt) {
			respondedAt = *o.FirstResponseAt
		}
		minutes := respondedAt.Sub(o.CreatedAt).Minutes()
		if minutes < 0 {
			minutes = 0
		}
		total += minutes
		counted++
	}

	if counted == 0 {
		return models.ResponseTime{Display: "0 min", Unit: "minutes"}
	}
	return FormatResponseTime(total / float64(counted))
}

// FormatResponseTime renders mean minutes in the unit matching their
// magnitude: minutes under an hour, hours under a day, days beyond.
func FormatResponseTime(minutes float64) models.ResponseTime {
	rt := models.ResponseTime{Minutes: Round2(minutes)}
	switch {
	case minutes < 60:
		rt.Unit = "minutes"
		rt.Display = fmt.Sprintf("%.0f min", minutes)
	case minutes < 1440:
		rt.Unit = "hours"
		rt.Display = fmt.Sprintf("%.1f hr", minutes/60)
	default:
		rt.Unit = "days"
		rt.Display = fmt.Sprintf("%.1f days", minutes/1440)
	}
	return rt
}

// cancellationReasons buckets cancelled orders by reason; missing reasons
// land in an explicit Unspecified bucket so percentages always cover 100%
// of cancellations.
func cancellationReasons(orders []models.WorkOrder) []models.ReasonCount {
	counts := make(map[string]int)
	cancelled := 0
	for _, o := range orders {
		if o.Status != models.WorkOrderCancelled {
			continue
		}
		reason := o.CancellationReason
		if reason == "" {
			reason = "Unspecified"
		}
		counts[reason]++
		cancelled++
	}

	reasons := make([]models.ReasonCount, 0, len(counts))
	for reason, count := range counts {
		reasons = append(reasons, models.ReasonCount{
			Reason:     reason,
			Count:      count,
			Percentage: Round2(float64(count) / float64(cancelled) * 100),
		})
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].Count != reasons[j].Count {
			return reasons[i].Count > reasons[j].Count
		}
		return reasons[i].Reason < reasons[j].Reason
	})
	return reasons
}

func categoryPerformance(orders []models.WorkOrder) []models.CategoryPerformance {
	type tally struct {
		total, accepted, completed, cancelled int
	}
	tallies := make(map[string]*tally)
	for _, o := range orders {
		cat := o.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		row, ok := tallies[cat]
		if !ok {
			row = &tally{}
			tallies[cat] = row
		}
		row.total++
		if o.InAcceptedSuperset() {
			row.accepted++
		}
		switch o.Status {
		case models.WorkOrderCompleted:
			row.completed++
		case models.WorkOrderCancelled:
			row.cancelled++
		}
	}

	breakdown := make([]models.CategoryPerformance, 0, len(tallies))
	for cat, row := range tallies {
		rate := 0.0
		if row.accepted > 0 {
			rate = float64(row.completed) / float64(row.accepted) * 100
		}
		breakdown = append(breakdown, models.CategoryPerformance{
			Category:       cat,
			Total:          row.total,
			Completed:      row.completed,
			Cancelled:      row.cancelled,
			CompletionRate: Round2(rate),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

func satisfactionOf(ratings []models.Rating) models.SatisfactionRate {
	positive := 0
	for _, r := range ratings {
		if r.Value >= 4 {
			positive++
		}
	}
	sat := models.SatisfactionRate{Positive: positive, Total: len(ratings)}
	if len(ratings) >= MinSatisfactionReviews {
		pct := Round2(float64(positive) / float64(len(ratings)) * 100)
		sat.Eligible = true
		sat.Percentage = &pct
	}
	return sat
}

func volumeTrend(orders []models.WorkOrder, win Window, now time.Time) []models.TrendPoint {
	values := make(map[string]float64)
	for _, o := range orders {
		values[bucketKey(o.CreatedAt, win.DailyBuckets())]++
	}
	return buildTrend(values, win, now, func(o models.WorkOrder) time.Time { return o.CreatedAt }, orders)
}
