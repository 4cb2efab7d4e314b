package analytics

import (
	"context"
	"sort"
	"time"

	paymentRepo "marketpulse/database/repository/payment"
	"marketpulse/models"
)

// Revenue computes the provider's revenue bundle for one period: completed
// totals with comparison, category and status breakdowns, a bucketed trend
// series and the rolling monthly view.
func (s *DefaultAnalyticsService) Revenue(ctx context.Context, providerID, period string) (*models.RevenueMetrics, error) {
	now := s.now()
	win, err := ResolvePeriod(period, now)
	if err != nil {
		return nil, err
	}

	payments, err := s.Payments.Query(ctx, providerID, paymentRepo.Filter{
		From: win.FilterStart(),
		To:   &win.End,
	})
	if err != nil {
		return nil, NewDataUnavailableError("querying payments", err)
	}

	var completed []models.Payment
	total := 0.0
	for _, p := range payments {
		if p.Status == models.PaymentCompleted {
			completed = append(completed, p)
			total += p.Amount
		}
	}

	metrics := &models.RevenueMetrics{
		Period:       period,
		TotalRevenue: Round2(total),
		ByCategory:   categoryBreakdown(completed, total),
		Trend:        revenueTrend(completed, win, now),
		ByStatus:     statusBreakdown(payments),
	}

	if win.HasComparison() {
		prev, err := s.Payments.Query(ctx, providerID, paymentRepo.Filter{
			StatusIn: []models.PaymentStatus{models.PaymentCompleted},
			From:     win.PrevStart,
			To:       win.PrevEnd,
		})
		if err != nil {
			return nil, NewDataUnavailableError("querying previous-period payments", err)
		}
		prevTotal := 0.0
		for _, p := range prev {
			prevTotal += p.Amount
		}
		metrics.Comparison = NewComparison(total, prevTotal)
	}

	monthly, err := s.monthlyTotals(ctx, providerID, now)
	if err != nil {
		return nil, err
	}
	metrics.MonthlyTotals = *monthly

	return metrics, nil
}

// monthlyTotals builds the rolling N-month revenue buckets and, when the
// span covers a full year of data, the year-over-year change of the most
// recent six buckets against the first six.
func (s *DefaultAnalyticsService) monthlyTotals(ctx context.Context, providerID string, now time.Time) (*models.MonthlyComparison, error) {
	span := s.monthlySpan()
	rangeStart := monthStart(now).AddDate(0, -(span - 1), 0)

	payments, err := s.Payments.Query(ctx, providerID, paymentRepo.Filter{
		StatusIn: []models.PaymentStatus{models.PaymentCompleted},
		From:     &rangeStart,
	})
	if err != nil {
		return nil, NewDataUnavailableError("querying monthly payments", err)
	}

	sums := make(map[string]float64)
	for _, p := range payments {
		sums[p.PaymentDate.Format("2006-01")] += p.Amount
	}

	months := make([]models.MonthBucket, 0, span)
	for i := 0; i < span; i++ {
		m := rangeStart.AddDate(0, i, 0).Format("2006-01")
		months = append(months, models.MonthBucket{Month: m, Amount: Round2(sums[m])})
	}

	result := &models.MonthlyComparison{Months: months}
	if span >= 12 {
		firstHalf, recentHalf := 0.0, 0.0
		for _, b := range months[:6] {
			firstHalf += b.Amount
		}
		for _, b := range months[len(months)-6:] {
			recentHalf += b.Amount
		}
		// A provider with no revenue in the oldest six buckets has not been
		// earning for a full year yet; no year-over-year in that case.
		if firstHalf > 0 {
			yoy := Round2(PercentChange(recentHalf, firstHalf))
			result.YearOverYear = &yoy
		}
	}
	return result, nil
}

func categoryBreakdown(completed []models.Payment, total float64) []models.CategoryRevenue {
	sums := make(map[string]float64)
	for _, p := range completed {
		cat := p.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		sums[cat] += p.Amount
	}

	breakdown := make([]models.CategoryRevenue, 0, len(sums))
	for cat, amount := range sums {
		pct := 0.0
		if total > 0 {
			pct = amount / total * 100
		}
		breakdown = append(breakdown, models.CategoryRevenue{
			Category:   cat,
			Amount:     Round2(amount),
			Percentage: Round2(pct),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount != breakdown[j].Amount {
			return breakdown[i].Amount > breakdown[j].Amount
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

func statusBreakdown(payments []models.Payment) []models.StatusRevenue {
	sums := make(map[models.PaymentStatus]*models.StatusRevenue)
	grand := 0.0
	for _, p := range payments {
		row, ok := sums[p.Status]
		if !ok {
			row = &models.StatusRevenue{Status: p.Status}
			sums[p.Status] = row
		}
		row.Amount += p.Amount
		row.Count++
		grand += p.Amount
	}

	breakdown := make([]models.StatusRevenue, 0, len(models.AllPaymentStatuses))
	for _, status := range models.AllPaymentStatuses {
		row := models.StatusRevenue{Status: status}
		if found, ok := sums[status]; ok {
			row = *found
		}
		if grand > 0 {
			row.Percentage = Round2(row.Amount / grand * 100)
		}
		row.Amount = Round2(row.Amount)
		breakdown = append(breakdown, row)
	}
	return breakdown
}

func revenueTrend(completed []models.Payment, win Window, now time.Time) []models.TrendPoint {
	values := make(map[string]float64)
	for _, p := range completed {
		values[bucketKey(p.PaymentDate, win.DailyBuckets())] += p.Amount
	}
	return buildTrend(values, win, now, func(p models.Payment) time.Time { return p.PaymentDate }, completed)
}

// bucketKey formats a timestamp into its daily or monthly bucket label.
func bucketKey(t time.Time, daily bool) string {
	if daily {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01")
}

// buildTrend walks the window bucket by bucket, attaching each bucket's
// delta against the one immediately preceding it. For the unbounded "all"
// window the series starts at the earliest observed record.
func buildTrend[T any](values map[string]float64, win Window, now time.Time, at func(T) time.Time, records []T) []models.TrendPoint {
	start := win.Start
	if win.Period == PeriodAll {
		if len(records) == 0 {
			return []models.TrendPoint{}
		}
		start = at(records[0])
		for _, r := range records[1:] {
			if at(r).Before(start) {
				start = at(r)
			}
		}
	}

	var keys []string
	if win.DailyBuckets() {
		for d := dayStart(start); !d.After(now); d = d.AddDate(0, 0, 1) {
			keys = append(keys, d.Format("2006-01-02"))
		}
	} else {
		for m := monthStart(start); !m.After(now); m = m.AddDate(0, 1, 0) {
			keys = append(keys, m.Format("2006-01"))
		}
	}

	series := make([]models.TrendPoint, 0, len(keys))
	for i, key := range keys {
		point := models.TrendPoint{Bucket: key, Value: Round2(values[key])}
		if i > 0 {
			change := Round2(PercentChange(values[key], values[keys[i-1]]))
			point.Change = &change
			point.Trend = TrendOf(change)
		}
		series = append(series, point)
	}
	return series
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
