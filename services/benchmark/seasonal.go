package benchmark

import (
	"context"
	"math"
	"time"

	workorderRepo "marketpulse/database/repository/workorder"
	"marketpulse/models"
	"marketpulse/services/analytics"
)

// SeasonalTrends profiles the provider's demand by calendar month across
// the full history. Peak and slow months sit more than half a standard
// deviation from the mean; pattern strength comes from the coefficient of
// variation of the monthly means.
func (s *DefaultBenchmarkService) SeasonalTrends(ctx context.Context, providerID string) (*models.SeasonalTrends, error) {
	orders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{})
	if err != nil {
		return nil, analytics.NewDataUnavailableError("querying work order history", err)
	}

	trends := &models.SeasonalTrends{
		Months:     make([]models.MonthProfile, 12),
		PeakMonths: []string{},
		SlowMonths: []string{},
		Pattern:    "stable",
	}

	var counts [12]int
	years := make(map[int]struct{})
	for _, o := range orders {
		counts[int(o.CreatedAt.Month())-1]++
		years[o.CreatedAt.Year()] = struct{}{}
	}

	yearSpan := len(years)
	if yearSpan == 0 {
		yearSpan = 1
	}

	mean := 0.0
	for m := 0; m < 12; m++ {
		avg := float64(counts[m]) / float64(yearSpan)
		trends.Months[m] = models.MonthProfile{
			Month:     time.Month(m + 1).String()[:3],
			AvgOrders: analytics.Round2(avg),
		}
		mean += avg
	}
	mean /= 12

	if mean == 0 {
		return trends, nil
	}

	variance := 0.0
	for _, p := range trends.Months {
		variance += (p.AvgOrders - mean) * (p.AvgOrders - mean)
	}
	stddev := math.Sqrt(variance / 12)

	for _, p := range trends.Months {
		switch {
		case p.AvgOrders > mean+0.5*stddev:
			trends.PeakMonths = append(trends.PeakMonths, p.Month)
		case p.AvgOrders < mean-0.5*stddev:
			trends.SlowMonths = append(trends.SlowMonths, p.Month)
		}
	}

	trends.Variation = analytics.Round2(stddev / mean)
	switch {
	case trends.Variation > 0.5:
		trends.Pattern = "strong"
	case trends.Variation > 0.25:
		trends.Pattern = "moderate"
	}
	return trends, nil
}
