package benchmark

import (
	"context"

	"marketpulse/models"
	"marketpulse/services/analytics"
)

// lowerIsBetter marks the metrics where a smaller value ranks higher.
var lowerIsBetter = map[models.BenchmarkMetric]bool{
	models.MetricResponseTime:     true,
	models.MetricCancellationRate: true,
}

// bandOf labels a percentile.
func bandOf(percentile float64) string {
	switch {
	case percentile >= 90:
		return "Top 10%"
	case percentile >= 75:
		return "Top 25%"
	case percentile >= 50:
		return "Above Average"
	case percentile >= 25:
		return "Below Average"
	default:
		return "Bottom 25%"
	}
}

// percentileOf is the share of the population whose value is no better
// than the provider's, direction-aware.
func percentileOf(metric models.BenchmarkMetric, value float64, population []float64) float64 {
	if len(population) == 0 {
		return 0
	}
	noBetter := 0
	for _, other := range population {
		if lowerIsBetter[metric] {
			if other >= value {
				noBetter++
			}
		} else {
			if other <= value {
				noBetter++
			}
		}
	}
	return analytics.Round2(float64(noBetter) / float64(len(population)) * 100)
}

// PercentileRankings ranks the provider on every benchmarked metric. A
// provider outside the qualifying population gets zeros and an explicit
// insufficient-data flag, never an error.
func (s *DefaultBenchmarkService) PercentileRankings(ctx context.Context, providerID string) (*models.PercentileRankings, error) {
	aggregates, err := s.WorkOrders.ProviderAggregates(ctx)
	if err != nil {
		return nil, analytics.NewDataUnavailableError("querying provider aggregates", err)
	}

	var mine *models.ProviderAggregate
	for i := range aggregates {
		if aggregates[i].ProviderID == providerID {
			mine = &aggregates[i]
			break
		}
	}

	metricOrder := []models.BenchmarkMetric{
		models.MetricCompletionRate,
		models.MetricResponseTime,
		models.MetricRating,
		models.MetricRevenue,
		models.MetricCancellationRate,
	}

	if mine == nil || mine.WorkOrders < s.minWorkOrders() {
		rankings := &models.PercentileRankings{InsufficientData: true}
		for _, metric := range metricOrder {
			rankings.Metrics = append(rankings.Metrics, models.MetricPercentile{
				Metric: metric,
				Band:   bandOf(0),
			})
		}
		return rankings, nil
	}

	var ratePop, responsePop, revenuePop, cancelPop, ratingPop []float64
	for _, agg := range aggregates {
		if agg.WorkOrders >= s.minWorkOrders() {
			ratePop = append(ratePop, agg.CompletionRate())
			responsePop = append(responsePop, agg.ResponseMinutes())
			revenuePop = append(revenuePop, agg.Revenue)
			cancelPop = append(cancelPop, agg.CancellationRate())
		}
		if agg.RatedOrders >= s.minRated() {
			ratingPop = append(ratingPop, agg.AverageRating())
		}
	}

	rankings := &models.PercentileRankings{}
	add := func(metric models.BenchmarkMetric, value float64, population []float64, qualified bool) {
		entry := models.MetricPercentile{Metric: metric, Value: analytics.Round2(value)}
		if qualified {
			entry.Percentile = percentileOf(metric, value, population)
		}
		entry.Band = bandOf(entry.Percentile)
		rankings.Metrics = append(rankings.Metrics, entry)
	}

	add(models.MetricCompletionRate, mine.CompletionRate(), ratePop, true)
	add(models.MetricResponseTime, mine.ResponseMinutes(), responsePop, true)
	add(models.MetricRating, mine.AverageRating(), ratingPop, mine.RatedOrders >= s.minRated())
	add(models.MetricRevenue, mine.Revenue, revenuePop, true)
	add(models.MetricCancellationRate, mine.CancellationRate(), cancelPop, true)
	return rankings, nil
}
