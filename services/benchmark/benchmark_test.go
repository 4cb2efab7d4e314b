package benchmark

import (
	"context"
	"testing"
	"time"

	workorderRepo "marketpulse/database/repository/workorder"
	"marketpulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorkOrderRepo struct {
	orders     []models.WorkOrder
	aggregates []models.ProviderAggregate
	err        error
}

func (f *fakeWorkOrderRepo) Query(_ context.Context, providerID string, _ workorderRepo.Filter) ([]models.WorkOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.WorkOrder
	for _, o := range f.orders {
		if o.ProviderID == providerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeWorkOrderRepo) ProviderAggregates(_ context.Context) ([]models.ProviderAggregate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.aggregates, nil
}

type memoryCache struct {
	stored *models.PlatformAverages
	gets   int
	sets   int
}

func (c *memoryCache) Get(_ context.Context) (*models.PlatformAverages, error) {
	c.gets++
	return c.stored, nil
}

func (c *memoryCache) Set(_ context.Context, averages models.PlatformAverages) error {
	c.sets++
	c.stored = &averages
	return nil
}

// aggregate builds a provider tally whose derived completion rate is
// completed/accepted and whose rating is ratingSum/rated.
func aggregate(provider string, workOrders, accepted, completed, cancelled int, responseMinutes, revenue float64, ratingSum float64, rated int) models.ProviderAggregate {
	return models.ProviderAggregate{
		ProviderID:           provider,
		WorkOrders:           workOrders,
		AcceptedSuperset:     accepted,
		Completed:            completed,
		Cancelled:            cancelled,
		ResponseMinutesTotal: responseMinutes * float64(workOrders),
		Responded:            workOrders,
		Revenue:              revenue,
		RatingSum:            ratingSum,
		RatedOrders:          rated,
	}
}

func TestPlatformAveragesSkipsThinProviders(t *testing.T) {
	repo := &fakeWorkOrderRepo{aggregates: []models.ProviderAggregate{
		aggregate("p1", 10, 10, 8, 1, 30, 1000, 45, 10), // qualifies for both
		aggregate("p2", 10, 10, 6, 2, 60, 500, 8, 2),    // rating sample too thin
		aggregate("p3", 2, 2, 2, 0, 5, 9000, 10, 2),     // too few work orders
	}}
	svc := &DefaultBenchmarkService{WorkOrders: repo, MinWorkOrders: 5, MinRated: 3}

	averages, err := svc.PlatformAverages(context.Background())
	require.NoError(t, err)

	// p3 is excluded everywhere, p2 only from the rating mean.
	assert.Equal(t, 2, averages.SampleSize)
	assert.Equal(t, 70.0, averages.CompletionRate) // (80 + 60) / 2
	assert.Equal(t, 45.0, averages.ResponseMinutes)
	assert.Equal(t, 750.0, averages.Revenue)
	assert.Equal(t, 4.5, averages.Rating) // only p1 qualifies
}

func TestPlatformAveragesCacheReadThrough(t *testing.T) {
	repo := &fakeWorkOrderRepo{aggregates: []models.ProviderAggregate{
		aggregate("p1", 10, 10, 8, 1, 30, 1000, 45, 10),
	}}
	cache := &memoryCache{}
	svc := &DefaultBenchmarkService{WorkOrders: repo, Cache: cache}

	first, err := svc.PlatformAverages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache; the repo result no longer matters.
	repo.aggregates = nil
	second, err := svc.PlatformAverages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.CompletionRate, second.CompletionRate)
	assert.Equal(t, 1, cache.sets)
}

func TestPercentileRankingsDirectionAware(t *testing.T) {
	// Three qualifying providers. p1 has the best completion rate and the
	// best (lowest) response time.
	repo := &fakeWorkOrderRepo{aggregates: []models.ProviderAggregate{
		aggregate("p1", 10, 10, 9, 0, 10, 3000, 45, 10),
		aggregate("p2", 10, 10, 6, 2, 60, 2000, 40, 10),
		aggregate("p3", 10, 10, 3, 4, 120, 1000, 30, 10),
	}}
	svc := &DefaultBenchmarkService{WorkOrders: repo}

	rankings, err := svc.PercentileRankings(context.Background(), "p1")
	require.NoError(t, err)
	require.False(t, rankings.InsufficientData)
	require.Len(t, rankings.Metrics, 5)

	byMetric := make(map[models.BenchmarkMetric]models.MetricPercentile)
	for _, m := range rankings.Metrics {
		byMetric[m.Metric] = m
	}

	completion := byMetric[models.MetricCompletionRate]
	assert.Equal(t, 90.0, completion.Value)
	assert.Equal(t, 100.0, completion.Percentile)
	assert.Equal(t, "Top 10%", completion.Band)

	// Lowest response time ranks highest because lower is better.
	response := byMetric[models.MetricResponseTime]
	assert.Equal(t, 100.0, response.Percentile)

	worst, err := svc.PercentileRankings(context.Background(), "p3")
	require.NoError(t, err)
	for _, m := range worst.Metrics {
		if m.Metric == models.MetricCompletionRate {
			// Only p3 itself is no better: 1 of 3.
			assert.Equal(t, 33.33, m.Percentile)
			assert.Equal(t, "Below Average", m.Band)
		}
	}
}

func TestPercentileRankingsInsufficientData(t *testing.T) {
	repo := &fakeWorkOrderRepo{aggregates: []models.ProviderAggregate{
		aggregate("p1", 2, 2, 2, 0, 10, 100, 10, 2),
		aggregate("p2", 10, 10, 8, 1, 30, 1000, 45, 10),
	}}
	svc := &DefaultBenchmarkService{WorkOrders: repo}

	rankings, err := svc.PercentileRankings(context.Background(), "p1")
	require.NoError(t, err)

	assert.True(t, rankings.InsufficientData)
	require.Len(t, rankings.Metrics, 5)
	for _, m := range rankings.Metrics {
		assert.Equal(t, 0.0, m.Percentile)
		assert.Equal(t, "Bottom 25%", m.Band)
	}
}

func TestPercentileRankingsUnknownProvider(t *testing.T) {
	repo := &fakeWorkOrderRepo{aggregates: []models.ProviderAggregate{
		aggregate("p1", 10, 10, 8, 1, 30, 1000, 45, 10),
	}}
	svc := &DefaultBenchmarkService{WorkOrders: repo}

	rankings, err := svc.PercentileRankings(context.Background(), "ghost")
	require.NoError(t, err)
	assert.True(t, rankings.InsufficientData)
}

func TestImprovementSuggestionsPrioritiesAndOrdering(t *testing.T) {
	// p1 trails completion by 30 points (high) and leads on everything else.
	repo := &fakeWorkOrderRepo{aggregates: []models.ProviderAggregate{
		aggregate("p1", 10, 10, 5, 0, 10, 5000, 48, 10),
		aggregate("p2", 10, 10, 8, 2, 60, 1000, 35, 10),
		aggregate("p3", 10, 10, 8, 2, 60, 1000, 35, 10),
	}}
	svc := &DefaultBenchmarkService{WorkOrders: repo}

	suggestions, assessment, err := svc.ImprovementSuggestions(context.Background(), "p1")
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	// High priorities sort before medium, strengths last.
	assert.Equal(t, models.MetricCompletionRate, suggestions[0].Metric)
	assert.Equal(t, "high", suggestions[0].Priority)
	assert.Equal(t, "improvement", suggestions[0].Type)

	last := suggestions[len(suggestions)-1]
	assert.Equal(t, "strength", last.Type)
	assert.Empty(t, last.Priority)

	assert.Contains(t, assessment, "urgent")
}

func TestImprovementSuggestionsAllStrengths(t *testing.T) {
	repo := &fakeWorkOrderRepo{aggregates: []models.ProviderAggregate{
		aggregate("p1", 10, 10, 10, 0, 10, 5000, 50, 10),
		aggregate("p2", 10, 10, 5, 3, 90, 1000, 30, 10),
	}}
	svc := &DefaultBenchmarkService{WorkOrders: repo}

	suggestions, assessment, err := svc.ImprovementSuggestions(context.Background(), "p1")
	require.NoError(t, err)

	for _, s := range suggestions {
		assert.Equal(t, "strength", s.Type)
	}
	assert.Contains(t, assessment, "at or above")
}

func TestImprovementSuggestionsReviewNudge(t *testing.T) {
	// Many completions but almost no reviews triggers the standing nudge.
	repo := &fakeWorkOrderRepo{aggregates: []models.ProviderAggregate{
		aggregate("p1", 20, 20, 15, 0, 10, 5000, 10, 2),
		aggregate("p2", 10, 10, 8, 1, 30, 1000, 40, 10),
	}}
	svc := &DefaultBenchmarkService{WorkOrders: repo}

	suggestions, _, err := svc.ImprovementSuggestions(context.Background(), "p1")
	require.NoError(t, err)

	found := false
	for _, s := range suggestions {
		if s.Metric == models.MetricRating && s.Current == 2 {
			found = true
			assert.Contains(t, s.Message, "reviews")
		}
	}
	assert.True(t, found, "expected the review-count nudge")
}

func TestSeasonalTrendsDetectsPeaks(t *testing.T) {
	var orders []models.WorkOrder
	mk := func(month time.Month, year, n int) {
		for i := 0; i < n; i++ {
			orders = append(orders, models.WorkOrder{
				ID:         time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("20060102") + string(rune('a'+i)),
				ProviderID: "p1",
				Status:     models.WorkOrderCompleted,
				CreatedAt:  time.Date(year, month, 2+i, 10, 0, 0, 0, time.UTC),
			})
		}
	}
	// Two years of history with a strong summer spike.
	for _, year := range []int{2024, 2025} {
		mk(time.June, year, 20)
		mk(time.July, year, 20)
		mk(time.January, year, 2)
		mk(time.February, year, 2)
		mk(time.March, year, 2)
	}
	svc := &DefaultBenchmarkService{WorkOrders: &fakeWorkOrderRepo{orders: orders}}

	trends, err := svc.SeasonalTrends(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, trends.Months, 12)
	assert.Contains(t, trends.PeakMonths, "Jun")
	assert.Contains(t, trends.PeakMonths, "Jul")
	assert.NotContains(t, trends.PeakMonths, "Jan")
	assert.Equal(t, "strong", trends.Pattern)
	assert.Greater(t, trends.Variation, 0.5)

	jun := trends.Months[5]
	assert.Equal(t, "Jun", jun.Month)
	assert.Equal(t, 20.0, jun.AvgOrders) // 40 orders over 2 years
}

func TestSeasonalTrendsEmptyHistory(t *testing.T) {
	svc := &DefaultBenchmarkService{WorkOrders: &fakeWorkOrderRepo{}}

	trends, err := svc.SeasonalTrends(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "stable", trends.Pattern)
	assert.Empty(t, trends.PeakMonths)
	assert.Empty(t, trends.SlowMonths)
	assert.Equal(t, 0.0, trends.Variation)
}
