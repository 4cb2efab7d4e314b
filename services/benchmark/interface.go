package benchmark

import (
	"context"

	workorderRepo "marketpulse/database/repository/workorder"
	"marketpulse/models"
	"marketpulse/services/analytics"
)

// Service ranks a provider against the platform population and derives
// improvement suggestions from the gap.
type Service interface {
	PlatformAverages(ctx context.Context) (*models.PlatformAverages, error)
	PercentileRankings(ctx context.Context, providerID string) (*models.PercentileRankings, error)
	ImprovementSuggestions(ctx context.Context, providerID string) ([]models.Suggestion, string, error)
	SeasonalTrends(ctx context.Context, providerID string) (*models.SeasonalTrends, error)
	Benchmarks(ctx context.Context, providerID string) (*models.BenchmarkReport, error)
}

// DefaultBenchmarkService computes population statistics from the grouped
// provider aggregates. The sample floors keep one lucky data point from
// skewing an average.
type DefaultBenchmarkService struct {
	WorkOrders workorderRepo.WorkOrderRepository
	Analytics  analytics.Service
	Cache      AveragesCache // optional; nil disables caching

	MinWorkOrders int // floor for rate and revenue metrics
	MinRated      int // floor for the rating metric
}

func (s *DefaultBenchmarkService) minWorkOrders() int {
	if s.MinWorkOrders > 0 {
		return s.MinWorkOrders
	}
	return 5
}

func (s *DefaultBenchmarkService) minRated() int {
	if s.MinRated > 0 {
		return s.MinRated
	}
	return 3
}

// Benchmarks assembles the full benchmarking response for one provider.
func (s *DefaultBenchmarkService) Benchmarks(ctx context.Context, providerID string) (*models.BenchmarkReport, error) {
	averages, err := s.PlatformAverages(ctx)
	if err != nil {
		return nil, err
	}
	rankings, err := s.PercentileRankings(ctx, providerID)
	if err != nil {
		return nil, err
	}
	suggestions, assessment, err := s.ImprovementSuggestions(ctx, providerID)
	if err != nil {
		return nil, err
	}
	seasonal, err := s.SeasonalTrends(ctx, providerID)
	if err != nil {
		return nil, err
	}

	report := &models.BenchmarkReport{
		Averages:    *averages,
		Rankings:    *rankings,
		Suggestions: suggestions,
		Assessment:  assessment,
		Seasonal:    *seasonal,
	}

	// Year over year rides on the rolling monthly revenue comparison.
	if revenue, err := s.Analytics.Revenue(ctx, providerID, string(analytics.Period30Days)); err == nil {
		report.YearOverYear = revenue.MonthlyTotals.YearOverYear
	}
	return report, nil
}
