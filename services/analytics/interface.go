package analytics

import (
	"context"
	"time"

	paymentRepo "marketpulse/database/repository/payment"
	ratingRepo "marketpulse/database/repository/rating"
	snapshotRepo "marketpulse/database/repository/snapshot"
	workorderRepo "marketpulse/database/repository/workorder"
	"marketpulse/models"
)

// Service is the windowed-metrics surface consumed by dashboards, alerting
// and report generation.
type Service interface {
	Dashboard(ctx context.Context, providerID, period string) (*models.DashboardView, error)
	Revenue(ctx context.Context, providerID, period string) (*models.RevenueMetrics, error)
	Performance(ctx context.Context, providerID, period string) (*models.PerformanceMetrics, error)
	Customers(ctx context.Context, providerID, period string) (*models.CustomerMetrics, error)
	RealTime(ctx context.Context, providerID string) (*models.RealTimeMetrics, error)
	Queue(ctx context.Context, providerID string) (*models.QueueStatus, error)
	RecentActivity(ctx context.Context, providerID string, limit int) ([]models.ActivityItem, error)
	BasicMetrics(ctx context.Context, providerID string, forceRefresh bool) (*models.BasicMetrics, error)
	InvalidateBasicMetrics(ctx context.Context, providerID string) error
}

// DefaultAnalyticsService computes all windowed metrics from the raw record
// repositories. Calculators are stateless reads; the snapshot cache is the
// only shared mutable state, and its upsert is a single keyed write.
type DefaultAnalyticsService struct {
	WorkOrders workorderRepo.WorkOrderRepository
	Payments   paymentRepo.PaymentRepository
	Ratings    ratingRepo.RatingRepository
	Snapshots  snapshotRepo.SnapshotRepository

	CacheTTL    time.Duration
	MonthlySpan int // rolling monthly comparison span, in months

	// Clock is swappable for tests; nil means time.Now.
	Clock func() time.Time
}

func (s *DefaultAnalyticsService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultAnalyticsService) cacheTTL() time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return time.Hour
}

func (s *DefaultAnalyticsService) monthlySpan() int {
	if s.MonthlySpan > 0 {
		return s.MonthlySpan
	}
	return 12
}
