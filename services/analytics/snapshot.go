package analytics

import (
	"context"

	ratingRepo "marketpulse/database/repository/rating"
	"marketpulse/models"
	"marketpulse/utils"

	"go.uber.org/zap"
)

// BasicMetrics is the read-through snapshot cache for the most frequently
// read aggregate: average rating, distribution and review counts. A fresh
// snapshot is served as-is; otherwise the bundle is recomputed and upserted
// in one keyed write. Concurrent refreshes are idempotent, last write wins.
func (s *DefaultAnalyticsService) BasicMetrics(ctx context.Context, providerID string, forceRefresh bool) (*models.BasicMetrics, error) {
	if !forceRefresh {
		snap, err := s.Snapshots.Get(ctx, providerID)
		if err != nil {
			utils.GetLogger().Warn("snapshot read failed, recomputing",
				zap.String("providerID", providerID), zap.Error(err))
		} else if snap != nil && !snap.Stale && s.now().Sub(snap.ComputedAt) < s.cacheTTL() {
			return &models.BasicMetrics{MetricSnapshot: *snap, FromCache: true}, nil
		}
	}

	snap, err := s.computeSnapshot(ctx, providerID)
	if err != nil {
		// Serve the last-known-good snapshot when recompute fails; the row
		// is never deleted, only marked stale.
		if prev, gerr := s.Snapshots.Get(ctx, providerID); gerr == nil && prev != nil {
			utils.GetLogger().Warn("snapshot recompute failed, serving stale",
				zap.String("providerID", providerID), zap.Error(err))
			return &models.BasicMetrics{MetricSnapshot: *prev, FromCache: true}, nil
		}
		return nil, NewDataUnavailableError("computing basic metrics", err)
	}

	if err := s.Snapshots.Upsert(ctx, *snap); err != nil {
		// The computed value is still good; only the cache write failed.
		utils.GetLogger().Warn("snapshot upsert failed",
			zap.String("providerID", providerID), zap.Error(err))
	}
	return &models.BasicMetrics{MetricSnapshot: *snap, FromCache: false}, nil
}

// InvalidateBasicMetrics forces the next read to recompute without
// discarding the last-known-good row.
func (s *DefaultAnalyticsService) InvalidateBasicMetrics(ctx context.Context, providerID string) error {
	if err := s.Snapshots.Invalidate(ctx, providerID); err != nil {
		return NewDataUnavailableError("invalidating snapshot", err)
	}
	return nil
}

func (s *DefaultAnalyticsService) computeSnapshot(ctx context.Context, providerID string) (*models.MetricSnapshot, error) {
	now := s.now()
	ratings, err := s.Ratings.Query(ctx, providerID, ratingRepo.Filter{})
	if err != nil {
		return nil, err
	}

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	sum := 0
	last30 := now.AddDate(0, 0, -30)
	last6mo := now.AddDate(0, -6, 0)
	reviews30, reviews6mo := 0, 0
	for _, r := range ratings {
		if r.Value >= 1 && r.Value <= 5 {
			distribution[r.Value]++
		}
		sum += r.Value
		if !r.CreatedAt.Before(last30) {
			reviews30++
		}
		if !r.CreatedAt.Before(last6mo) {
			reviews6mo++
		}
	}

	avg := 0.0
	if len(ratings) > 0 {
		avg = Round1(float64(sum) / float64(len(ratings)))
	}

	return &models.MetricSnapshot{
		ProviderID:         providerID,
		AverageRating:      avg,
		TotalReviews:       len(ratings),
		RatingDistribution: distribution,
		Reviews30Days:      reviews30,
		Reviews6Months:     reviews6mo,
		Stale:              false,
		ComputedAt:         now,
	}, nil
}
