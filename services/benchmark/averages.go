package benchmark

import (
	"context"
	"encoding/json"
	"time"

	"marketpulse/models"
	"marketpulse/services/analytics"
	"marketpulse/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AveragesCache holds the expensive population averages between reads.
type AveragesCache interface {
	Get(ctx context.Context) (*models.PlatformAverages, error)
	Set(ctx context.Context, averages models.PlatformAverages) error
}

const averagesCacheKey = "benchmark:platform_averages"

// RedisAveragesCache caches platform averages in redis with a TTL.
type RedisAveragesCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func (c *RedisAveragesCache) Get(ctx context.Context) (*models.PlatformAverages, error) {
	val, err := c.Client.Get(ctx, averagesCacheKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var averages models.PlatformAverages
	if err := json.Unmarshal([]byte(val), &averages); err != nil {
		return nil, err
	}
	return &averages, nil
}

func (c *RedisAveragesCache) Set(ctx context.Context, averages models.PlatformAverages) error {
	data, err := json.Marshal(averages)
	if err != nil {
		return err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return c.Client.Set(ctx, averagesCacheKey, data, ttl).Err()
}

// PlatformAverages computes the population mean for each benchmarked
// metric over qualifying providers only.
func (s *DefaultBenchmarkService) PlatformAverages(ctx context.Context) (*models.PlatformAverages, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx); err != nil {
			utils.GetLogger().Warn("platform averages cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	aggregates, err := s.WorkOrders.ProviderAggregates(ctx)
	if err != nil {
		return nil, analytics.NewDataUnavailableError("querying provider aggregates", err)
	}

	averages := s.computeAverages(aggregates)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, *averages); err != nil {
			utils.GetLogger().Warn("platform averages cache write failed", zap.Error(err))
		}
	}
	return averages, nil
}

func (s *DefaultBenchmarkService) computeAverages(aggregates []models.ProviderAggregate) *models.PlatformAverages {
	averages := &models.PlatformAverages{ComputedAt: time.Now()}

	var completion, response, revenue, cancellation, rating float64
	rateSample, ratingSample := 0, 0
	for _, agg := range aggregates {
		if agg.WorkOrders >= s.minWorkOrders() {
			completion += agg.CompletionRate()
			response += agg.ResponseMinutes()
			revenue += agg.Revenue
			cancellation += agg.CancellationRate()
			rateSample++
		}
		if agg.RatedOrders >= s.minRated() {
			rating += agg.AverageRating()
			ratingSample++
		}
	}

	if rateSample > 0 {
		averages.CompletionRate = analytics.Round2(completion / float64(rateSample))
		averages.ResponseMinutes = analytics.Round2(response / float64(rateSample))
		averages.Revenue = analytics.Round2(revenue / float64(rateSample))
		averages.CancellationRate = analytics.Round2(cancellation / float64(rateSample))
	}
	if ratingSample > 0 {
		averages.Rating = analytics.Round2(rating / float64(ratingSample))
	}
	averages.SampleSize = rateSample
	return averages
}
