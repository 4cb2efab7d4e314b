package benchmark

import (
	"context"
	"fmt"
	"sort"

	"marketpulse/models"
	"marketpulse/services/analytics"
)

// High-priority gap thresholds per metric. A provider trailing the
// platform average by more than these gets a high-priority suggestion.
const (
	completionGapHigh   = 10.0 // percentage points
	responseGapHigh     = 60.0 // minutes
	ratingGapHigh       = 0.5  // stars
	cancellationGapHigh = 5.0  // percentage points
)

// Floors for the standing review-count suggestion.
const (
	reviewSuggestionMaxReviews  = 5
	reviewSuggestionMinComplete = 10
)

// ImprovementSuggestions diffs the provider against the platform averages.
// Each trailing metric yields an improvement entry, each leading one a
// strength; the textual assessment summarizes the overall standing.
func (s *DefaultBenchmarkService) ImprovementSuggestions(ctx context.Context, providerID string) ([]models.Suggestion, string, error) {
	averages, err := s.PlatformAverages(ctx)
	if err != nil {
		return nil, "", err
	}

	aggregates, err := s.WorkOrders.ProviderAggregates(ctx)
	if err != nil {
		return nil, "", analytics.NewDataUnavailableError("querying provider aggregates", err)
	}

	var mine models.ProviderAggregate
	mine.ProviderID = providerID
	for _, agg := range aggregates {
		if agg.ProviderID == providerID {
			mine = agg
			break
		}
	}

	var suggestions []models.Suggestion

	diff := func(metric models.BenchmarkMetric, current, average, highGap float64, improveMsg, strengthMsg string) {
		entry := models.Suggestion{
			Metric:  metric,
			Current: analytics.Round2(current),
			Average: analytics.Round2(average),
		}
		gap := average - current
		if lowerIsBetter[metric] {
			gap = current - average
		}
		if gap > 0 {
			entry.Type = "improvement"
			entry.Priority = "medium"
			if highGap > 0 && gap > highGap {
				entry.Priority = "high"
			}
			entry.Message = improveMsg
		} else {
			entry.Type = "strength"
			entry.Message = strengthMsg
		}
		suggestions = append(suggestions, entry)
	}

	diff(models.MetricCompletionRate, mine.CompletionRate(), averages.CompletionRate, completionGapHigh,
		fmt.Sprintf("Your completion rate of %.2f%% is below the platform average of %.2f%%. Completing more accepted jobs lifts your ranking.", mine.CompletionRate(), averages.CompletionRate),
		"Your completion rate is at or above the platform average.")
	diff(models.MetricResponseTime, mine.ResponseMinutes(), averages.ResponseMinutes, responseGapHigh,
		fmt.Sprintf("You respond in %.0f minutes on average against a platform average of %.0f. Faster first responses win more work.", mine.ResponseMinutes(), averages.ResponseMinutes),
		"Your response time beats the platform average.")
	diff(models.MetricRating, mine.AverageRating(), averages.Rating, ratingGapHigh,
		fmt.Sprintf("Your average rating of %.1f trails the platform average of %.1f.", mine.AverageRating(), averages.Rating),
		"Your rating is at or above the platform average.")
	diff(models.MetricRevenue, mine.Revenue, averages.Revenue, 0,
		fmt.Sprintf("Your revenue of $%.2f is below the platform average of $%.2f.", mine.Revenue, averages.Revenue),
		"Your revenue is at or above the platform average.")
	diff(models.MetricCancellationRate, mine.CancellationRate(), averages.CancellationRate, cancellationGapHigh,
		fmt.Sprintf("Your cancellation rate of %.2f%% exceeds the platform average of %.2f%%.", mine.CancellationRate(), averages.CancellationRate),
		"Your cancellation rate is at or below the platform average.")

	// Plenty of finished work but few reviews: a standing nudge regardless
	// of how the averages compare.
	if mine.RatedOrders < reviewSuggestionMaxReviews && mine.Completed > reviewSuggestionMinComplete {
		suggestions = append(suggestions, models.Suggestion{
			Metric:   models.MetricRating,
			Type:     "improvement",
			Priority: "medium",
			Message:  "You have completed many jobs but hold few reviews. Asking satisfied customers for a rating strengthens your profile.",
			Current:  float64(mine.RatedOrders),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return priorityRank(suggestions[i]) < priorityRank(suggestions[j])
	})

	return suggestions, assess(suggestions), nil
}

func priorityRank(s models.Suggestion) int {
	switch {
	case s.Priority == "high":
		return 0
	case s.Priority == "medium":
		return 1
	default:
		return 2
	}
}

func assess(suggestions []models.Suggestion) string {
	improvements, highs := 0, 0
	for _, s := range suggestions {
		if s.Type == "improvement" {
			improvements++
			if s.Priority == "high" {
				highs++
			}
		}
	}
	switch {
	case improvements == 0:
		return "You are performing at or above the platform benchmark on every metric."
	case highs > 0:
		return fmt.Sprintf("You have %d metric(s) with urgent gaps against the platform benchmark.", highs)
	default:
		return "You are close to the platform benchmark with minor gaps to close."
	}
}
