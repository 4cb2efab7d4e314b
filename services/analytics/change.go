package analytics

import (
	"math"

	"marketpulse/models"
)

// PercentChange computes period-over-period change with the shared edge
// rules: growth from zero is pinned at 100, zero to zero is 0.
func PercentChange(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

// Round2 rounds to two decimal places for display. Intermediate math keeps
// full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place, used for displayed average ratings.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// TrendOf classifies a change: stable only at exactly zero.
func TrendOf(change float64) string {
	switch {
	case change > 0:
		return "up"
	case change < 0:
		return "down"
	default:
		return "stable"
	}
}

// NewComparison builds a display-rounded period-over-period delta.
func NewComparison(current, previous float64) *models.Comparison {
	change := Round2(PercentChange(current, previous))
	return &models.Comparison{
		Current:  Round2(current),
		Previous: Round2(previous),
		Change:   change,
		Trend:    TrendOf(change),
	}
}
