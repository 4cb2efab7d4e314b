package models

import "time"

// BenchmarkMetric names a metric the platform benchmarks providers on.
type BenchmarkMetric string

const (
	MetricCompletionRate   BenchmarkMetric = "completion_rate"
	MetricResponseTime     BenchmarkMetric = "response_time"
	MetricRating           BenchmarkMetric = "rating"
	MetricRevenue          BenchmarkMetric = "revenue"
	MetricCancellationRate BenchmarkMetric = "cancellation_rate"
)

// ProviderAggregate is one provider's population-wide raw tallies, as
// produced by the grouped collection scans. Derived rates come from these.
type ProviderAggregate struct {
	ProviderID           string  `bson:"provider_id" json:"provider_id"`
	WorkOrders           int     `bson:"work_orders" json:"work_orders"`
	AcceptedSuperset     int     `bson:"accepted_superset" json:"accepted_superset"`
	Completed            int     `bson:"completed" json:"completed"`
	Cancelled            int     `bson:"cancelled" json:"cancelled"`
	ResponseMinutesTotal float64 `bson:"response_minutes_total" json:"response_minutes_total"`
	Responded            int     `bson:"responded" json:"responded"`
	Revenue              float64 `bson:"revenue" json:"revenue"`
	RatingSum            float64 `bson:"rating_sum" json:"rating_sum"`
	RatedOrders          int     `bson:"rated_orders" json:"rated_orders"`
}

// CompletionRate derives the percentage of accepted work completed.
func (a ProviderAggregate) CompletionRate() float64 {
	if a.AcceptedSuperset == 0 {
		return 0
	}
	return float64(a.Completed) / float64(a.AcceptedSuperset) * 100
}

// CancellationRate derives the percentage of all work orders cancelled.
func (a ProviderAggregate) CancellationRate() float64 {
	if a.WorkOrders == 0 {
		return 0
	}
	return float64(a.Cancelled) / float64(a.WorkOrders) * 100
}

// ResponseMinutes derives the mean first-response delay in minutes.
func (a ProviderAggregate) ResponseMinutes() float64 {
	if a.Responded == 0 {
		return 0
	}
	return a.ResponseMinutesTotal / float64(a.Responded)
}

// AverageRating derives the mean rating over rated orders.
func (a ProviderAggregate) AverageRating() float64 {
	if a.RatedOrders == 0 {
		return 0
	}
	return a.RatingSum / float64(a.RatedOrders)
}

// PlatformAverages holds population means over qualifying providers only.
type PlatformAverages struct {
	CompletionRate   float64   `json:"completion_rate"`
	ResponseMinutes  float64   `json:"response_minutes"`
	Rating           float64   `json:"rating"`
	Revenue          float64   `json:"revenue"`
	CancellationRate float64   `json:"cancellation_rate"`
	SampleSize       int       `json:"sample_size"`
	ComputedAt       time.Time `json:"computed_at"`
}

// MetricPercentile is one metric's standing against the population.
type MetricPercentile struct {
	Metric     BenchmarkMetric `json:"metric"`
	Value      float64         `json:"value"`
	Percentile float64         `json:"percentile"`
	Band       string          `json:"band"`
}

// PercentileRankings covers all benchmarked metrics. When the provider is
// not in the qualifying population every percentile is zero and
// InsufficientData is set instead of failing.
type PercentileRankings struct {
	InsufficientData bool               `json:"insufficient_data"`
	Metrics          []MetricPercentile `json:"metrics"`
}

// Suggestion is one improvement or strength entry from the benchmark diff.
type Suggestion struct {
	Metric   BenchmarkMetric `json:"metric"`
	Type     string          `json:"type"`     // improvement, strength
	Priority string          `json:"priority"` // high, medium; empty for strengths
	Message  string          `json:"message"`
	Current  float64         `json:"current"`
	Average  float64         `json:"average"`
}

// MonthProfile is one calendar month's mean demand across years.
type MonthProfile struct {
	Month     string  `json:"month"` // "Jan".."Dec"
	AvgOrders float64 `json:"avg_orders"`
}

// SeasonalTrends is the calendar-month demand profile. Variation is the
// coefficient of variation of the monthly means.
type SeasonalTrends struct {
	Months     []MonthProfile `json:"months"`
	PeakMonths []string       `json:"peak_months"`
	SlowMonths []string       `json:"slow_months"`
	Pattern    string         `json:"pattern"` // strong, moderate, stable
	Variation  float64        `json:"variation"`
}

// BenchmarkReport is the full benchmarking response for one provider.
type BenchmarkReport struct {
	Averages    PlatformAverages   `json:"platform_averages"`
	Rankings    PercentileRankings `json:"percentile_rankings"`
	Suggestions []Suggestion       `json:"suggestions"`
	Assessment  string             `json:"assessment"`
	YearOverYear *float64          `json:"year_over_year,omitempty"`
	Seasonal    SeasonalTrends     `json:"seasonal_trends"`
}
