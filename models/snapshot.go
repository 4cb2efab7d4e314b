package models

import "time"

// MetricSnapshot is the cached basic metric bundle for one provider. Rows
// are upserted keyed on provider_id and never deleted; invalidation marks
// the row stale and back-dates computed_at so the last-known-good value
// survives a failed recompute.
type MetricSnapshot struct {
	ProviderID         string      `bson:"provider_id" json:"provider_id"`
	AverageRating      float64     `bson:"average_rating" json:"average_rating"` // one fraction digit
	TotalReviews       int         `bson:"total_reviews" json:"total_reviews"`
	RatingDistribution map[int]int `bson:"rating_distribution" json:"rating_distribution"` // keys 1..5 always present
	Reviews30Days      int         `bson:"reviews_30_days" json:"reviews_30_days"`
	Reviews6Months     int         `bson:"reviews_6_months" json:"reviews_6_months"`
	Stale              bool        `bson:"stale" json:"stale"`
	ComputedAt         time.Time   `bson:"computed_at" json:"computed_at"`
}

// BasicMetrics is the snapshot as served to callers, tagged with its origin.
type BasicMetrics struct {
	MetricSnapshot
	FromCache bool `json:"from_cache"`
}
