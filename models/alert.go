package models

import "time"

// AlertMetricType names a metric a provider can set a threshold on.
type AlertMetricType string

const (
	AlertCompletionRate   AlertMetricType = "completion_rate"
	AlertResponseTime     AlertMetricType = "response_time"
	AlertCancellationRate AlertMetricType = "cancellation_rate"
	AlertRating           AlertMetricType = "rating"
	AlertEarnings         AlertMetricType = "earnings"
	AlertRequestCount     AlertMetricType = "request_count"
)

// AlertOperator is the comparison a threshold applies to the live value.
type AlertOperator string

const (
	OperatorAbove  AlertOperator = "above"
	OperatorBelow  AlertOperator = "below"
	OperatorEquals AlertOperator = "equals"
)

// AlertSeverity grades a triggered alert by deviation magnitude.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// AlertThreshold is a provider-configured rule. The analytics core only
// reads it and stamps last_triggered_at when it fires.
type AlertThreshold struct {
	ID              string          `bson:"id" json:"id"`
	ProviderID      string          `bson:"provider_id" json:"provider_id"`
	MetricType      AlertMetricType `bson:"metric_type" json:"metric_type"`
	Operator        AlertOperator   `bson:"operator" json:"operator"`
	ThresholdValue  float64         `bson:"threshold_value" json:"threshold_value"`
	IsActive        bool            `bson:"is_active" json:"is_active"`
	LastTriggeredAt *time.Time      `bson:"last_triggered_at,omitempty" json:"last_triggered_at,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
}

// TriggeredAlert is one fired rule with its formatted message.
type TriggeredAlert struct {
	ThresholdID    string          `json:"threshold_id"`
	MetricType     AlertMetricType `json:"metric_type"`
	Operator       AlertOperator   `json:"operator"`
	ThresholdValue float64         `json:"threshold_value"`
	CurrentValue   float64         `json:"current_value"`
	Message        string          `json:"message"`
	Severity       AlertSeverity   `json:"severity"`
	TriggeredAt    time.Time       `json:"triggered_at"`
}
