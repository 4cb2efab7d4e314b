package models

import "time"

// Comparison carries a period-over-period delta. Change is the percentage
// change of current against previous, rounded to two decimals for display.
type Comparison struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
	Trend    string  `json:"trend"` // up, down, stable
}

// TrendPoint is one bucket of a daily or monthly series. Change compares
// against the immediately preceding bucket; nil for the first bucket.
type TrendPoint struct {
	Bucket string   `json:"bucket"` // "2006-01-02" for daily, "2006-01" for monthly
	Value  float64  `json:"value"`
	Change *float64 `json:"change,omitempty"`
	Trend  string   `json:"trend,omitempty"`
}

// --- Revenue ---

type CategoryRevenue struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type StatusRevenue struct {
	Status     PaymentStatus `json:"status"`
	Amount     float64       `json:"amount"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

type MonthBucket struct {
	Month  string  `json:"month"` // "2006-01"
	Amount float64 `json:"amount"`
}

// MonthlyComparison is the rolling N-month revenue view. YearOverYear is
// the change of the most recent six buckets against the first six, present
// only when at least twelve months of data exist.
type MonthlyComparison struct {
	Months       []MonthBucket `json:"months"`
	YearOverYear *float64      `json:"year_over_year,omitempty"`
}

type RevenueMetrics struct {
	Period        string            `json:"period"`
	TotalRevenue  float64           `json:"total_revenue"`
	Comparison    *Comparison       `json:"comparison,omitempty"`
	ByCategory    []CategoryRevenue `json:"by_category"`
	Trend         []TrendPoint      `json:"trend"`
	ByStatus      []StatusRevenue   `json:"by_status"`
	MonthlyTotals MonthlyComparison `json:"monthly_totals"`
}

// --- Performance ---

// ResponseTime reports the mean first-response delay, formatted by
// magnitude: minutes under an hour, hours under a day, days otherwise.
type ResponseTime struct {
	Minutes float64 `json:"minutes"`
	Display string  `json:"display"`
	Unit    string  `json:"unit"` // minutes, hours, days
}

type ReasonCount struct {
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CategoryPerformance struct {
	Category       string  `json:"category"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	CompletionRate float64 `json:"completion_rate"`
}

// SatisfactionRate is the share of 4+ star ratings. Below the minimum
// review count the rate is withheld rather than reported on thin data.
type SatisfactionRate struct {
	Eligible   bool     `json:"eligible"`
	Percentage *float64 `json:"percentage,omitempty"`
	Positive   int      `json:"positive"`
	Total      int      `json:"total"`
}

type PerformanceMetrics struct {
	Period              string                `json:"period"`
	CompletionRate      float64               `json:"completion_rate"`
	CompletionTrend     *Comparison           `json:"completion_trend,omitempty"`
	ResponseTime        ResponseTime          `json:"response_time"`
	CancellationRate    float64               `json:"cancellation_rate"`
	VolumeTrend         []TrendPoint          `json:"volume_trend"`
	CancellationReasons []ReasonCount         `json:"cancellation_reasons"`
	ByCategory          []CategoryPerformance `json:"by_category"`
	Satisfaction        SatisfactionRate      `json:"satisfaction"`
	Score               float64               `json:"score"`
}

// --- Customer ---

type RegionCount struct {
	Region     string  `json:"region"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RegionDistribution lists the top five regions by demand. Concentration
// is the share of all requests falling in those five.
type RegionDistribution struct {
	Top           []RegionCount `json:"top"`
	Concentration float64       `json:"concentration"`
}

type TimeBucket struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type PeakTimes struct {
	Hourly   []TimeBucket `json:"hourly"`   // 24 buckets, "00".."23"
	Weekday  []TimeBucket `json:"weekday"`  // 7 buckets, Sunday first
	DayParts []TimeBucket `json:"dayparts"` // morning, afternoon, evening, night
}

// AcquisitionPoint splits one bucket's requests into first-time and
// returning customers.
type AcquisitionPoint struct {
	Bucket    string `json:"bucket"`
	New       int    `json:"new"`
	Returning int    `json:"returning"`
}

type CustomerRevenue struct {
	CustomerID string  `json:"customer_id"`
	Revenue    float64 `json:"revenue"`
	Orders     int     `json:"orders"`
}

type ValueSegments struct {
	High   int `json:"high"`   // >= 1.5x average lifetime revenue
	Medium int `json:"medium"`
	Low    int `json:"low"` // < 0.5x average
}

type RangeCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type CustomerValue struct {
	AverageRevenue float64           `json:"average_revenue"`
	Segments       ValueSegments     `json:"segments"`
	TopCustomers   []CustomerRevenue `json:"top_customers"`
	Histogram      []RangeCount      `json:"histogram"`
}

type CustomerMetrics struct {
	Period              string             `json:"period"`
	UniqueCustomers     int                `json:"unique_customers"`
	RequestsPerCustomer float64            `json:"requests_per_customer"`
	Comparison          *Comparison        `json:"comparison,omitempty"`
	RetentionRate       float64            `json:"retention_rate"` // all-time, never windowed
	Regions             RegionDistribution `json:"regions"`
	PeakTimes           PeakTimes          `json:"peak_times"`
	Acquisition         []AcquisitionPoint `json:"acquisition"`
	LifetimeValue       CustomerValue      `json:"lifetime_value"`
}

// --- Real time ---

// DayDelta compares a same-day figure against yesterday's equivalent.
type DayDelta struct {
	Today     float64 `json:"today"`
	Yesterday float64 `json:"yesterday"`
	Change    float64 `json:"change"`
}

type RealTimeMetrics struct {
	Date          string                       `json:"date"`
	StatusCounts  map[WorkOrderStatus]DayDelta `json:"status_counts"`
	CompletedPaid DayDelta                     `json:"completed_paid"`
	PendingPaid   DayDelta                     `json:"pending_paid"`
	Customers     DayDelta                     `json:"customers"`
	NewCustomers  DayDelta                     `json:"new_customers"`
	Returning     DayDelta                     `json:"returning_customers"`
	ReviewCount   DayDelta                     `json:"review_count"`
	AverageRating DayDelta                     `json:"average_rating"`
}

// QueueItem is one non-terminal work order awaiting the provider.
type QueueItem struct {
	WorkOrderID string            `json:"work_order_id"`
	Status      WorkOrderStatus   `json:"status"`
	Category    string            `json:"category"`
	Priority    WorkOrderPriority `json:"priority,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	WaitMinutes float64           `json:"wait_minutes"`
	WaitDisplay string            `json:"wait_display"`
}

// QueueStatus lists the live queue with a health flag derived from the
// oldest item's wait: critical past 24h, warning past 8h, good otherwise.
type QueueStatus struct {
	Items             []QueueItem `json:"items"`
	Health            string      `json:"health"`
	OldestWaitMinutes float64     `json:"oldest_wait_minutes"`
}

// ActivityItem is one recent event on the provider's account, newest first.
type ActivityItem struct {
	Type        string    `json:"type"` // work_order, payment, review
	ReferenceID string    `json:"reference_id"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// --- Dashboard ---

// DashboardView is the fan-out aggregate. Partial is set when at least one
// section failed; failed sections are nil and the rest are served as-is.
type DashboardView struct {
	Revenue     *RevenueMetrics     `json:"revenue,omitempty"`
	Performance *PerformanceMetrics `json:"performance,omitempty"`
	Customers   *CustomerMetrics    `json:"customers,omitempty"`
	RealTime    *RealTimeMetrics    `json:"real_time,omitempty"`
	Partial     bool                `json:"partial"`
}
