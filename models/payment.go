package models

import "time"

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

// AllPaymentStatuses lists every settlement state, in display order.
var AllPaymentStatuses = []PaymentStatus{
	PaymentPending,
	PaymentCompleted,
	PaymentFailed,
	PaymentRefunded,
}

// Payment is tied 1:1 to a work order. Provider, customer and category are
// denormalized from the work order so revenue queries avoid a join.
type Payment struct {
	ID          string        `bson:"id" json:"id"`
	WorkOrderID string        `bson:"work_order_id" json:"work_order_id"`
	ProviderID  string        `bson:"provider_id" json:"provider_id"`
	CustomerID  string        `bson:"customer_id" json:"customer_id"`
	Category    string        `bson:"category,omitempty" json:"category,omitempty"`
	Amount      float64       `bson:"amount" json:"amount"` // non-negative
	Status      PaymentStatus `bson:"status" json:"status"`
	PaymentDate time.Time     `bson:"payment_date" json:"payment_date"`
}

// Rating is tied 1:1 to a completed work order.
type Rating struct {
	ID          string    `bson:"id" json:"id"`
	WorkOrderID string    `bson:"work_order_id" json:"work_order_id"`
	ProviderID  string    `bson:"provider_id" json:"provider_id"`
	CustomerID  string    `bson:"customer_id" json:"customer_id"`
	Value       int       `bson:"value" json:"value"` // 1..5
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
