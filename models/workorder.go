package models

import "time"

// WorkOrderStatus is the lifecycle status of a work order. Transitions are
// owned by the booking surface; analytics treats the status as a fact at
// query time.
type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "Pending"
	WorkOrderAccepted   WorkOrderStatus = "Accepted"
	WorkOrderInProgress WorkOrderStatus = "InProgress"
	WorkOrderCompleted  WorkOrderStatus = "Completed"
	WorkOrderCancelled  WorkOrderStatus = "Cancelled"
	WorkOrderRejected   WorkOrderStatus = "Rejected"
)

// AcceptedSuperset holds the statuses that represent work the provider
// actually took on. It is the denominator for completion rate.
var AcceptedSuperset = []WorkOrderStatus{
	WorkOrderAccepted,
	WorkOrderInProgress,
	WorkOrderCompleted,
	WorkOrderCancelled,
}

// WorkOrderPriority orders the live queue: Urgent > High > Normal > Low,
// with unspecified last.
type WorkOrderPriority string

const (
	PriorityUrgent WorkOrderPriority = "Urgent"
	PriorityHigh   WorkOrderPriority = "High"
	PriorityNormal WorkOrderPriority = "Normal"
	PriorityLow    WorkOrderPriority = "Low"
)

// WorkOrder represents one unit of service demand for a provider.
type WorkOrder struct {
	ID                 string            `bson:"id" json:"id"`
	ProviderID         string            `bson:"provider_id" json:"provider_id"`
	CustomerID         string            `bson:"customer_id" json:"customer_id"`
	Status             WorkOrderStatus   `bson:"status" json:"status"`
	Category           string            `bson:"category" json:"category"`
	Priority           WorkOrderPriority `bson:"priority,omitempty" json:"priority,omitempty"`
	LocationKey        string            `bson:"location_key,omitempty" json:"location_key,omitempty"` // opaque geographic grouping key
	CancellationReason string            `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	FirstResponseAt    *time.Time        `bson:"first_response_at,omitempty" json:"first_response_at,omitempty"` // first outbound message, if any
	CreatedAt          time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `bson:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether the order has left the live queue.
func (w WorkOrder) IsTerminal() bool {
	return w.Status == WorkOrderCompleted || w.Status == WorkOrderCancelled || w.Status == WorkOrderRejected
}

// InAcceptedSuperset reports whether the order counts toward the
// completion-rate denominator.
func (w WorkOrder) InAcceptedSuperset() bool {
	for _, s := range AcceptedSuperset {
		if w.Status == s {
			return true
		}
	}
	return false
}
