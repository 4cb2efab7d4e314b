package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	paymentRepo "marketpulse/database/repository/payment"
	ratingRepo "marketpulse/database/repository/rating"
	workorderRepo "marketpulse/database/repository/workorder"
	"marketpulse/models"
)

var allStatuses = []models.WorkOrderStatus{
	models.WorkOrderPending,
	models.WorkOrderAccepted,
	models.WorkOrderInProgress,
	models.WorkOrderCompleted,
	models.WorkOrderCancelled,
	models.WorkOrderRejected,
}

// RealTime computes same-day activity, each figure compared against
// yesterday's equivalent.
func (s *DefaultAnalyticsService) RealTime(ctx context.Context, providerID string) (*models.RealTimeMetrics, error) {
	now := s.now()
	today := dayStart(now)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	todayOrders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{From: &today, To: &tomorrow})
	if err != nil {
		return nil, NewDataUnavailableError("querying today's work orders", err)
	}
	yesterdayOrders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{From: &yesterday, To: &today})
	if err != nil {
		return nil, NewDataUnavailableError("querying yesterday's work orders", err)
	}
	allOrders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{})
	if err != nil {
		return nil, NewDataUnavailableError("querying work order history", err)
	}
	todayPayments, err := s.Payments.Query(ctx, providerID, paymentRepo.Filter{From: &today, To: &tomorrow})
	if err != nil {
		return nil, NewDataUnavailableError("querying today's payments", err)
	}
	yesterdayPayments, err := s.Payments.Query(ctx, providerID, paymentRepo.Filter{From: &yesterday, To: &today})
	if err != nil {
		return nil, NewDataUnavailableError("querying yesterday's payments", err)
	}
	todayRatings, err := s.Ratings.Query(ctx, providerID, ratingRepo.Filter{From: &today, To: &tomorrow})
	if err != nil {
		return nil, NewDataUnavailableError("querying today's ratings", err)
	}
	yesterdayRatings, err := s.Ratings.Query(ctx, providerID, ratingRepo.Filter{From: &yesterday, To: &today})
	if err != nil {
		return nil, NewDataUnavailableError("querying yesterday's ratings", err)
	}

	delta := func(today, yesterday float64) models.DayDelta {
		return models.DayDelta{
			Today:     Round2(today),
			Yesterday: Round2(yesterday),
			Change:    Round2(PercentChange(today, yesterday)),
		}
	}

	statusCounts := make(map[models.WorkOrderStatus]models.DayDelta, len(allStatuses))
	for _, status := range allStatuses {
		statusCounts[status] = delta(
			float64(countByStatus(todayOrders, status)),
			float64(countByStatus(yesterdayOrders, status)),
		)
	}

	todayNew, todayReturning := splitNewReturning(todayOrders, allOrders, today)
	yNew, yReturning := splitNewReturning(yesterdayOrders, allOrders, yesterday)

	return &models.RealTimeMetrics{
		Date:          today.Format("2006-01-02"),
		StatusCounts:  statusCounts,
		CompletedPaid: delta(sumByStatus(todayPayments, models.PaymentCompleted), sumByStatus(yesterdayPayments, models.PaymentCompleted)),
		PendingPaid:   delta(sumByStatus(todayPayments, models.PaymentPending), sumByStatus(yesterdayPayments, models.PaymentPending)),
		Customers:     delta(float64(uniqueCustomers(todayOrders)), float64(uniqueCustomers(yesterdayOrders))),
		NewCustomers:  delta(float64(todayNew), float64(yNew)),
		Returning:     delta(float64(todayReturning), float64(yReturning)),
		ReviewCount:   delta(float64(len(todayRatings)), float64(len(yesterdayRatings))),
		AverageRating: delta(averageRating(todayRatings), averageRating(yesterdayRatings)),
	}, nil
}

func countByStatus(orders []models.WorkOrder, status models.WorkOrderStatus) int {
	n := 0
	for _, o := range orders {
		if o.Status == status {
			n++
		}
	}
	return n
}

func sumByStatus(payments []models.Payment, status models.PaymentStatus) float64 {
	total := 0.0
	for _, p := range payments {
		if p.Status == status {
			total += p.Amount
		}
	}
	return total
}

func averageRating(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings))
}

// splitNewReturning counts a day's customers as new when their
// earliest-ever request falls on that same day.
func splitNewReturning(dayOrders, allOrders []models.WorkOrder, day time.Time) (newCount, returning int) {
	earliest := make(map[string]time.Time)
	for _, o := range allOrders {
		first, ok := earliest[o.CustomerID]
		if !ok || o.CreatedAt.Before(first) {
			earliest[o.CustomerID] = o.CreatedAt
		}
	}

	seen := make(map[string]struct{})
	for _, o := range dayOrders {
		if _, dup := seen[o.CustomerID]; dup {
			continue
		}
		seen[o.CustomerID] = struct{}{}
		if first, ok := earliest[o.CustomerID]; ok && dayStart(first).Equal(day) {
			newCount++
		} else {
			returning++
		}
	}
	return newCount, returning
}

var priorityRank = map[models.WorkOrderPriority]int{
	models.PriorityUrgent: 0,
	models.PriorityHigh:   1,
	models.PriorityNormal: 2,
	models.PriorityLow:    3,
}

func rankOf(p models.WorkOrderPriority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return 4 // unspecified sorts last
}

// Queue lists all non-terminal work orders by priority then age and derives
// the queue-health flag from the oldest item's wait.
func (s *DefaultAnalyticsService) Queue(ctx context.Context, providerID string) (*models.QueueStatus, error) {
	now := s.now()
	orders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{
		StatusIn: []models.WorkOrderStatus{
			models.WorkOrderPending,
			models.WorkOrderAccepted,
			models.WorkOrderInProgress,
		},
	})
	if err != nil {
		return nil, NewDataUnavailableError("querying queue", err)
	}

	sort.Slice(orders, func(i, j int) bool {
		ri, rj := rankOf(orders[i].Priority), rankOf(orders[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	status := &models.QueueStatus{Items: make([]models.QueueItem, 0, len(orders)), Health: "good"}
	for _, o := range orders {
		wait := now.Sub(o.CreatedAt).Minutes()
		if wait < 0 {
			wait = 0
		}
		status.Items = append(status.Items, models.QueueItem{
			WorkOrderID: o.ID,
			Status:      o.Status,
			Category:    o.Category,
			Priority:    o.Priority,
			CreatedAt:   o.CreatedAt,
			WaitMinutes: Round2(wait),
			WaitDisplay: FormatResponseTime(wait).Display,
		})
		if wait > status.OldestWaitMinutes {
			status.OldestWaitMinutes = Round2(wait)
		}
	}

	switch {
	case status.OldestWaitMinutes > 24*60:
		status.Health = "critical"
	case status.OldestWaitMinutes > 8*60:
		status.Health = "warning"
	}
	return status, nil
}

// RecentActivity merges the latest work order, payment and review events,
// newest first, capped at limit.
func (s *DefaultAnalyticsService) RecentActivity(ctx context.Context, providerID string, limit int) ([]models.ActivityItem, error) {
	if limit <= 0 {
		limit = 10
	}

	orders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{})
	if err != nil {
		return nil, NewDataUnavailableError("querying work orders", err)
	}
	payments, err := s.Payments.Query(ctx, providerID, paymentRepo.Filter{})
	if err != nil {
		return nil, NewDataUnavailableError("querying payments", err)
	}
	ratings, err := s.Ratings.Query(ctx, providerID, ratingRepo.Filter{})
	if err != nil {
		return nil, NewDataUnavailableError("querying ratings", err)
	}

	items := make([]models.ActivityItem, 0, len(orders)+len(payments)+len(ratings))
	for _, o := range orders {
		items = append(items, models.ActivityItem{
			Type:        "work_order",
			ReferenceID: o.ID,
			Description: fmt.Sprintf("Work order %s (%s)", o.Status, o.Category),
			OccurredAt:  o.UpdatedAt,
		})
	}
	for _, p := range payments {
		items = append(items, models.ActivityItem{
			Type:        "payment",
			ReferenceID: p.ID,
			Description: fmt.Sprintf("Payment %s: $%.2f", p.Status, p.Amount),
			OccurredAt:  p.PaymentDate,
		})
	}
	for _, r := range ratings {
		items = append(items, models.ActivityItem{
			Type:        "review",
			ReferenceID: r.ID,
			Description: fmt.Sprintf("New %d-star review", r.Value),
			OccurredAt:  r.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].OccurredAt.After(items[j].OccurredAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
