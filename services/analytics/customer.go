package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	paymentRepo "marketpulse/database/repository/payment"
	workorderRepo "marketpulse/database/repository/workorder"
	"marketpulse/models"
)

// Customers computes the customer-behavior bundle: unique customers and
// request intensity, all-time retention, geographic and peak-time
// distributions, acquisition trend and lifetime value.
func (s *DefaultAnalyticsService) Customers(ctx context.Context, providerID, period string) (*models.CustomerMetrics, error) {
	now := s.now()
	win, err := ResolvePeriod(period, now)
	if err != nil {
		return nil, err
	}

	orders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{
		From: win.FilterStart(),
		To:   &win.End,
	})
	if err != nil {
		return nil, NewDataUnavailableError("querying work orders", err)
	}

	// Retention, acquisition and lifetime value all need the full history,
	// not the window: retention is defined over all-time data only.
	allOrders, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{})
	if err != nil {
		return nil, NewDataUnavailableError("querying work order history", err)
	}

	allPayments, err := s.Payments.Query(ctx, providerID, paymentRepo.Filter{
		StatusIn: []models.PaymentStatus{models.PaymentCompleted},
	})
	if err != nil {
		return nil, NewDataUnavailableError("querying payment history", err)
	}

	unique := uniqueCustomers(orders)
	requestsPerCustomer := 0.0
	if unique > 0 {
		requestsPerCustomer = float64(len(orders)) / float64(unique)
	}

	metrics := &models.CustomerMetrics{
		Period:              period,
		UniqueCustomers:     unique,
		RequestsPerCustomer: Round2(requestsPerCustomer),
		RetentionRate:       Round2(retentionRate(allOrders)),
		Regions:             regionDistribution(orders),
		PeakTimes:           peakTimes(orders),
		Acquisition:         acquisitionTrend(orders, allOrders, win),
		LifetimeValue:       lifetimeValue(allPayments),
	}

	if win.HasComparison() {
		prev, err := s.WorkOrders.Query(ctx, providerID, workorderRepo.Filter{
			From: win.PrevStart,
			To:   win.PrevEnd,
		})
		if err != nil {
			return nil, NewDataUnavailableError("querying previous-period work orders", err)
		}
		metrics.Comparison = NewComparison(float64(unique), float64(uniqueCustomers(prev)))
	}

	return metrics, nil
}

func uniqueCustomers(orders []models.WorkOrder) int {
	seen := make(map[string]struct{})
	for _, o := range orders {
		seen[o.CustomerID] = struct{}{}
	}
	return len(seen)
}

// retentionRate is the share of customers with more than one completed
// work order among all customers with at least one, over the full history.
func retentionRate(allOrders []models.WorkOrder) float64 {
	completedPer := make(map[string]int)
	for _, o := range allOrders {
		if o.Status == models.WorkOrderCompleted {
			completedPer[o.CustomerID]++
		}
	}
	if len(completedPer) == 0 {
		return 0
	}
	repeat := 0
	for _, n := range completedPer {
		if n > 1 {
			repeat++
		}
	}
	return float64(repeat) / float64(len(completedPer)) * 100
}

// regionDistribution groups demand by opaque location key and reports the
// top five regions with their combined share.
func regionDistribution(orders []models.WorkOrder) models.RegionDistribution {
	counts := make(map[string]int)
	for _, o := range orders {
		key := o.LocationKey
		if key == "" {
			key = "Unknown"
		}
		counts[key]++
	}

	regions := make([]models.RegionCount, 0, len(counts))
	for region, count := range counts {
		pct := 0.0
		if len(orders) > 0 {
			pct = float64(count) / float64(len(orders)) * 100
		}
		regions = append(regions, models.RegionCount{Region: region, Count: count, Percentage: Round2(pct)})
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Count != regions[j].Count {
			return regions[i].Count > regions[j].Count
		}
		return regions[i].Region < regions[j].Region
	})

	if len(regions) > 5 {
		regions = regions[:5]
	}
	concentration := 0.0
	for _, r := range regions {
		concentration += r.Percentage
	}
	return models.RegionDistribution{Top: regions, Concentration: Round2(concentration)}
}

var dayPartLabels = []string{"morning", "afternoon", "evening", "night"}

// dayPartOf buckets an hour: morning 6-12, afternoon 12-18, evening 18-22,
// night is the remainder.
func dayPartOf(hour int) int {
	switch {
	case hour >= 6 && hour < 12:
		return 0
	case hour >= 12 && hour < 18:
		return 1
	case hour >= 18 && hour < 22:
		return 2
	default:
		return 3
	}
}

func peakTimes(orders []models.WorkOrder) models.PeakTimes {
	var hourly [24]int
	var weekday [7]int
	var parts [4]int
	for _, o := range orders {
		hourly[o.CreatedAt.Hour()]++
		weekday[int(o.CreatedAt.Weekday())]++
		parts[dayPartOf(o.CreatedAt.Hour())]++
	}

	total := len(orders)
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return Round2(float64(n) / float64(total) * 100)
	}

	pt := models.PeakTimes{
		Hourly:   make([]models.TimeBucket, 24),
		Weekday:  make([]models.TimeBucket, 7),
		DayParts: make([]models.TimeBucket, 4),
	}
	for h := 0; h < 24; h++ {
		pt.Hourly[h] = models.TimeBucket{Label: fmt.Sprintf("%02d", h), Count: hourly[h], Percentage: pct(hourly[h])}
	}
	for d := 0; d < 7; d++ {
		pt.Weekday[d] = models.TimeBucket{Label: time.Weekday(d).String(), Count: weekday[d], Percentage: pct(weekday[d])}
	}
	for p := 0; p < 4; p++ {
		pt.DayParts[p] = models.TimeBucket{Label: dayPartLabels[p], Count: parts[p], Percentage: pct(parts[p])}
	}
	return pt
}

// acquisitionTrend classifies each windowed request as new or returning.
// A request is new when the customer's earliest-ever request lands in the
// same bucket: same calendar day for the short windows, same calendar month
// for the longer ones. The coarser granularity for longer windows is
// intentional, observed product behavior.
func acquisitionTrend(orders, allOrders []models.WorkOrder, win Window) []models.AcquisitionPoint {
	earliest := make(map[string]time.Time)
	for _, o := range allOrders {
		first, ok := earliest[o.CustomerID]
		if !ok || o.CreatedAt.Before(first) {
			earliest[o.CustomerID] = o.CreatedAt
		}
	}

	layout := "2006-01"
	if win.DailyBuckets() {
		layout = "2006-01-02"
	}

	points := make(map[string]*models.AcquisitionPoint)
	for _, o := range orders {
		bucket := o.CreatedAt.Format(layout)
		point, ok := points[bucket]
		if !ok {
			point = &models.AcquisitionPoint{Bucket: bucket}
			points[bucket] = point
		}
		if first, ok := earliest[o.CustomerID]; ok && first.Format(layout) == bucket {
			point.New++
		} else {
			point.Returning++
		}
	}

	trend := make([]models.AcquisitionPoint, 0, len(points))
	for _, p := range points {
		trend = append(trend, *p)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Bucket < trend[j].Bucket })
	return trend
}

// lifetimeValue segments customers by their all-time completed revenue:
// high at or above 1.5x the average, low below half of it.
func lifetimeValue(completedPayments []models.Payment) models.CustomerValue {
	type tally struct {
		revenue float64
		orders  int
	}
	perCustomer := make(map[string]*tally)
	total := 0.0
	for _, p := range completedPayments {
		row, ok := perCustomer[p.CustomerID]
		if !ok {
			row = &tally{}
			perCustomer[p.CustomerID] = row
		}
		row.revenue += p.Amount
		row.orders++
		total += p.Amount
	}

	if len(perCustomer) == 0 {
		return models.CustomerValue{TopCustomers: []models.CustomerRevenue{}, Histogram: []models.RangeCount{}}
	}

	avg := total / float64(len(perCustomer))
	value := models.CustomerValue{AverageRevenue: Round2(avg)}

	customers := make([]models.CustomerRevenue, 0, len(perCustomer))
	maxRevenue := 0.0
	for id, row := range perCustomer {
		customers = append(customers, models.CustomerRevenue{
			CustomerID: id,
			Revenue:    Round2(row.revenue),
			Orders:     row.orders,
		})
		if row.revenue > maxRevenue {
			maxRevenue = row.revenue
		}
		switch {
		case row.revenue >= 1.5*avg:
			value.Segments.High++
		case row.revenue < 0.5*avg:
			value.Segments.Low++
		default:
			value.Segments.Medium++
		}
	}

	sort.Slice(customers, func(i, j int) bool {
		if customers[i].Revenue != customers[j].Revenue {
			return customers[i].Revenue > customers[j].Revenue
		}
		return customers[i].CustomerID < customers[j].CustomerID
	})
	top := customers
	if len(top) > 5 {
		top = top[:5]
	}
	value.TopCustomers = top
	value.Histogram = revenueHistogram(customers, maxRevenue)
	return value
}

// revenueHistogram splits customers into five equal-width revenue ranges.
func revenueHistogram(customers []models.CustomerRevenue, maxRevenue float64) []models.RangeCount {
	if maxRevenue <= 0 {
		return []models.RangeCount{{Range: "$0", Count: len(customers)}}
	}
	width := maxRevenue / 5
	histogram := make([]models.RangeCount, 5)
	for i := 0; i < 5; i++ {
		histogram[i].Range = fmt.Sprintf("$%.0f - $%.0f", float64(i)*width, float64(i+1)*width)
	}
	for _, c := range customers {
		idx := int(c.Revenue / width)
		if idx > 4 {
			idx = 4
		}
		histogram[idx].Count++
	}
	return histogram
}
