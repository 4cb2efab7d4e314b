package analytics

import (
	"context"
	"errors"
	"testing"

	"marketpulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAllSectionsHealthy(t *testing.T) {
	now := testClock()
	svc := &DefaultAnalyticsService{
		WorkOrders: &fakeWorkOrderRepo{orders: []models.WorkOrder{
			order("p1", models.WorkOrderCompleted, now.AddDate(0, 0, -2)),
		}},
		Payments: &fakePaymentRepo{payments: []models.Payment{
			payment("p1", 100, models.PaymentCompleted, now.AddDate(0, 0, -2)),
		}},
		Ratings:   &fakeRatingRepo{},
		Snapshots: &fakeSnapshotRepo{},
		Clock:     testClock,
	}

	view, err := svc.Dashboard(context.Background(), "p1", "30days")
	require.NoError(t, err)

	assert.False(t, view.Partial)
	require.NotNil(t, view.Revenue)
	require.NotNil(t, view.Performance)
	require.NotNil(t, view.Customers)
	require.NotNil(t, view.RealTime)
	assert.Equal(t, 100.0, view.Revenue.TotalRevenue)
}

func TestDashboardServesPartialResults(t *testing.T) {
	now := testClock()
	svc := &DefaultAnalyticsService{
		// Work orders are down; revenue still computes from payments.
		WorkOrders: &fakeWorkOrderRepo{err: errors.New("primary stepped down")},
		Payments: &fakePaymentRepo{payments: []models.Payment{
			payment("p1", 100, models.PaymentCompleted, now.AddDate(0, 0, -2)),
		}},
		Ratings:   &fakeRatingRepo{},
		Snapshots: &fakeSnapshotRepo{},
		Clock:     testClock,
	}

	view, err := svc.Dashboard(context.Background(), "p1", "30days")
	require.NoError(t, err)

	assert.True(t, view.Partial)
	require.NotNil(t, view.Revenue)
	assert.Nil(t, view.Performance)
	assert.Nil(t, view.Customers)
	assert.Nil(t, view.RealTime)
}

func TestDashboardFailsWhenEverySectionFails(t *testing.T) {
	svc := &DefaultAnalyticsService{
		WorkOrders: &fakeWorkOrderRepo{err: errors.New("down")},
		Payments:   &fakePaymentRepo{err: errors.New("down")},
		Ratings:    &fakeRatingRepo{err: errors.New("down")},
		Snapshots:  &fakeSnapshotRepo{},
		Clock:      testClock,
	}

	_, err := svc.Dashboard(context.Background(), "p1", "30days")
	require.Error(t, err)
	assert.True(t, IsDataUnavailable(err))
}

func TestDashboardRejectsInvalidPeriodBeforeFanOut(t *testing.T) {
	svc := &DefaultAnalyticsService{Clock: testClock}
	_, err := svc.Dashboard(context.Background(), "p1", "quarter")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
