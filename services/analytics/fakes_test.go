package analytics

import (
	"context"
	"errors"
	"time"

	paymentRepo "marketpulse/database/repository/payment"
	ratingRepo "marketpulse/database/repository/rating"
	workorderRepo "marketpulse/database/repository/workorder"
	"marketpulse/models"
)

// In-memory repositories applying the same filter semantics as the Mongo
// implementations: status sets, half-open time ranges.

type fakeWorkOrderRepo struct {
	orders     []models.WorkOrder
	aggregates []models.ProviderAggregate
	err        error
}

func (f *fakeWorkOrderRepo) Query(_ context.Context, providerID string, filter workorderRepo.Filter) ([]models.WorkOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.WorkOrder
	for _, w := range f.orders {
		if w.ProviderID != providerID {
			continue
		}
		if len(filter.StatusIn) > 0 && !statusIn(w.Status, filter.StatusIn) {
			continue
		}
		if filter.Category != "" && w.Category != filter.Category {
			continue
		}
		if !inRange(w.CreatedAt, filter.From, filter.To) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeWorkOrderRepo) ProviderAggregates(_ context.Context) ([]models.ProviderAggregate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.aggregates, nil
}

type fakePaymentRepo struct {
	payments []models.Payment
	err      error
}

func (f *fakePaymentRepo) Query(_ context.Context, providerID string, filter paymentRepo.Filter) ([]models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Payment
	for _, p := range f.payments {
		if p.ProviderID != providerID {
			continue
		}
		if len(filter.StatusIn) > 0 && !paymentStatusIn(p.Status, filter.StatusIn) {
			continue
		}
		if !inRange(p.PaymentDate, filter.From, filter.To) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeRatingRepo struct {
	ratings []models.Rating
	err     error
}

func (f *fakeRatingRepo) Query(_ context.Context, providerID string, filter ratingRepo.Filter) ([]models.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Rating
	for _, r := range f.ratings {
		if r.ProviderID != providerID {
			continue
		}
		if !inRange(r.CreatedAt, filter.From, filter.To) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeSnapshotRepo struct {
	snapshot  *models.MetricSnapshot
	getErr    error
	upsertErr error
	upserts   int
}

func (f *fakeSnapshotRepo) Get(_ context.Context, providerID string) (*models.MetricSnapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.snapshot == nil || f.snapshot.ProviderID != providerID {
		return nil, nil
	}
	snap := *f.snapshot
	return &snap, nil
}

func (f *fakeSnapshotRepo) Upsert(_ context.Context, snap models.MetricSnapshot) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.snapshot = &snap
	return nil
}

func (f *fakeSnapshotRepo) Invalidate(_ context.Context, providerID string) error {
	if f.snapshot == nil || f.snapshot.ProviderID != providerID {
		return errors.New("snapshot not found")
	}
	f.snapshot.Stale = true
	f.snapshot.ComputedAt = time.Time{}
	return nil
}

func statusIn(s models.WorkOrderStatus, set []models.WorkOrderStatus) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func paymentStatusIn(s models.PaymentStatus, set []models.PaymentStatus) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}
