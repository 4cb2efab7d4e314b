package analytics

import (
	"context"
	"sync"

	"marketpulse/models"
	"marketpulse/utils"

	"go.uber.org/zap"
)

// Dashboard fans out the four calculators concurrently and joins on all of
// them. A failed section is served as nil with Partial set; only when every
// section fails does the call error. Availability over completeness for a
// read-only surface.
func (s *DefaultAnalyticsService) Dashboard(ctx context.Context, providerID, period string) (*models.DashboardView, error) {
	// Validate the period up front so a bad symbol is a clean client error
	// instead of four identical failures.
	if _, err := ResolvePeriod(period, s.now()); err != nil {
		return nil, err
	}

	view := &models.DashboardView{}
	errs := make([]error, 4)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		view.Revenue, errs[0] = s.Revenue(ctx, providerID, period)
	}()
	go func() {
		defer wg.Done()
		view.Performance, errs[1] = s.Performance(ctx, providerID, period)
	}()
	go func() {
		defer wg.Done()
		view.Customers, errs[2] = s.Customers(ctx, providerID, period)
	}()
	go func() {
		defer wg.Done()
		view.RealTime, errs[3] = s.RealTime(ctx, providerID)
	}()
	wg.Wait()

	failed := 0
	var firstErr error
	for _, err := range errs {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			utils.GetLogger().Warn("dashboard section failed",
				zap.String("providerID", providerID),
				zap.Error(err))
		}
	}

	if failed == len(errs) {
		return nil, &Error{Code: CodeDataUnavailable, Message: "all dashboard sections failed", Err: firstErr}
	}
	if failed > 0 {
		view.Partial = true
	}
	return view, nil
}
