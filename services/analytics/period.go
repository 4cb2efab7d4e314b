package analytics

import (
	"fmt"
	"time"
)

// Period is a symbolic, fixed-length analysis window.
type Period string

const (
	Period7Days   Period = "7days"
	Period30Days  Period = "30days"
	Period6Months Period = "6months"
	Period1Year   Period = "1year"
	PeriodAll     Period = "all"
)

// Window is a resolved period: the current interval plus the equal-length
// interval immediately preceding it. PrevStart/PrevEnd are nil for "all",
// which has no comparison window. Intervals are half-open: [Start, End).
type Window struct {
	Period    Period
	Start     time.Time
	End       time.Time
	PrevStart *time.Time
	PrevEnd   *time.Time
}

// ResolvePeriod maps a symbolic period to its window anchored at now.
// Unknown symbols are a validation failure.
func ResolvePeriod(period string, now time.Time) (Window, error) {
	w := Window{Period: Period(period), End: now}
	switch Period(period) {
	case Period7Days:
		w.Start = now.AddDate(0, 0, -7)
		prevStart := now.AddDate(0, 0, -14)
		w.PrevStart, w.PrevEnd = &prevStart, &w.Start
	case Period30Days:
		w.Start = now.AddDate(0, 0, -30)
		prevStart := now.AddDate(0, 0, -60)
		w.PrevStart, w.PrevEnd = &prevStart, &w.Start
	case Period6Months:
		w.Start = now.AddDate(0, -6, 0)
		prevStart := now.AddDate(0, -12, 0)
		w.PrevStart, w.PrevEnd = &prevStart, &w.Start
	case Period1Year:
		w.Start = now.AddDate(-1, 0, 0)
		prevStart := now.AddDate(-2, 0, 0)
		w.PrevStart, w.PrevEnd = &prevStart, &w.Start
	case PeriodAll:
		// Start stays at the zero time; no comparison window.
	default:
		return Window{}, NewValidationError(fmt.Sprintf("invalid period %q", period))
	}
	return w, nil
}

// FilterStart is Start as a query bound, nil for the unbounded "all" window.
func (w Window) FilterStart() *time.Time {
	if w.Period == PeriodAll {
		return nil
	}
	start := w.Start
	return &start
}

// DailyBuckets reports whether trend series for this window use daily
// buckets; longer windows bucket by month.
func (w Window) DailyBuckets() bool {
	return w.Period == Period7Days || w.Period == Period30Days
}

// HasComparison reports whether a previous interval exists.
func (w Window) HasComparison() bool {
	return w.PrevStart != nil && w.PrevEnd != nil
}
