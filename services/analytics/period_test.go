package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period    string
		wantStart time.Time
		wantPrev  time.Time
	}{
		{"7days", now.AddDate(0, 0, -7), now.AddDate(0, 0, -14)},
		{"30days", now.AddDate(0, 0, -30), now.AddDate(0, 0, -60)},
		{"6months", now.AddDate(0, -6, 0), now.AddDate(0, -12, 0)},
		{"1year", now.AddDate(-1, 0, 0), now.AddDate(-2, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			w, err := ResolvePeriod(tt.period, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, now, w.End)
			require.True(t, w.HasComparison())
			assert.Equal(t, tt.wantPrev, *w.PrevStart)
			// The previous interval ends exactly where the current one starts.
			assert.Equal(t, w.Start, *w.PrevEnd)
		})
	}
}

func TestResolvePeriodAll(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	w, err := ResolvePeriod("all", now)
	require.NoError(t, err)
	assert.True(t, w.Start.IsZero())
	assert.False(t, w.HasComparison())
	assert.Nil(t, w.FilterStart())
	assert.False(t, w.DailyBuckets())
}

func TestResolvePeriodInvalid(t *testing.T) {
	_, err := ResolvePeriod("fortnight", time.Now())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestDailyBuckets(t *testing.T) {
	now := time.Now()
	for period, want := range map[string]bool{
		"7days":   true,
		"30days":  true,
		"6months": false,
		"1year":   false,
	} {
		w, err := ResolvePeriod(period, now)
		require.NoError(t, err)
		assert.Equal(t, want, w.DailyBuckets(), period)
	}
}
