package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCalcEndDate_PreservesDayOfMonth(t *testing.T) {
	require.Equal(t, d(2024, time.April, 15), CalcEndDate(d(2024, time.March, 15), 1))
	require.Equal(t, d(2025, time.March, 15), CalcEndDate(d(2024, time.March, 15), 12))
	require.Equal(t, d(2044, time.March, 15), CalcEndDate(d(2024, time.March, 15), 240))
}

func TestCalcEndDate_ClampsToEndOfMonth(t *testing.T) {
	// 2024 is a leap year.
	require.Equal(t, d(2024, time.February, 29), CalcEndDate(d(2024, time.January, 31), 1))
	require.Equal(t, d(2023, time.February, 28), CalcEndDate(d(2023, time.January, 31), 1))
	require.Equal(t, d(2024, time.April, 30), CalcEndDate(d(2024, time.March, 31), 1))
	// Clamping applies at the target month only; the start day is preserved
	// again once a long-enough month comes around.
	require.Equal(t, d(2024, time.March, 31), CalcEndDate(d(2024, time.January, 31), 2))
}

func TestCalcEndDate_YearRollover(t *testing.T) {
	require.Equal(t, d(2025, time.January, 10), CalcEndDate(d(2024, time.December, 10), 1))
	require.Equal(t, d(2026, time.June, 1), CalcEndDate(d(2024, time.December, 1), 18))
}

func TestCalcEndDate_Deterministic(t *testing.T) {
	start := d(2024, time.January, 31)
	first := CalcEndDate(start, 13)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, CalcEndDate(start, 13))
	}
}

func TestDaysUntil(t *testing.T) {
	today := d(2024, time.May, 1)

	end := d(2024, time.May, 11)
	days, ok := DaysUntil(&end, today)
	require.True(t, ok)
	require.Equal(t, 10, days)

	past := d(2024, time.April, 21)
	days, ok = DaysUntil(&past, today)
	require.True(t, ok)
	require.Equal(t, -10, days)

	same := today
	days, ok = DaysUntil(&same, today)
	require.True(t, ok)
	require.Equal(t, 0, days)

	_, ok = DaysUntil(nil, today)
	require.False(t, ok)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		daysLeft  int
		known     bool
		cancelled bool
		want      string
	}{
		{"cancelled dominates near expiry", 10, true, true, "cancelled"},
		{"cancelled dominates unknown", 0, false, true, "cancelled"},
		{"unknown end date", 0, false, false, "unknown"},
		{"expired", -3, true, false, "expired 3 days ago"},
		{"expiry today", 0, true, false, "near expiry (<=15 days) - 0 days left"},
		{"near expiry boundary", 15, true, false, "near expiry (<=15 days) - 15 days left"},
		{"advance warning lower bound", 16, true, false, "advance warning (<=30 days) - 16 days left"},
		{"advance warning boundary", 30, true, false, "advance warning (<=30 days) - 30 days left"},
		{"plenty of time", 31, true, false, "31 days left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.daysLeft, tt.known, tt.cancelled))
		})
	}
}
