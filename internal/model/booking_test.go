package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical ranges", "2025-06-01", "2025-06-02", "2025-06-01", "2025-06-02", true},
		{"contained", "2025-06-01", "2025-06-10", "2025-06-03", "2025-06-04", true},
		{"partial overlap", "2025-06-01", "2025-06-05", "2025-06-04", "2025-06-08", true},
		{"a ends on b start", "2025-06-01", "2025-06-03", "2025-06-03", "2025-06-04", true},
		{"a starts on b end", "2025-06-04", "2025-06-05", "2025-06-03", "2025-06-04", true},
		{"disjoint before", "2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04", false},
		{"disjoint after", "2025-06-05", "2025-06-06", "2025-06-03", "2025-06-04", false},
		{"single day same", "2025-06-01", "2025-06-01", "2025-06-01", "2025-06-01", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(day(tc.aStart), day(tc.aEnd), day(tc.bStart), day(tc.bEnd))
			assert.Equal(t, tc.want, got)
			// The predicate is symmetric.
			assert.Equal(t, tc.want, Overlaps(day(tc.bStart), day(tc.bEnd), day(tc.aStart), day(tc.aEnd)))
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{BookingStatusPending, BookingStatusConfirmed}:   true,
		{BookingStatusPending, BookingStatusCancelled}:   true,
		{BookingStatusConfirmed, BookingStatusCompleted}: true,
		{BookingStatusConfirmed, BookingStatusCancelled}: true,
	}
	statuses := []string{
		BookingStatusPending, BookingStatusConfirmed,
		BookingStatusCancelled, BookingStatusCompleted,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("archived", BookingStatusConfirmed))
	assert.False(t, CanTransition(BookingStatusPending, "archived"))
}

func TestValidBookingStatus(t *testing.T) {
	assert.True(t, ValidBookingStatus(BookingStatusPending))
	assert.True(t, ValidBookingStatus(BookingStatusCompleted))
	assert.False(t, ValidBookingStatus(""))
	assert.False(t, ValidBookingStatus("PENDING"))
}

func TestDays(t *testing.T) {
	assert.Equal(t, 1, Days(day("2025-06-01"), day("2025-06-02")))
	assert.Equal(t, 7, Days(day("2025-06-01"), day("2025-06-08")))
	assert.Equal(t, 0, Days(day("2025-06-02"), day("2025-06-02")))
	assert.Equal(t, 0, Days(day("2025-06-03"), day("2025-06-01")))
	// Partial days round up.
	start := day("2025-06-01")
	assert.Equal(t, 2, Days(start, start.Add(36*time.Hour)))
}

func TestTotalAmountCents(t *testing.T) {
	// A one-day booking at $50.00/day costs exactly one day's price.
	start := day("2025-06-01")
	end := start.AddDate(0, 0, DefaultBookingDays)
	require.Equal(t, day("2025-06-02"), end)
	assert.Equal(t, uint64(5000), TotalAmountCents(start, end, 5000))

	assert.Equal(t, uint64(35000), TotalAmountCents(day("2025-06-01"), day("2025-06-08"), 5000))
	assert.Equal(t, uint64(0), TotalAmountCents(start, start, 5000))
}
