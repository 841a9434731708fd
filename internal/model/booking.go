package model

import "time"

// Booking status values.  A booking starts in pending and is confirmed by a
// completed payment.  Completed and cancelled are terminal states.
const (
    BookingStatusPending   = "pending"
    BookingStatusConfirmed = "confirmed"
    BookingStatusCancelled = "cancelled"
    BookingStatusCompleted = "completed"
)

// DefaultBookingDays is the fixed length of a booking.  Every booking spans
// exactly one day (end date = start date + 1 day); the pricing helpers below
// still generalize to arbitrary day counts.
const DefaultBookingDays = 1

// MaxSpecialRequestsLen bounds the free-text special requests field.
const MaxSpecialRequestsLen = 500

// bookingTransitions is the legality table for booking status changes.
// pending   -> confirmed (payment) or cancelled
// confirmed -> completed (admin) or cancelled
// cancelled and completed accept no further transitions.
var bookingTransitions = map[string]map[string]bool{
    BookingStatusPending: {
        BookingStatusConfirmed: true,
        BookingStatusCancelled: true,
    },
    BookingStatusConfirmed: {
        BookingStatusCompleted: true,
        BookingStatusCancelled: true,
    },
    BookingStatusCancelled: {},
    BookingStatusCompleted: {},
}

// ValidBookingStatus reports whether s is one of the four booking statuses.
func ValidBookingStatus(s string) bool {
    _, ok := bookingTransitions[s]
    return ok
}

// CanTransition reports whether a booking may move from one status to
// another.  Identity transitions are not allowed; callers that want
// idempotent updates must check for equality themselves.
func CanTransition(from, to string) bool {
    allowed, ok := bookingTransitions[from]
    if !ok {
        return false
    }
    return allowed[to]
}

// Overlaps applies the inclusive-bounds overlap predicate to two date
// ranges: [aStart, aEnd] conflicts with [bStart, bEnd] when
// aStart <= bEnd AND aEnd >= bStart.  Both bounds count, so a booking
// ending on the exact day another begins is still a conflict.  Dates are
// compared at day granularity; callers must pass midnight-normalized times.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
    return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// Days returns the number of billable days between start and end, rounding
// any partial day up.  A zero or negative span counts as zero days.
func Days(start, end time.Time) int {
    d := end.Sub(start)
    if d <= 0 {
        return 0
    }
    days := int(d / (24 * time.Hour))
    if d%(24*time.Hour) != 0 {
        days++
    }
    return days
}

// TotalAmountCents computes the booking price: billable days times the
// hall's per-day price.  Under the fixed one-day policy this is always
// 1 x pricePerDayCents, but the formula holds for longer spans.
func TotalAmountCents(start, end time.Time, pricePerDayCents uint32) uint64 {
    return uint64(Days(start, end)) * uint64(pricePerDayCents)
}
