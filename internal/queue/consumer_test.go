package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEventLine(t *testing.T) {
	ev := BookingLifecycleEvent{
		Event:            EventBookingCreated,
		BookingID:        12,
		UserID:           3,
		HallID:           5,
		HallName:         "Rose Garden",
		StartDate:        "2025-06-01",
		EndDate:          "2025-06-02",
		Status:           "pending",
		TotalAmountCents: 5000,
		OccurredAt:       "2025-05-20T10:00:00Z",
	}
	line := FormatEventLine(ev)
	assert.Equal(t, "[2025-05-20T10:00:00Z] booking.created | booking_id=12 | user_id=3 | hall=\"Rose Garden\" | dates=2025-06-01..2025-06-02 | status=pending | total=5000 cents\n", line)
}

func TestFormatEventLineWithPayment(t *testing.T) {
	pid := uint64(77)
	ev := BookingLifecycleEvent{
		Event:      EventPaymentCompleted,
		BookingID:  12,
		Status:     "confirmed",
		PaymentID:  &pid,
		OccurredAt: "2025-05-20T10:00:00Z",
	}
	line := FormatEventLine(ev)
	assert.Contains(t, line, "payment.completed")
	assert.Contains(t, line, "payment_id=77")
}
