// Package queue defines message payloads exchanged over the message broker.
package queue

// Routing keys for booking lifecycle events.  Every lifecycle transition
// publishes exactly one event with one of these names.
const (
    EventBookingCreated   = "booking.created"
    EventBookingStatus    = "booking.status_changed"
    EventBookingCancelled = "booking.cancelled"
    EventPaymentCompleted = "payment.completed"
)

// BookingLifecycleEvent is published whenever a booking changes state:
// creation, admin status updates, cancellation and payment completion.
// It carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingLifecycleEvent struct {
    Event            string  `json:"event"`
    BookingID        uint64  `json:"booking_id"`
    UserID           uint64  `json:"user_id"`
    HallID           uint64  `json:"hall_id"`
    HallName         string  `json:"hall_name"`
    StartDate        string  `json:"start_date"`
    EndDate          string  `json:"end_date"`
    Status           string  `json:"status"`
    TotalAmountCents uint64  `json:"total_amount_cents"`
    PaymentID        *uint64 `json:"payment_id,omitempty"`
    OccurredAt       string  `json:"occurred_at"`
}
