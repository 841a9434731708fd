package model

// Notification type values.
const (
    NotificationTypeBooking  = "booking"
    NotificationTypePayment  = "payment"
    NotificationTypeSystem   = "system"
    NotificationTypeReminder = "reminder"
)

// Related model names for the optional relatedTo reference.
const (
    RelatedBooking = "booking"
    RelatedPayment = "payment"
)
