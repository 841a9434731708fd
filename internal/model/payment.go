package model

// Payment status values.  A booking is confirmed exactly when a payment
// record for it reaches completed status.
const (
    PaymentStatusPending   = "pending"
    PaymentStatusCompleted = "completed"
    PaymentStatusFailed    = "failed"
    PaymentStatusRefunded  = "refunded"
)

// Accepted payment methods.  Payments are simulated; the method is recorded
// verbatim for display and reporting.
var paymentMethods = map[string]bool{
    "credit_card":   true,
    "debit_card":    true,
    "bank_transfer": true,
    "paypal":        true,
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
    return paymentMethods[m]
}
