package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-hall-booking/internal/model"
	"github.com/iliyamo/wedding-hall-booking/internal/repository"
	"github.com/iliyamo/wedding-hall-booking/internal/service"
)

// PaymentHandler processes simulated payments for bookings and exposes
// payment history.  Processing a payment confirms the booking in the
// same transaction, so the two states can never diverge.
type PaymentHandler struct {
	HallRepo    *repository.HallRepo
	BookingRepo *repository.BookingRepo
	PaymentRepo *repository.PaymentRepo
	Notifier    *service.Notifier
}

// NewPaymentHandler constructs a PaymentHandler.  All dependencies must
// be non-nil.
func NewPaymentHandler(hallRepo *repository.HallRepo, bookingRepo *repository.BookingRepo, paymentRepo *repository.PaymentRepo, notifier *service.Notifier) *PaymentHandler {
	if hallRepo == nil || bookingRepo == nil || paymentRepo == nil || notifier == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{HallRepo: hallRepo, BookingRepo: bookingRepo, PaymentRepo: paymentRepo, Notifier: notifier}
}

type paymentResponse struct {
	ID            uint64 `json:"id"`
	BookingID     uint64 `json:"bookingId"`
	AmountCents   uint64 `json:"amountCents"`
	Method        string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	PaidAt        string `json:"paidAt"`
}

func toPaymentResponse(p *repository.PaymentRecord) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		AmountCents:   p.AmountCents,
		Method:        p.Method,
		TransactionID: p.TransactionID,
		Status:        p.Status,
		PaidAt:        p.PaidAt.UTC().Format(time.RFC3339),
	}
}

// ProcessPayment handles POST /payments/process.  The body carries
// {bookingId, paymentMethod, transactionId}.  The amount is always the
// booking total; a missing transactionId gets a generated one.  The
// booking row is locked for the duration, so a double-submitted payment
// is rejected rather than recorded twice, and the booking moves to
// confirmed atomically with the payment insert.
func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		BookingID     uint64 `json:"bookingId"`
		Method        string `json:"paymentMethod"`
		TransactionID string `json:"transactionId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bookingId is required"})
	}
	method := strings.ToLower(strings.TrimSpace(body.Method))
	if !model.ValidPaymentMethod(method) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
	}

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	booking, err := h.BookingRepo.GetForUpdateTx(ctx, tx, body.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booking.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to pay for this booking"})
	}
	if booking.Status == model.BookingStatusCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot pay for a cancelled booking"})
	}
	paid, err := h.PaymentRepo.ExistsCompletedTx(ctx, tx, booking.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if paid {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking has already been paid"})
	}

	txnID := strings.TrimSpace(body.TransactionID)
	if txnID == "" {
		txnID = "TXN-" + uuid.NewString()
	}
	payment := &repository.PaymentRecord{
		BookingID:     booking.ID,
		AmountCents:   booking.TotalAmountCents,
		Method:        method,
		TransactionID: txnID,
		Status:        model.PaymentStatusCompleted,
		PaidAt:        time.Now().UTC(),
	}
	if err := h.PaymentRepo.CreateTx(ctx, tx, payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record payment"})
	}
	if booking.Status == model.BookingStatusPending {
		if err := h.BookingRepo.UpdateStatusTx(ctx, tx, booking.ID, model.BookingStatusConfirmed); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not confirm booking"})
		}
		booking.Status = model.BookingStatusConfirmed
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	hallName := ""
	if hall, err := h.HallRepo.GetByID(ctx, booking.HallID); err == nil {
		hallName = hall.Name
	}
	h.Notifier.PaymentCompleted(ctx, booking, payment, hallName)
	return c.JSON(http.StatusCreated, echo.Map{
		"payment": toPaymentResponse(payment),
		"booking": toBookingResponse(booking),
	})
}

// ListMyPayments handles GET /payments/my-payments.
func (h *PaymentHandler) ListMyPayments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	payments, err := h.PaymentRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments, "count": len(payments)})
}

// ListAllPayments handles GET /payments/admin (admin only).
func (h *PaymentHandler) ListAllPayments(c echo.Context) error {
	payments, err := h.PaymentRepo.ListAll(c.Request().Context(), false, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments, "count": len(payments)})
}

// GetPayment handles GET /payments/:id.  Only the owner of the paid
// booking or an admin may view a payment.
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	payment, err := h.PaymentRepo.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if payment.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to access this payment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payment": payment})
}
