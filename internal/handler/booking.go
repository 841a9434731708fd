package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-hall-booking/internal/model"
	"github.com/iliyamo/wedding-hall-booking/internal/repository"
	"github.com/iliyamo/wedding-hall-booking/internal/service"
)

// BookingHandler groups the dependencies of the booking lifecycle:
// creation with availability checking, status transitions, cancellation
// and listings.  All methods assume JWT authentication has already been
// performed by middleware.  Multi-step mutations run inside a
// transaction; notification fan-out happens after commit and is
// best-effort.
type BookingHandler struct {
	HallRepo    *repository.HallRepo
	BookingRepo *repository.BookingRepo
	Notifier    *service.Notifier
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must
// be non-nil.
func NewBookingHandler(hallRepo *repository.HallRepo, bookingRepo *repository.BookingRepo, notifier *service.Notifier) *BookingHandler {
	if hallRepo == nil || bookingRepo == nil || notifier == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{HallRepo: hallRepo, BookingRepo: bookingRepo, Notifier: notifier}
}

// bookingResponse is the JSON shape of a single booking record.
type bookingResponse struct {
	ID               uint64  `json:"id"`
	UserID           uint64  `json:"userId"`
	HallID           uint64  `json:"hallId"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	GuestCount       uint32  `json:"guestCount"`
	TotalAmountCents uint64  `json:"totalAmountCents"`
	SpecialRequests  *string `json:"specialRequests,omitempty"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"createdAt"`
}

func toBookingResponse(b *repository.BookingRecord) bookingResponse {
	return bookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		HallID:           b.HallID,
		StartDate:        b.StartDate.Format(dateFormat),
		EndDate:          b.EndDate.Format(dateFormat),
		GuestCount:       b.GuestCount,
		TotalAmountCents: b.TotalAmountCents,
		SpecialRequests:  b.SpecialRequests,
		Status:           b.Status,
		CreatedAt:        b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateBooking handles POST /bookings.  The body carries
// {hallId, startDate, endDate, guestCount, specialRequests}.  Bookings
// span exactly one day, so endDate is derived as startDate + 1 day; a
// mismatched explicit endDate is rejected.  The availability check and
// the insert run in one transaction under the hall row lock, so two
// concurrent requests for overlapping dates cannot both succeed.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		HallID          uint64 `json:"hallId"`
		StartDate       string `json:"startDate"`
		EndDate         string `json:"endDate"`
		GuestCount      uint32 `json:"guestCount"`
		SpecialRequests string `json:"specialRequests"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hallId is required"})
	}
	start, err := parseDate(body.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startDate"})
	}
	end := start.AddDate(0, 0, model.DefaultBookingDays)
	if body.EndDate != "" {
		if got, err := parseDate(body.EndDate); err != nil || !got.Equal(end) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bookings span exactly one day; endDate must be startDate + 1 day"})
		}
	}
	special := strings.TrimSpace(body.SpecialRequests)
	if len(special) > model.MaxSpecialRequestsLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "specialRequests is too long"})
	}

	ctx := c.Request().Context()
	hallRec, err := h.HallRepo.GetByID(ctx, body.HallID)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !hallRec.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "hall is not currently accepting bookings"})
	}
	// Re-validate capacity server-side; the client-side check alone is
	// not trustworthy.
	hall := model.Hall{Capacity: hallRec.Capacity}
	if !hall.FitsCapacity(body.GuestCount) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guestCount must be between 1 and the hall capacity"})
	}

	booking := &repository.BookingRecord{
		UserID:           userID,
		HallID:           hallRec.ID,
		StartDate:        start,
		EndDate:          end,
		GuestCount:       body.GuestCount,
		TotalAmountCents: model.TotalAmountCents(start, end, hallRec.PricePerDayCents),
		Status:           model.BookingStatusPending,
	}
	if special != "" {
		booking.SpecialRequests = &special
	}

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
	// The hall row lock serializes concurrent creates for the same hall,
	// so the overlap check below cannot race another insert.
	if err := h.HallRepo.LockTx(ctx, tx, hallRec.ID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	overlap, err := h.BookingRepo.ExistsOverlapTx(ctx, tx, hallRec.ID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	if overlap {
		return c.JSON(http.StatusConflict, echo.Map{"error": "hall is not available for the selected dates"})
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.Notifier.BookingCreated(ctx, booking, hallRec.Name)
	return c.JSON(http.StatusCreated, echo.Map{"booking": toBookingResponse(booking)})
}

// ListMyBookings handles GET /bookings/my-bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings, "count": len(bookings)})
}

// ListAllBookings handles GET /bookings/admin (admin only).
func (h *BookingHandler) ListAllBookings(c echo.Context) error {
	bookings, err := h.BookingRepo.ListAll(c.Request().Context(), 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings, "count": len(bookings)})
}

// GetBooking handles GET /bookings/:id.  Only the booking owner or an
// admin may view a booking.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.BookingRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booking.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to access this booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(booking)})
}

// UpdateStatus handles PATCH /bookings/:id/status (admin only).  The
// requested transition must be legal in the booking state machine; the
// current status is read under a row lock so concurrent transitions
// serialize.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	newStatus := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.ValidBookingStatus(newStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
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
	booking, err := h.BookingRepo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !model.CanTransition(booking.Status, newStatus) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "cannot change booking from " + booking.Status + " to " + newStatus,
		})
	}
	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, id, newStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	booking.Status = newStatus

	hallName := ""
	if hall, err := h.HallRepo.GetByID(ctx, booking.HallID); err == nil {
		hallName = hall.Name
	}
	if newStatus == model.BookingStatusCancelled {
		h.Notifier.BookingCancelled(ctx, booking, hallName)
	} else {
		h.Notifier.BookingStatusChanged(ctx, booking, hallName)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(booking)})
}

// Cancel handles PATCH /bookings/:id/cancel.  The booking owner or an
// admin may cancel; completed bookings cannot be cancelled and
// cancellation is not repeatable.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
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
	booking, err := h.BookingRepo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booking.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to cancel this booking"})
	}
	switch booking.Status {
	case model.BookingStatusCompleted:
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot cancel a completed booking"})
	case model.BookingStatusCancelled:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled"})
	}
	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, id, model.BookingStatusCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	booking.Status = model.BookingStatusCancelled

	hallName := ""
	if hall, err := h.HallRepo.GetByID(ctx, booking.HallID); err == nil {
		hallName = hall.Name
	}
	h.Notifier.BookingCancelled(ctx, booking, hallName)
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingResponse(booking)})
}
