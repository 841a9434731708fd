package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-hall-booking/internal/model"
	"github.com/iliyamo/wedding-hall-booking/internal/repository"
)

// AdminHandler serves the admin-only reporting surface: the dashboard
// aggregate and the customer list.
type AdminHandler struct {
	UserRepo    *repository.UserRepo
	BookingRepo *repository.BookingRepo
	PaymentRepo *repository.PaymentRepo
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(userRepo *repository.UserRepo, bookingRepo *repository.BookingRepo, paymentRepo *repository.PaymentRepo) *AdminHandler {
	if userRepo == nil || bookingRepo == nil || paymentRepo == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{UserRepo: userRepo, BookingRepo: bookingRepo, PaymentRepo: paymentRepo}
}

// recentLimit bounds the recent-activity lists on the dashboard.
const recentLimit = 5

// Dashboard handles GET /admin/dashboard.  Counts are computed fresh on
// every request; revenue counts completed payments only.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	customers, err := h.UserRepo.CountCustomers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byStatus, err := h.BookingRepo.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}
	revenue, err := h.PaymentRepo.TotalCompletedCents(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	recentBookings, err := h.BookingRepo.ListAll(ctx, recentLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	recentPayments, err := h.PaymentRepo.ListAll(ctx, true, recentLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats": echo.Map{
			"totalCustomers":    customers,
			"totalBookings":     total,
			"pendingBookings":   byStatus[model.BookingStatusPending],
			"confirmedBookings": byStatus[model.BookingStatusConfirmed],
			"cancelledBookings": byStatus[model.BookingStatusCancelled],
			"completedBookings": byStatus[model.BookingStatusCompleted],
			"totalRevenueCents": revenue,
		},
		"recentBookings": recentBookings,
		"recentPayments": recentPayments,
	})
}

// ListUsers handles GET /admin/users and returns every customer account
// with booking counts.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.UserRepo.ListCustomers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "count": len(users)})
}
