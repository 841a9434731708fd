package handler

import (
	"database/sql"
	"net/http"
	"regexp"
	"strconv"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wedding-hall-booking/internal/repository"
)

// newMockDB returns a stubbed *sql.DB for exercising handler flows that
// reach the repositories.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// bookingRow builds a single bookings row in column order, owned by the
// given user and carrying the given status.
func bookingRow(status string, userID uint64) *sqlmock.Rows {
	now := time.Now()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "user_id", "hall_id", "start_date", "end_date",
		"guest_count", "total_amount_cents", "special_requests",
		"status", "created_at", "updated_at",
	}).AddRow(12, userID, 3, start, start.AddDate(0, 0, 1), 80, 5000, nil, status, now, now)
}

// hallRow builds a single halls row with the given capacity.
func hallRow(capacity uint32, available bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "description", "capacity", "price_per_day_cents",
		"location", "amenities", "images", "is_available", "created_at", "updated_at",
	}).AddRow(3, "Rose Garden", "", capacity, 5000, "Downtown", "[]", "[]", available, now, now)
}

const bookingForUpdateQuery = "FROM bookings WHERE id = ? FOR UPDATE"

func TestCancelRejectsTerminalStatuses(t *testing.T) {
	cases := []struct {
		name    string
		status  string
		wantMsg string
	}{
		{"completed booking", "completed", "cannot cancel a completed booking"},
		{"already cancelled", "cancelled", "booking is already cancelled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			h := &BookingHandler{
				HallRepo:    repository.NewHallRepo(db),
				BookingRepo: repository.NewBookingRepo(db),
			}
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(bookingForUpdateQuery)).
				WithArgs(int64(12)).
				WillReturnRows(bookingRow(tc.status, 7))
			mock.ExpectRollback()

			c, rec := jsonCtx(t, http.MethodPatch, "/", "", 7, "customer")
			c.SetParamNames("id")
			c.SetParamValues("12")
			require.NoError(t, h.Cancel(c))

			assert.Equal(t, http.StatusConflict, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProcessPaymentRejectsDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	h := &PaymentHandler{
		HallRepo:    repository.NewHallRepo(db),
		BookingRepo: repository.NewBookingRepo(db),
		PaymentRepo: repository.NewPaymentRepo(db),
	}
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(bookingForUpdateQuery)).
		WithArgs(int64(12)).
		WillReturnRows(bookingRow("confirmed", 7))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payments WHERE booking_id = ? AND status = 'completed'")).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	c, rec := jsonCtx(t, http.MethodPost, "/v1/payments/process",
		`{"bookingId":12,"paymentMethod":"paypal"}`, 7, "customer")
	require.NoError(t, h.ProcessPayment(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking has already been paid")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessPaymentRejectsCancelledBooking(t *testing.T) {
	db, mock := newMockDB(t)
	h := &PaymentHandler{
		HallRepo:    repository.NewHallRepo(db),
		BookingRepo: repository.NewBookingRepo(db),
		PaymentRepo: repository.NewPaymentRepo(db),
	}
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(bookingForUpdateQuery)).
		WithArgs(int64(12)).
		WillReturnRows(bookingRow("cancelled", 7))
	mock.ExpectRollback()

	c, rec := jsonCtx(t, http.MethodPost, "/v1/payments/process",
		`{"bookingId":12,"paymentMethod":"paypal"}`, 7, "customer")
	require.NoError(t, h.ProcessPayment(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot pay for a cancelled booking")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsBadGuestCount(t *testing.T) {
	cases := []struct {
		name   string
		guests int
	}{
		{"over capacity", 500},
		{"zero guests", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			h := &BookingHandler{
				HallRepo:    repository.NewHallRepo(db),
				BookingRepo: repository.NewBookingRepo(db),
			}
			mock.ExpectQuery(regexp.QuoteMeta("FROM halls WHERE id = ?")).
				WithArgs(int64(3)).
				WillReturnRows(hallRow(120, true))

			body := `{"hallId":3,"startDate":"2025-06-01","guestCount":` + strconv.Itoa(tc.guests) + `}`
			c, rec := jsonCtx(t, http.MethodPost, "/v1/bookings", body, 7, "customer")
			require.NoError(t, h.CreateBooking(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "guestCount")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
