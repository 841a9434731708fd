package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonCtx builds an echo.Context carrying a JSON body and, optionally,
// the auth context values JWTAuth would have set.
func jsonCtx(t *testing.T, method, path, body string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("role", role)
	}
	return c, rec
}

func TestGetUserIDTypes(t *testing.T) {
	e := echo.New()
	for _, v := range []interface{}{uint64(7), int(7), int64(7), float64(7), "7"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set("user_id", v)
		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), id, "%T", v)
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := getUserID(c)
	assert.Error(t, err)
}

func TestCheckAvailabilityValidation(t *testing.T) {
	h := &HallHandler{HallRepo: nil, BookingRepo: nil} // validation paths never touch the repos

	cases := []struct {
		name string
		body string
	}{
		{"missing hallId", `{"startDate":"2025-06-01","endDate":"2025-06-02"}`},
		{"bad startDate", `{"hallId":1,"startDate":"June 1","endDate":"2025-06-02"}`},
		{"bad endDate", `{"hallId":1,"startDate":"2025-06-01","endDate":""}`},
		{"end before start", `{"hallId":1,"startDate":"2025-06-05","endDate":"2025-06-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := jsonCtx(t, http.MethodPost, "/v1/halls/check-availability", tc.body, 0, "")
			require.NoError(t, h.CheckAvailability(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateHallValidation(t *testing.T) {
	h := &HallHandler{}

	cases := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":" ","location":"Downtown","capacity":100,"pricePerDayCents":5000}`},
		{"zero capacity", `{"name":"Rose Garden","location":"Downtown","capacity":0,"pricePerDayCents":5000}`},
		{"zero price", `{"name":"Rose Garden","location":"Downtown","capacity":100,"pricePerDayCents":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := jsonCtx(t, http.MethodPost, "/v1/halls", tc.body, 1, "admin")
			require.NoError(t, h.CreateHall(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateBookingValidation(t *testing.T) {
	h := &BookingHandler{}

	cases := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"unauthenticated", `{"hallId":1,"startDate":"2025-06-01"}`, http.StatusUnauthorized},
		{"missing hallId", `{"startDate":"2025-06-01"}`, http.StatusBadRequest},
		{"bad startDate", `{"hallId":1,"startDate":"tomorrow"}`, http.StatusBadRequest},
		{"endDate not one day after start", `{"hallId":1,"startDate":"2025-06-01","endDate":"2025-06-05"}`, http.StatusBadRequest},
		{"specialRequests too long", `{"hallId":1,"startDate":"2025-06-01","specialRequests":"` + strings.Repeat("x", 501) + `"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var uid uint64 = 3
			if tc.name == "unauthenticated" {
				uid = 0
			}
			c, rec := jsonCtx(t, http.MethodPost, "/v1/bookings", tc.body, uid, "customer")
			require.NoError(t, h.CreateBooking(c))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	h := &BookingHandler{}

	c, rec := jsonCtx(t, http.MethodPatch, "/", `{"status":"confirmed"}`, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = jsonCtx(t, http.MethodPatch, "/", `{"status":"archived"}`, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("12")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessPaymentValidation(t *testing.T) {
	h := &PaymentHandler{}

	cases := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"unauthenticated", `{"bookingId":1,"paymentMethod":"paypal"}`, http.StatusUnauthorized},
		{"missing bookingId", `{"paymentMethod":"paypal"}`, http.StatusBadRequest},
		{"invalid method", `{"bookingId":1,"paymentMethod":"cash"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var uid uint64 = 3
			if tc.name == "unauthenticated" {
				uid = 0
			}
			c, rec := jsonCtx(t, http.MethodPost, "/v1/payments/process", tc.body, uid, "customer")
			require.NoError(t, h.ProcessPayment(c))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}
