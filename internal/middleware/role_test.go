package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRole(t *testing.T, role interface{}, allowed ...string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	handler := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec.Code
}

func TestRequireRole(t *testing.T) {
	assert.Equal(t, http.StatusOK, runRole(t, "admin", "admin"))
	assert.Equal(t, http.StatusOK, runRole(t, "customer", "customer", "admin"))
	assert.Equal(t, http.StatusForbidden, runRole(t, "customer", "admin"))
	assert.Equal(t, http.StatusForbidden, runRole(t, nil, "admin"))
	// Role must be a string in context.
	assert.Equal(t, http.StatusForbidden, runRole(t, 42, "admin"))
}
