package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types
    "time"    // time parses booking dates

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/wedding-hall-booking/internal/model" // model holds role constants
)

// dateFormat is the wire format for booking dates (YYYY-MM-DD).
const dateFormat = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated request carries the admin role.
func isAdmin(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == model.RoleAdmin
}

// parseIDParam parses the :id path parameter as a positive integer.
func parseIDParam(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// parseDate parses a YYYY-MM-DD date string into a midnight UTC time.
// Booking dates are compared at day granularity, so the time component is
// always zero.
func parseDate(s string) (time.Time, error) {
    return time.Parse(dateFormat, s)
}
