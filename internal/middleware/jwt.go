package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates an access token and
// injects the token's subject, name and role claims into the request
// context.  The token is read from the Authorization header ("Bearer ..")
// or, when the header is absent, from the "token" cookie so that browser
// clients using cookie sessions work too.  The provided secret must match
// the one used when issuing tokens.  Handlers behind this middleware
// access the authenticated user via c.Get("user_id"), c.Get("name") and
// c.Get("role").
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Prefer the Authorization header; fall back to the cookie.
            raw := ""
            if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
                raw = strings.TrimPrefix(auth, "Bearer ")
            } else if cookie, err := c.Cookie("token"); err == nil && cookie.Value != "" {
                raw = cookie.Value
            }
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }

            // Parse the token using the HS256 signing method and our secret.
            // Reject tokens signed with a different algorithm.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Store the subject (user ID), display name and role claims in
            // the context for handlers and downstream middleware.  Type
            // assertions are left to consumers.
            c.Set("user_id", claims["sub"])
            c.Set("name", claims["name"])
            c.Set("role", claims["role"])
            return next(c)
        }
    }
}
