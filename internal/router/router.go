package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-hall-booking/internal/handler"
	"github.com/iliyamo/wedding-hall-booking/internal/middleware"
	"github.com/iliyamo/wedding-hall-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring probe this endpoint.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access only mints a
	// new access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT middleware: the handler accepts either
	// a bearer token (revoke all sessions) or a refresh_token body
	// (revoke one session).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: hall
// listing, hall details and the date-range availability check.  Guests
// can browse and check availability without an account; only booking
// requires one.  The cache middleware, when non-nil, shields the
// read-only endpoints.
func RegisterPublic(e *echo.Echo, h *handler.HallHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/halls", h.ListHalls, cache)
		e.GET("/v1/halls/:id", h.GetHall, cache)
	} else {
		e.GET("/v1/halls", h.ListHalls)
		e.GET("/v1/halls/:id", h.GetHall)
	}
	// Availability is checked against live booking data, never cached.
	e.POST("/v1/halls/check-availability", h.CheckAvailability)
}

// RegisterHallAdmin registers hall management endpoints (admin only).
func RegisterHallAdmin(e *echo.Echo, h *handler.HallHandler, jwtSecret string) {
	g := e.Group("/v1/halls")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.POST("", h.CreateHall)
	g.PATCH("/:id", h.UpdateHall)
	g.DELETE("/:id", h.DeleteHall)
}

// RegisterBookings registers the booking lifecycle endpoints.  All of
// them require authentication; the admin listing and status transitions
// additionally require the admin role.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	g.POST("", b.CreateBooking)
	g.GET("/my-bookings", b.ListMyBookings)
	g.GET("/admin", b.ListAllBookings, middleware.RequireRole(model.RoleAdmin))
	g.GET("/:id", b.GetBooking)
	g.PATCH("/:id/status", b.UpdateStatus, middleware.RequireRole(model.RoleAdmin))
	g.PATCH("/:id/cancel", b.Cancel)
}

// RegisterPayments registers payment processing and history endpoints.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group("/v1/payments")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	g.POST("/process", p.ProcessPayment)
	g.GET("/my-payments", p.ListMyPayments)
	g.GET("/admin", p.ListAllPayments, middleware.RequireRole(model.RoleAdmin))
	g.GET("/:id", p.GetPayment)
}

// RegisterNotifications registers the polled notification feed.
func RegisterNotifications(e *echo.Echo, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group("/v1/notifications")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	g.GET("", n.List)
	g.PATCH("/read-all", n.MarkAllRead)
	g.PATCH("/:id/read", n.MarkRead)
}

// RegisterAdmin registers the admin reporting surface.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.GET("/dashboard", a.Dashboard)
	g.GET("/users", a.ListUsers)
}
