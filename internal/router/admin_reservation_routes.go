package router

// This file registers admin-specific routes for managing reservations.
// They are separate from the generic admin routes to keep concerns
// isolated.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/festival-booth-reservation/internal/handler"
	"github.com/iliyamo/festival-booth-reservation/internal/middleware"
)

// RegisterAdminReservations registers routes that allow admins to
// settle and audit reservations.  All routes are mounted under /v1 and
// require a JWT token as well as the ADMIN role.
func RegisterAdminReservations(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	// Approve or reject a pending reservation
	g.PUT("/reservations/:id/decision", a.Decide)
	// List all reservations of a festival, including settled ones
	g.GET("/festivals/:id/reservations", a.ListFestivalReservations)
	// Cancel a pending or approved reservation (admin override)
	g.DELETE("/admin/reservations/:id", a.CancelReservation)
}
