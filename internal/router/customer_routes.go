package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/festival-booth-reservation/internal/handler"
	"github.com/iliyamo/festival-booth-reservation/internal/middleware"
)

// RegisterCustomer registers exhibitor-scoped endpoints under /v1.  All
// routes require a valid JWT and the EXHIBITOR role.  Exhibitors can
// request a booth, view their own reservations and withdraw a pending
// request.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("EXHIBITOR"),
	)
	// Note: browsing festivals, the floor matrix and booth availability
	// is registered on the public router so that guests can inspect the
	// floor before registering.  Exhibitor-specific endpoints begin here.
	g.POST("/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.DELETE("/reservations/:id", h.CancelReservation)
}
