package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/festival-booth-reservation/internal/handler"    // admin handlers
	"github.com/iliyamo/festival-booth-reservation/internal/middleware" // JWT + role middlewares
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Festivals ----
	g.POST("/festivals", a.CreateFestival)
	// NOTE: listing festivals is handled by the public browse API to
	// avoid route conflicts with the public /v1/festivals handler.
	g.PUT("/festivals/:id", a.UpdateFestival)
	g.PATCH("/festivals/:id", a.UpdateFestival) // allow partial/semantic updates via PATCH as well
	g.DELETE("/festivals/:id", a.DeleteFestival)

	// ---- Booths ----
	g.POST("/festivals/:id/booths", a.CreateBooths) // single booth or all-or-nothing batch
	g.PUT("/booths/:id", a.UpdateBooth)
	g.PATCH("/booths/:id", a.UpdateBooth)
	g.PUT("/booths/:id/position", a.MoveBooth)
	g.PUT("/booths/:id/sellable", a.SetSellable)
	g.PUT("/booths/:id/unsellable", a.SetUnsellable)
	g.DELETE("/booths/:id", a.DeleteBooth)
	// The active reservation currently holding a booth, with the
	// submitted contact details.
	g.GET("/booths/:id/reservation-info", a.GetReservationInfo)
}
