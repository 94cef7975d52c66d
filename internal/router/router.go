package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/festival-booth-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/festival-booth-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers or monitoring systems to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication: the handler accepts
	// either a refresh_token body or a bare Bearer header.
	g.POST("/logout", a.Logout)

	// Protected endpoints: any authenticated role may read its own
	// identity.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "EXHIBITOR"))
	auth.GET("/me", a.Me)

	// Alias outside the auth group so clients can terminate a session
	// with just the refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints on the
// provided Echo instance.  The PublicHandler returns sanitized data for
// festivals, booths and the floor matrix.  No JWT or role middleware is
// applied; these routes are intended for guest users.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// Expose the list of all festivals
	e.GET("/v1/festivals", p.ListFestivals)
	// Festival details by id
	e.GET("/v1/festivals/:id", p.GetFestival)
	// The full spatial matrix of a festival floor.  Each cell is either
	// empty or carries the booth occupying it with its current status,
	// so guests can preview the floor before requesting a booth.
	e.GET("/v1/festivals/:id/matrix", p.GetMatrix)
	// Flat list of every booth of a festival, ordered by grid position
	e.GET("/v1/festivals/:id/booths", p.ListBooths)
	// Only booths that can currently accept a reservation request
	e.GET("/v1/festivals/:id/available-booths", p.ListAvailableBooths)
	// Booth details by booth id
	e.GET("/v1/booths/:id", p.GetBooth)
}
