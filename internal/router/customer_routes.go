package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/umrah-booking/internal/handler"
	"github.com/iliyamo/umrah-booking/internal/middleware"
)

// RegisterCustomer registers the customer dashboard. Any signed-in account
// may call these; the handler scopes results to the caller's own bookings.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerBookingHandler, jwtSecret string) {
	g := e.Group("/v1/my-bookings", middleware.JWTAuth(jwtSecret))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}
