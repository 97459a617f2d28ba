package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/umrah-booking/internal/handler"
	"github.com/iliyamo/umrah-booking/internal/middleware"
	"github.com/iliyamo/umrah-booking/internal/model"
)

// Admin bundles the back office handlers.
type Admin struct {
	Bookings *handler.AdminBookingHandler
	Packages *handler.AdminPackageHandler
	Content  Content
}

// RegisterAdmin registers the back office under /v1/admin. All routes require
// a valid JWT with the admin role. purge, when non-nil, runs after every
// successful write so cached public responses are dropped.
func RegisterAdmin(e *echo.Echo, a Admin, jwtSecret string, purge echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	}
	if purge != nil {
		mw = append(mw, purge)
	}
	g := e.Group("/v1/admin", mw...)

	g.GET("/dashboard", a.Bookings.Dashboard)

	// ---- Bookings and ledger ----
	g.GET("/bookings", a.Bookings.List)
	g.POST("/bookings", a.Bookings.Create)
	g.GET("/bookings/:id", a.Bookings.Get)
	g.PUT("/bookings/:id", a.Bookings.Update)
	g.DELETE("/bookings/:id", a.Bookings.Delete)
	g.GET("/bookings/:id/payments", a.Bookings.Payments)
	g.POST("/bookings/:id/payments", a.Bookings.RecordPayment)
	g.POST("/bookings/:id/mark-paid", a.Bookings.MarkPaid)

	// ---- Packages ----
	g.GET("/packages", a.Packages.List)
	g.POST("/packages", a.Packages.Create)
	g.GET("/packages/:id", a.Packages.Get)
	g.PUT("/packages/:id", a.Packages.Update)
	g.DELETE("/packages/:id", a.Packages.Delete)

	c := a.Content
	g.GET("/packages/:id/faqs", c.PackageFAQs.ListForPackage)
	g.POST("/packages/:id/faqs", c.PackageFAQs.CreateForPackage)
	g.PUT("/package-faqs/:id", c.PackageFAQs.Update)
	g.DELETE("/package-faqs/:id", c.PackageFAQs.Delete)

	// ---- Content collections ----
	crud(g, "/faqs", c.FAQs)
	crud(g, "/quotes", c.Quotes)
	crud(g, "/testimonials", c.Testimonials)
	crud(g, "/trust-badges", c.TrustBadges)
	crud(g, "/pages", c.Pages)
	crud(g, "/blog", c.Blog)

	g.GET("/settings", c.Settings.Get)
	g.PUT("/settings", c.Settings.Put)
}

// crud mounts the five standard routes of one content collection.
func crud[T any](g *echo.Group, path string, h *handler.ContentHandler[T]) {
	g.GET(path, h.AdminList)
	g.POST(path, h.Create)
	g.GET(path+"/:id", h.Get)
	g.PUT(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}
