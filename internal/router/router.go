package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/umrah-booking/internal/handler"
	"github.com/iliyamo/umrah-booking/internal/middleware"
	"github.com/iliyamo/umrah-booking/internal/model"
)

// Content bundles the handlers for the marketing collections. The same
// handlers back the public read routes and the admin CRUD routes.
type Content struct {
	FAQs         *handler.ContentHandler[model.GeneralFAQ]
	PackageFAQs  *handler.PackageFAQHandler
	Quotes       *handler.ContentHandler[model.IslamicQuote]
	Testimonials *handler.ContentHandler[model.Testimonial]
	TrustBadges  *handler.ContentHandler[model.TrustBadge]
	Pages        *handler.ContentHandler[model.Page]
	Blog         *handler.ContentHandler[model.BlogPost]
	Settings     *handler.SettingsHandler
}

// RegisterRoutes registers the health check used by load balancers.
// ?deep=1 additionally pings MySQL and Redis.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth and the
// authenticated /v1/me. limit is applied to the /v1/auth group only and may
// be nil.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// rotates the refresh token
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// logout accepts either a refresh_token body or a bearer token, so it
	// stays outside the JWT group
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the unauthenticated catalog and content reads.
// Only published records are ever returned from these routes.
func RegisterPublic(e *echo.Echo, p *handler.PublicCatalogHandler, c Content) {
	g := e.Group("/v1")

	// ---- Catalog ----
	g.GET("/packages", p.ListPackages)
	g.GET("/packages/:key", p.GetPackage) // slug or id

	// ---- Content ----
	g.GET("/faqs", c.FAQs.PublicList)
	g.GET("/quotes", c.Quotes.PublicList)
	g.GET("/testimonials", c.Testimonials.PublicList)
	g.GET("/trust-badges", c.TrustBadges.PublicList)
	g.GET("/pages/:slug", c.Pages.PublicBySlug)
	g.GET("/blog", c.Blog.PublicList)
	g.GET("/blog/:slug", c.Blog.PublicBySlug)
	g.GET("/settings", c.Settings.Get)
}
