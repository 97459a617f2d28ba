package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/umrah-booking/internal/middleware"
    "github.com/iliyamo/umrah-booking/internal/model"
    "github.com/iliyamo/umrah-booking/internal/service"
)

// PackageDetails loads a booked package with its FAQs and testimonials;
// *service.CatalogService implements it.
type PackageDetails interface {
    PackageDetail(ctx context.Context, id string) (*model.PackageDetail, error)
}

// CustomerBookingHandler serves the logged-in customer's own bookings.
// Bookings reach an account through the email auto-link.
type CustomerBookingHandler struct {
    Svc      Bookings
    Packages PackageDetails
}

func NewCustomerBookingHandler(svc Bookings, packages PackageDetails) *CustomerBookingHandler {
    return &CustomerBookingHandler{Svc: svc, Packages: packages}
}

func (h *CustomerBookingHandler) List(c echo.Context) error {
    uid := middleware.CurrentUserID(c)
    if uid == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, err := h.Svc.ListForUser(ctx, uid)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns one booking with its payment history and, when the booking
// names a package, that package with its FAQs and testimonials. Bookings
// linked to another account answer 404.
func (h *CustomerBookingHandler) Get(c echo.Context) error {
    uid := middleware.CurrentUserID(c)
    if uid == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, err := h.Svc.GetForUser(ctx, c.Param("id"), uid)
    if err != nil {
        return writeError(c, err)
    }
    payments, err := h.Svc.ListPayments(ctx, b.ID)
    if err != nil {
        return writeError(c, err)
    }
    out := echo.Map{"booking": b, "payments": payments, "package": nil}
    if b.PackageID != nil && h.Packages != nil {
        pkg, err := h.Packages.PackageDetail(ctx, *b.PackageID)
        switch {
        case err == nil:
            out["package"] = pkg
        case !service.IsNotFound(err):
            return writeError(c, err)
        }
    }
    return c.JSON(http.StatusOK, out)
}
