package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/umrah-booking/internal/model"
)

// Bookings is the booking and ledger API used by the admin and customer
// handlers; *service.BookingService implements it.
type Bookings interface {
    RecordPayment(ctx context.Context, bookingID string, in model.PaymentInput) (*model.Booking, *model.Payment, error)
    MarkFullyPaid(ctx context.Context, bookingID string) (*model.Booking, error)
    ListPayments(ctx context.Context, bookingID string) ([]model.Payment, error)
    CreateBooking(ctx context.Context, in model.BookingInput) (*model.Booking, error)
    UpdateBooking(ctx context.Context, id string, in model.BookingInput) (*model.Booking, error)
    DeleteBooking(ctx context.Context, id string) error
    ListBookings(ctx context.Context) ([]model.Booking, error)
    GetBooking(ctx context.Context, id string) (*model.Booking, error)
    ListForUser(ctx context.Context, userID string) ([]model.Booking, error)
    GetForUser(ctx context.Context, id, userID string) (*model.Booking, error)
    Stats(ctx context.Context) (model.DashboardStats, error)
}

// AdminBookingHandler serves /v1/admin/bookings and the dashboard.
type AdminBookingHandler struct {
    Svc Bookings
}

func NewAdminBookingHandler(svc Bookings) *AdminBookingHandler {
    return &AdminBookingHandler{Svc: svc}
}

// Dashboard returns the landing page counters.
func (h *AdminBookingHandler) Dashboard(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    st, err := h.Svc.Stats(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, st)
}

// List returns every booking. ?status= narrows by payment status.
func (h *AdminBookingHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, err := h.Svc.ListBookings(ctx)
    if err != nil {
        return writeError(c, err)
    }
    if st := model.PaymentStatus(strings.ToLower(c.QueryParam("status"))); st != "" {
        filtered := items[:0]
        for _, b := range items {
            if b.PaymentStatus == st {
                filtered = append(filtered, b)
            }
        }
        items = filtered
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

func (h *AdminBookingHandler) Get(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, err := h.Svc.GetBooking(ctx, c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}

func (h *AdminBookingHandler) Create(c echo.Context) error {
    var in model.BookingInput
    if err := c.Bind(&in); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, err := h.Svc.CreateBooking(ctx, in)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, b)
}

func (h *AdminBookingHandler) Update(c echo.Context) error {
    var in model.BookingInput
    if err := c.Bind(&in); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, err := h.Svc.UpdateBooking(ctx, c.Param("id"), in)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}

func (h *AdminBookingHandler) Delete(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Svc.DeleteBooking(ctx, c.Param("id")); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Payments lists the booking's payment history, newest first.
func (h *AdminBookingHandler) Payments(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, err := h.Svc.ListPayments(ctx, c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// RecordPayment appends a payment and returns the reconciled booking.
func (h *AdminBookingHandler) RecordPayment(c echo.Context) error {
    var in model.PaymentInput
    if err := c.Bind(&in); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, p, err := h.Svc.RecordPayment(ctx, c.Param("id"), in)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"booking": b, "payment": p})
}

// MarkPaid settles the booking without adding a payment entry.
func (h *AdminBookingHandler) MarkPaid(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    b, err := h.Svc.MarkFullyPaid(ctx, c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}
