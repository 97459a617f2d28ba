package ledger

import (
    "context"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/umrah-booking/internal/model"
)

// Tx is one booking held exclusively for the duration of a Store.WithBooking
// callback. Writes become visible only if the callback returns nil.
type Tx interface {
    // Booking is the row as it was when the lock was taken.
    Booking() model.Booking
    InsertPayment(ctx context.Context, p *model.Payment) error
    // Amounts lists every payment amount for the booking, including ones
    // inserted earlier in this Tx.
    Amounts(ctx context.Context) ([]decimal.Decimal, error)
    Apply(ctx context.Context, s Summary) error
}

// Store serialises ledger writes per booking.
type Store interface {
    WithBooking(ctx context.Context, bookingID string, fn func(Tx) error) error
}
