package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/umrah-booking/internal/ledger"
	"github.com/iliyamo/umrah-booking/internal/model"
)

// LedgerRepo implements ledger.Store on MySQL. Each WithBooking call is a
// single transaction holding SELECT ... FOR UPDATE on the booking row, so
// concurrent payments against one booking queue behind each other and the
// recompute always reads the full committed history plus its own insert.
type LedgerRepo struct {
	db       *sql.DB
	bookings *BookingRepo
	payments *PaymentRepo
}

func NewLedgerRepo(db *sql.DB, bookings *BookingRepo, payments *PaymentRepo) *LedgerRepo {
	return &LedgerRepo{db: db, bookings: bookings, payments: payments}
}

// WithBooking locks the booking, runs fn and commits only if fn succeeds.
// A missing booking yields ErrNotFound before fn is called.
func (r *LedgerRepo) WithBooking(ctx context.Context, bookingID string, fn func(ledger.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := r.bookings.LockTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if err := fn(&ledgerTx{repo: r, tx: tx, booking: *b}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type ledgerTx struct {
	repo    *LedgerRepo
	tx      *sql.Tx
	booking model.Booking
}

func (t *ledgerTx) Booking() model.Booking { return t.booking }

func (t *ledgerTx) InsertPayment(ctx context.Context, p *model.Payment) error {
	p.BookingID = t.booking.ID
	return t.repo.payments.InsertTx(ctx, t.tx, p)
}

func (t *ledgerTx) Amounts(ctx context.Context) ([]decimal.Decimal, error) {
	history, err := t.repo.payments.ListByBookingTx(ctx, t.tx, t.booking.ID)
	if err != nil {
		return nil, err
	}
	out := make([]decimal.Decimal, 0, len(history))
	for _, p := range history {
		out = append(out, p.Amount)
	}
	return out, nil
}

func (t *ledgerTx) Apply(ctx context.Context, s ledger.Summary) error {
	return t.repo.bookings.UpdateLedgerTx(ctx, t.tx, t.booking.ID, s)
}
