package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/umrah-booking/internal/model"
)

// PaymentRepo appends to and reads `payment_history`. There is no update or
// delete: entries are immutable once written.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentSelect = `SELECT id, booking_id, amount, payment_date, payment_mode, notes, proof_url, created_at
FROM payment_history WHERE booking_id = ? ORDER BY payment_date DESC, created_at DESC`

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// InsertTx stores p inside tx, assigning its id and defaulting the
// payment date to now.
func (r *PaymentRepo) InsertTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	if p.PaymentDate.IsZero() {
		p.PaymentDate = now
	}
	p.CreatedAt = now
	const q = `INSERT INTO payment_history (id, booking_id, amount, payment_date, payment_mode, notes, proof_url, created_at)
	           VALUES (?,?,?,?,?,?,?,?)`
	_, err := tx.ExecContext(ctx, q, p.ID, p.BookingID, p.Amount, p.PaymentDate, p.PaymentMode, p.Notes, p.ProofURL, p.CreatedAt)
	return err
}

// ListByBooking returns a booking's payments, most recent first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID string) ([]model.Payment, error) {
	return listPayments(ctx, r.db, bookingID)
}

// ListByBookingTx is ListByBooking reading through tx, so it sees rows
// inserted earlier in the same transaction.
func (r *PaymentRepo) ListByBookingTx(ctx context.Context, tx *sql.Tx, bookingID string) ([]model.Payment, error) {
	return listPayments(ctx, tx, bookingID)
}

func listPayments(ctx context.Context, q querier, bookingID string) ([]model.Payment, error) {
	rows, err := q.QueryContext(ctx, paymentSelect, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.PaymentDate, &p.PaymentMode, &p.Notes, &p.ProofURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
