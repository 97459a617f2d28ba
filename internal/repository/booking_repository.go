package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/umrah-booking/internal/ledger"
	"github.com/iliyamo/umrah-booking/internal/model"
)

// BookingRepo provides CRUD and ledger updates for the `bookings` table.
// Reads join the package title for display.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to db.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingSelect = `SELECT b.id, b.customer_name, b.customer_email, b.customer_phone, b.package_id,
       p.title, b.user_id, b.total_price, b.remaining_balance, b.payment_percentage,
       b.payment_status, b.booking_status, b.departure_date, b.notes, b.created_at, b.updated_at
FROM bookings b
LEFT JOIN packages p ON p.id = b.package_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (*model.Booking, error) {
	var b model.Booking
	err := s.Scan(&b.ID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.PackageID,
		&b.PackageTitle, &b.UserID, &b.TotalPrice, &b.RemainingBalance, &b.PaymentPercentage,
		&b.PaymentStatus, &b.BookingStatus, &b.DepartureDate, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) one(ctx context.Context, q string, args ...any) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *BookingRepo) many(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Create inserts b with a fresh id and reloads it.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	b.ID = uuid.NewString()
	const q = `INSERT INTO bookings (id, customer_name, customer_email, customer_phone, package_id, user_id,
	           total_price, remaining_balance, payment_percentage, payment_status, booking_status, departure_date, notes)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q, b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.PackageID, b.UserID,
		b.TotalPrice, b.RemainingBalance, b.PaymentPercentage, b.PaymentStatus, b.BookingStatus, b.DepartureDate, b.Notes)
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *fresh
	return nil
}

// Update overwrites the staff-editable fields and the derived ledger fields.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings SET customer_name=?, customer_email=?, customer_phone=?, package_id=?, user_id=?,
	           total_price=?, remaining_balance=?, payment_percentage=?, payment_status=?, booking_status=?,
	           departure_date=?, notes=? WHERE id=?`
	_, err := r.db.ExecContext(ctx, q, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.PackageID, b.UserID,
		b.TotalPrice, b.RemainingBalance, b.PaymentPercentage, b.PaymentStatus, b.BookingStatus,
		b.DepartureDate, b.Notes, b.ID)
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *fresh
	return nil
}

// GetByID returns a booking or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return r.one(ctx, bookingSelect+" WHERE b.id = ?", id)
}

// GetForUser returns a booking only if it is linked to userID.
func (r *BookingRepo) GetForUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	return r.one(ctx, bookingSelect+" WHERE b.id = ? AND b.user_id = ?", id, userID)
}

// List returns every booking, newest first.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	return r.many(ctx, bookingSelect+" ORDER BY b.created_at DESC")
}

// ListByUser returns the bookings linked to an account, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return r.many(ctx, bookingSelect+" WHERE b.user_id = ? ORDER BY b.created_at DESC", userID)
}

// Delete removes a booking and its payment history in one transaction.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
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
	if _, err := tx.ExecContext(ctx, "DELETE FROM payment_history WHERE booking_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// LockTx loads a booking with a row lock held until tx ends.
func (r *BookingRepo) LockTx(ctx context.Context, tx *sql.Tx, id string) (*model.Booking, error) {
	const q = `SELECT b.id, b.customer_name, b.customer_email, b.customer_phone, b.package_id,
	           NULL, b.user_id, b.total_price, b.remaining_balance, b.payment_percentage,
	           b.payment_status, b.booking_status, b.departure_date, b.notes, b.created_at, b.updated_at
	           FROM bookings b WHERE b.id = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// UpdateLedgerTx writes the derived payment fields.
func (r *BookingRepo) UpdateLedgerTx(ctx context.Context, tx *sql.Tx, id string, s ledger.Summary) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE bookings SET payment_percentage=?, remaining_balance=?, payment_status=? WHERE id=?",
		s.Percentage, s.Remaining, s.Status, id)
	return err
}

// Stats aggregates the admin dashboard counters and the five newest bookings.
func (r *BookingRepo) Stats(ctx context.Context) (model.DashboardStats, error) {
	var st model.DashboardStats
	const q = `SELECT
	             (SELECT COUNT(*) FROM packages),
	             COUNT(*),
	             COALESCE(SUM(total_price), 0),
	             COALESCE(SUM(CASE WHEN payment_status = 'pending' THEN 1 ELSE 0 END), 0)
	           FROM bookings`
	if err := r.db.QueryRowContext(ctx, q).Scan(&st.Packages, &st.Bookings, &st.Revenue, &st.PendingPayment); err != nil {
		return st, err
	}
	recent, err := r.many(ctx, bookingSelect+" ORDER BY b.created_at DESC LIMIT 5")
	if err != nil {
		return st, err
	}
	st.Recent = recent
	return st, nil
}
