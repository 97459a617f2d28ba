package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/umrah-booking/internal/model"
)

// PackageRepo encapsulates queries against the `packages` catalog.
type PackageRepo struct {
	db *sql.DB
}

// NewPackageRepo constructs a PackageRepo with the provided DB handle.
func NewPackageRepo(db *sql.DB) *PackageRepo {
	return &PackageRepo{db: db}
}

const packageColumns = `id, title, slug, duration, price, original_price, early_bird_price, early_bird_end_date,
overview, cover_image, hotel_makkah, hotel_madinah, distance_makkah, distance_madinah,
direct_flight, five_star, meals_included, visa_included, featured, published, show_scarcity,
rating, total_seats, seats_booked, itinerary, included, not_included, cancellation_policy,
refund_policy, departure_dates, departure_note, created_at, updated_at`

func scanPackage(s rowScanner) (*model.Package, error) {
	var p model.Package
	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Duration, &p.Price, &p.OriginalPrice, &p.EarlyBirdPrice, &p.EarlyBirdEndDate,
		&p.Overview, &p.CoverImage, &p.HotelMakkah, &p.HotelMadinah, &p.DistanceMakkah, &p.DistanceMadinah,
		&p.DirectFlight, &p.FiveStar, &p.MealsIncluded, &p.VisaIncluded, &p.Featured, &p.Published, &p.ShowScarcity,
		&p.Rating, &p.TotalSeats, &p.SeatsBooked, &p.Itinerary, &p.Included, &p.NotIncluded, &p.CancellationPolicy,
		&p.RefundPolicy, &p.DepartureDates, &p.DepartureNote, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// writeArgs lists the editable columns in the order used by Create and Update.
func packageWriteArgs(p *model.Package) []any {
	return []any{p.Title, p.Slug, p.Duration, p.Price, p.OriginalPrice, p.EarlyBirdPrice, p.EarlyBirdEndDate,
		p.Overview, p.CoverImage, p.HotelMakkah, p.HotelMadinah, p.DistanceMakkah, p.DistanceMadinah,
		p.DirectFlight, p.FiveStar, p.MealsIncluded, p.VisaIncluded, p.Featured, p.Published, p.ShowScarcity,
		p.Rating, p.TotalSeats, p.SeatsBooked, p.Itinerary, p.Included, p.NotIncluded, p.CancellationPolicy,
		p.RefundPolicy, p.DepartureDates, p.DepartureNote}
}

// Create inserts a new package with a fresh id. A duplicate slug yields ErrConflict.
func (r *PackageRepo) Create(ctx context.Context, p *model.Package) error {
	p.ID = uuid.NewString()
	const q = `INSERT INTO packages (id, title, slug, duration, price, original_price, early_bird_price, early_bird_end_date,
	           overview, cover_image, hotel_makkah, hotel_madinah, distance_makkah, distance_madinah,
	           direct_flight, five_star, meals_included, visa_included, featured, published, show_scarcity,
	           rating, total_seats, seats_booked, itinerary, included, not_included, cancellation_policy,
	           refund_policy, departure_dates, departure_note)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	args := append([]any{p.ID}, packageWriteArgs(p)...)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	return r.reload(ctx, p)
}

// Update overwrites every editable column of p.
func (r *PackageRepo) Update(ctx context.Context, p *model.Package) error {
	const q = `UPDATE packages SET title=?, slug=?, duration=?, price=?, original_price=?, early_bird_price=?, early_bird_end_date=?,
	           overview=?, cover_image=?, hotel_makkah=?, hotel_madinah=?, distance_makkah=?, distance_madinah=?,
	           direct_flight=?, five_star=?, meals_included=?, visa_included=?, featured=?, published=?, show_scarcity=?,
	           rating=?, total_seats=?, seats_booked=?, itinerary=?, included=?, not_included=?, cancellation_policy=?,
	           refund_policy=?, departure_dates=?, departure_note=? WHERE id=?`
	args := append(packageWriteArgs(p), p.ID)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	return r.reload(ctx, p)
}

func (r *PackageRepo) reload(ctx context.Context, p *model.Package) error {
	fresh, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

// GetByID returns a package regardless of its published flag.
func (r *PackageRepo) GetByID(ctx context.Context, id string) (*model.Package, error) {
	return r.one(ctx, "SELECT "+packageColumns+" FROM packages WHERE id = ?", id)
}

// GetBySlug returns a package regardless of its published flag.
func (r *PackageRepo) GetBySlug(ctx context.Context, slug string) (*model.Package, error) {
	return r.one(ctx, "SELECT "+packageColumns+" FROM packages WHERE slug = ?", slug)
}

func (r *PackageRepo) one(ctx context.Context, q string, args ...any) (*model.Package, error) {
	p, err := scanPackage(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// ListAll returns every package for the back office, newest first.
func (r *PackageRepo) ListAll(ctx context.Context) ([]model.Package, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+packageColumns+" FROM packages ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Delete removes a package. Bookings keep their rows with package_id set to NULL.
func (r *PackageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM packages WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
