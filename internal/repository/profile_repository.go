package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/umrah-booking/internal/model"
	"github.com/iliyamo/umrah-booking/internal/utils"
)

// ProfileRepo reads and writes the `profiles` directory.
type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// CreateTx inserts the profile that accompanies a new account.
func (r *ProfileRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	p.ID = uuid.NewString()
	p.Email = utils.NormalizeEmail(p.Email)
	_, err := tx.ExecContext(ctx,
		"INSERT INTO profiles (id, user_id, email, full_name, phone) VALUES (?,?,?,?,?)",
		p.ID, p.UserID, p.Email, p.FullName, p.Phone)
	return err
}

// FindByEmail returns the single profile whose email matches the
// normalized address, or ErrNotFound.
func (r *ProfileRepo) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	const q = `SELECT id, user_id, email, full_name, phone, created_at
	           FROM profiles WHERE email = ? ORDER BY created_at LIMIT 1`
	return r.scan(r.db.QueryRowContext(ctx, q, utils.NormalizeEmail(email)))
}

// GetByUserID returns the profile of an account.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `SELECT id, user_id, email, full_name, phone, created_at
	           FROM profiles WHERE user_id = ? LIMIT 1`
	return r.scan(r.db.QueryRowContext(ctx, q, userID))
}

func (r *ProfileRepo) scan(row *sql.Row) (*model.Profile, error) {
	var p model.Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.FullName, &p.Phone, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
