package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/umrah-booking/internal/model"
)

// SettingsRepo reads and writes `site_settings` key/value pairs.
type SettingsRepo struct{ db *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// List returns all settings ordered by key.
func (r *SettingsRepo) List(ctx context.Context) ([]model.Setting, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT `key`, value FROM site_settings ORDER BY `key`")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Setting{}
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns the value stored under key or ErrNotFound.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM site_settings WHERE `key` = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

// Upsert writes every setting in one transaction.
func (r *SettingsRepo) Upsert(ctx context.Context, settings []model.Setting) error {
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
	for _, s := range settings {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO site_settings (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
			s.Key, s.Value); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
