package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/umrah-booking/internal/config"
	"github.com/iliyamo/umrah-booking/internal/model"
	"github.com/iliyamo/umrah-booking/internal/repository"
)

// bootstrapAdmin makes sure ADMIN_EMAIL exists with the admin role. An
// existing account is promoted and its password left untouched.
func bootstrapAdmin(ctx context.Context, cfg config.Config, users *repository.UserRepo, profiles *repository.ProfileRepo) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	u, err := users.GetByEmail(ctx, cfg.AdminEmail)
	switch {
	case err == nil:
		if u.Role == model.RoleAdmin {
			return nil
		}
		log.Printf("admin bootstrap: promoting %s", u.Email)
		return users.SetRole(ctx, u.ID, model.RoleAdmin)
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	tx, err := users.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	uid, err := users.CreateTx(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, model.RoleAdmin, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := profiles.CreateTx(ctx, tx, &model.Profile{UserID: uid, Email: cfg.AdminEmail}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("admin bootstrap: created %s", cfg.AdminEmail)
	return nil
}
