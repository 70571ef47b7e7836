package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/coursedesk/internal/app/models"
	appRepos "github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/auth"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
)

// CreateDefaultData creates the bootstrap admin account from configuration if
// it does not exist yet. Without configured credentials nothing is created.
func CreateDefaultData(ctx context.Context, userRepo appRepos.IUserRepository, cfg *config.Config, lgr zerolog.Logger) error {
	email := cfg.Admin.Email
	if email == "" || cfg.Admin.Password == "" {
		lgr.Warn().Msg("admin.email or admin.password not set, skipping admin account creation")
		return nil
	}

	_, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	lgr.Info().Str("email", email).Msg("Creating default admin user...")
	hashedPassword, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	admin := &appModels.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         cfg.Admin.Name,
		PasswordHash: hashedPassword,
		CreatedAt:    helpers.NowUTC(),
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Str("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
