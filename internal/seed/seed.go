package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/alumnihub/internal/app/models"
	appRepos "github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

// AdminAccount describes the default administrator
type AdminAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EnsureAdmin creates the default admin account if no user owns its email yet.
// It reports whether a new account was created.
func EnsureAdmin(ctx context.Context, userRepo appRepos.IUserRepository, account AdminAccount, lgr zerolog.Logger) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(account.Email))
	if email == "" || account.Password == "" {
		lgr.Warn().Msg("Default admin credentials not configured, skipping creation")
		return false, nil
	}

	exists, err := userRepo.EmailExists(ctx, email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return false, fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return false, nil
	}

	lgr.Info().Msg("Creating default admin user...")
	hashedPassword, err := auth.HashPassword(account.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &appModels.User{
		Email:      email,
		Password:   hashedPassword,
		Role:       appModels.RoleAdmin,
		IsApproved: true,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
	}
	adminID, err := userRepo.Create(ctx, admin)
	if err != nil {
		// Another process seeded the same account between the check and the insert
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return false, nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return false, fmt.Errorf("create admin user: %w", err)
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return true, nil
}
