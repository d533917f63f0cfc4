package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/validation"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
)

// Landing pages reported after login
const (
	LandingAdminDashboard  = "admin_dashboard"
	LandingAlumniDashboard = "alumni_dashboard"
	LandingPendingApproval = "pending_approval"
)

// RegistrationMessage is shown after a successful registration
const RegistrationMessage = "Registration successful! Please wait for admin approval."

// TokenRefresher consumes stored refresh tokens
type TokenRefresher interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	ConsumeToken(ctx context.Context, token string, now time.Time) (int64, error)
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	CleanupExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	tokenRepo  TokenRefresher
	jwtService *auth.JWTService
	mailer     email.EmailService
	notifier   Notifier
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo TokenRefresher,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	notifier Notifier,
	logger zerolog.Logger,
) *AuthService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		mailer:     mailer,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates an unapproved alumni account
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	emailAddr := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(emailAddr); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("First name", req.FirstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("Last name", req.LastName); err != nil {
		return nil, err
	}
	if err := validation.ValidateGraduationYear(req.GraduationYear, s.now()); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already registered.")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	year := req.GraduationYear
	user := &models.User{
		Email:          emailAddr,
		Password:       hashedPassword,
		Role:           models.RoleAlumni,
		IsApproved:     false,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		GraduationYear: &year,
		Degree:         strings.TrimSpace(req.Degree),
		Department:     strings.TrimSpace(req.Department),
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already registered.")
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("New alumni registered")
	s.notifier.Notify(websocket.EventUserRegistered, map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.FullName(),
	})
	if s.mailer != nil {
		if err := s.mailer.SendRegistrationPendingEmail(user.Email, user.FullName()); err != nil {
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send registration email")
		}
	}

	return user, nil
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	emailAddr := validation.NormalizeEmail(req.Email)
	if emailAddr == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	loginAt := s.now().UTC().Truncate(time.Second)
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, loginAt); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	} else {
		user.LastLoginAt = &loginAt
	}

	return &dto.LoginResponse{
		Token:   *token,
		User:    dto.FromUser(user),
		Landing: LandingFor(user),
	}, nil
}

// LandingFor picks the page a user lands on after login
func LandingFor(user *models.User) string {
	switch {
	case user.IsAdmin():
		return LandingAdminDashboard
	case user.IsApproved:
		return LandingAlumniDashboard
	default:
		return LandingPendingApproval
	}
}

// RefreshToken rotates a refresh token into a fresh token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, err := s.tokenRepo.ConsumeToken(ctx, refreshToken, s.now())
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes every refresh token of the user
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

// PurgeExpiredTokens deletes refresh tokens that can no longer be redeemed
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	deleted, err := s.tokenRepo.CleanupExpiredTokens(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge tokens: %w", err)
	}
	return deleted, nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshToken, user.ID, pair.RefreshExpiry); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}, nil
}
