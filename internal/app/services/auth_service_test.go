package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
	"github.com/yigit/alumnihub/internal/testutil"
)

func validRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:          "  Jane@Example.com ",
		Password:       "s3cretPass",
		FirstName:      "Jane",
		LastName:       "Doe",
		GraduationYear: 2015,
		Degree:         "B.Sc",
		Department:     "Physics",
	}
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	svc := f.services(t).Auth
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleAlumni, user.Role)
	assert.False(t, user.IsApproved)
	assert.NotEqual(t, "s3cretPass", user.Password)

	assert.Equal(t, []string{websocket.EventUserRegistered}, f.notifier.types())
	assert.Equal(t, []string{"jane@example.com"}, f.mailer.pending)

	_, err = svc.Register(ctx, validRegistration())
	require.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.Equal(t, "Email already registered.", apperrors.UserMessage(err))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.services(t).Auth

	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *dto.RegisterRequest) { r.Password = "a1" }},
		{"password without digit", func(r *dto.RegisterRequest) { r.Password = "onlyletters" }},
		{"missing first name", func(r *dto.RegisterRequest) { r.FirstName = " " }},
		{"graduation year too early", func(r *dto.RegisterRequest) { r.GraduationYear = 1900 }},
		{"graduation year too late", func(r *dto.RegisterRequest) { r.GraduationYear = 3000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(req)
			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestAuthService_LoginLanding(t *testing.T) {
	f := newFixture(t)
	svc := f.services(t).Auth
	ctx := context.Background()

	testutil.CreateUser(t, f.db, testutil.WithEmail("pending@example.com"), testutil.WithPassword("passw0rd"))
	testutil.CreateUser(t, f.db, testutil.WithEmail("member@example.com"), testutil.WithPassword("passw0rd"), testutil.Approved())
	testutil.CreateUser(t, f.db, testutil.WithEmail("admin@example.com"), testutil.WithPassword("passw0rd"), testutil.Admin())

	tests := []struct {
		email   string
		landing string
	}{
		{"pending@example.com", LandingPendingApproval},
		{"MEMBER@example.com", LandingAlumniDashboard},
		{"admin@example.com", LandingAdminDashboard},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			resp, err := svc.Login(ctx, &dto.LoginRequest{Email: tt.email, Password: "passw0rd"})
			require.NoError(t, err)
			assert.Equal(t, tt.landing, resp.Landing)
			assert.NotEmpty(t, resp.Token.AccessToken)
			assert.NotEmpty(t, resp.Token.RefreshToken)
			assert.NotNil(t, resp.User.LastLoginAt)

			claims, err := f.jwt.ValidateToken(resp.Token.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, resp.User.ID, claims.UserID)
		})
	}

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "member@example.com", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "passw0rd"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	f := newFixture(t)
	svc := f.services(t).Auth
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, testutil.WithPassword("passw0rd"), testutil.Approved())

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: user.Email, Password: "passw0rd"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, login.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Token.RefreshToken, refreshed.RefreshToken)

	_, err = svc.RefreshToken(ctx, login.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	require.NoError(t, svc.Logout(ctx, user.ID))
	_, err = svc.RefreshToken(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	_, err = svc.RefreshToken(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)
}
