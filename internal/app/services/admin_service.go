package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"golang.org/x/sync/errgroup"
)

// AdminService defines administrator operations
type AdminService interface {
	Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
	PendingUsers(ctx context.Context) ([]*models.User, error)
	ApproveUser(ctx context.Context, userID int64) (*models.User, string, error)
}

type adminServiceImpl struct {
	userRepo     repositories.IUserRepository
	donationRepo repositories.IDonationRepository
	jobRepo      repositories.IJobRepository
	mailer       email.EmailService
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repositories.IUserRepository,
	donationRepo repositories.IDonationRepository,
	jobRepo repositories.IJobRepository,
	mailer email.EmailService,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		userRepo:     userRepo,
		donationRepo: donationRepo,
		jobRepo:      jobRepo,
		mailer:       mailer,
		logger:       logger,
		now:          time.Now,
	}
}

// Dashboard gathers the overview counters concurrently
func (s *adminServiceImpl) Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	var resp dto.AdminDashboardResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.userRepo.CountAlumni(gctx, false)
		resp.PendingUsers = n
		return err
	})
	g.Go(func() error {
		total, err := s.donationRepo.Total(gctx)
		resp.TotalDonations = total
		return err
	})
	g.Go(func() error {
		n, err := s.jobRepo.CountActive(gctx, s.now())
		resp.ActiveJobs = n
		return err
	})
	g.Go(func() error {
		n, err := s.userRepo.CountAlumni(gctx, true)
		resp.TotalAlumni = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard statistics: %w", err)
	}
	return &resp, nil
}

func (s *adminServiceImpl) PendingUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListPending(ctx)
}

// ApproveUser approves an account, mails the member and returns the confirmation message
func (s *adminServiceImpl) ApproveUser(ctx context.Context, userID int64) (*models.User, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user.IsApproved {
		return nil, "", apperrors.NewConflictError(fmt.Sprintf("User %s is already approved.", user.Email))
	}

	if err := s.userRepo.Approve(ctx, userID); err != nil {
		return nil, "", err
	}
	user.IsApproved = true

	if s.mailer != nil {
		if err := s.mailer.SendAccountApprovedEmail(user.Email, user.FullName()); err != nil {
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send approval email")
		}
	}

	s.logger.Info().Int64("userID", userID).Str("email", user.Email).Msg("User approved")
	return user, fmt.Sprintf("User %s approved successfully!", user.Email), nil
}
