package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
	"github.com/yigit/alumnihub/internal/pkg/validation"
)

// DashboardEventLimit caps the upcoming events shown on the alumni dashboard
const DashboardEventLimit = 5

// UserService defines the interface for profile and directory operations
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
	Directory(ctx context.Context, filter *dto.DirectoryFilter) (*dto.DirectoryResponse, error)
	AlumniDashboard(ctx context.Context, userID int64) (*dto.AlumniDashboardResponse, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo     repositories.IUserRepository
	donationRepo repositories.IDonationRepository
	jobRepo      repositories.IJobRepository
	eventRepo    repositories.IEventRepository
	logger       zerolog.Logger
	now          func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	donationRepo repositories.IDonationRepository,
	jobRepo repositories.IJobRepository,
	eventRepo repositories.IEventRepository,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:     userRepo,
		donationRepo: donationRepo,
		jobRepo:      jobRepo,
		eventRepo:    eventRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// GetProfile retrieves a user's profile
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile validates and stores the editable profile fields
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := validation.ValidateName("First name", req.FirstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("Last name", req.LastName); err != nil {
		return nil, err
	}
	linkedIn := strings.TrimSpace(req.LinkedIn)
	if err := validation.ValidateOptionalURL("LinkedIn", linkedIn); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = sanitize.Text(req.FirstName)
	user.LastName = sanitize.Text(req.LastName)
	user.Company = sanitize.Text(req.Company)
	user.Position = sanitize.Text(req.Position)
	user.Phone = sanitize.Text(req.Phone)
	user.LinkedIn = linkedIn
	user.Bio = sanitize.Multiline(req.Bio)

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return user, nil
}

// Directory searches approved alumni and returns the filter facets
func (s *userServiceImpl) Directory(ctx context.Context, filter *dto.DirectoryFilter) (*dto.DirectoryResponse, error) {
	page, size := filter.Page, filter.PageSize
	if size <= 0 || size > helpers.MaxPageSize {
		size = helpers.DirectoryPageSize
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	alumni, total, err := s.userRepo.SearchDirectory(ctx, repositories.DirectoryQuery{
		Search:     strings.TrimSpace(filter.Search),
		Year:       filter.Year,
		Department: strings.TrimSpace(filter.Department),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	years, err := s.userRepo.DistinctGraduationYears(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.userRepo.DistinctDepartments(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DirectoryResponse{
		Alumni:      dto.FromUsers(alumni),
		Pagination:  helpers.NewPaginationInfo(total, page, size),
		Years:       years,
		Departments: departments,
	}, nil
}

// AlumniDashboard summarizes a member's activity and the next events
func (s *userServiceImpl) AlumniDashboard(ctx context.Context, userID int64) (*dto.AlumniDashboardResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	donations, err := s.donationRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListUpcoming(ctx, s.now(), DashboardEventLimit)
	if err != nil {
		return nil, err
	}

	return &dto.AlumniDashboardResponse{
		User:           dto.FromUser(user),
		DonationCount:  donations,
		JobCount:       jobs,
		UpcomingEvents: events,
	}, nil
}
