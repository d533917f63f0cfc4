package auth

import (
	"context"
	"errors"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// AuthorizationService answers permission questions that depend on stored state
type AuthorizationService struct {
	userRepo repositories.IUserRepository
	jobRepo  repositories.IJobRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo repositories.IUserRepository, jobRepo repositories.IJobRepository) *AuthorizationService {
	return &AuthorizationService{
		userRepo: userRepo,
		jobRepo:  jobRepo,
	}
}

// GetUserInfo loads the user behind a session
func (s *AuthorizationService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user in GetUserInfo")
		}
		return nil, err
	}
	return user, nil
}

// CanManageJob checks if the user posted the job or is an administrator
func (s *AuthorizationService) CanManageJob(ctx context.Context, jobID int64, user *models.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin() {
		return true, nil
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return false, err
	}
	return job.UserID == user.ID, nil
}
