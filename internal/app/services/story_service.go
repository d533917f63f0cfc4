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
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
)

// FeaturedStoryLimit caps the featured stories shown on the home page
const FeaturedStoryLimit = 3

// StoryService defines success story operations
type StoryService interface {
	ListPublished(ctx context.Context) ([]*models.Story, error)
	Featured(ctx context.Context) ([]*models.Story, error)
	Submit(ctx context.Context, userID int64, req *dto.StoryRequest) (*models.Story, error)
	Pending(ctx context.Context) ([]*models.Story, error)
	Publish(ctx context.Context, id int64) (*models.Story, error)
	ToggleFeature(ctx context.Context, id int64) (*dto.FeatureResponse, error)
}

type storyServiceImpl struct {
	storyRepo repositories.IStoryRepository
	notifier  Notifier
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStoryService creates a new StoryService
func NewStoryService(storyRepo repositories.IStoryRepository, notifier Notifier, logger zerolog.Logger) StoryService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &storyServiceImpl{
		storyRepo: storyRepo,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *storyServiceImpl) ListPublished(ctx context.Context) ([]*models.Story, error) {
	return s.storyRepo.ListByPublished(ctx, true)
}

func (s *storyServiceImpl) Featured(ctx context.Context) ([]*models.Story, error) {
	return s.storyRepo.ListFeatured(ctx, FeaturedStoryLimit)
}

func (s *storyServiceImpl) Pending(ctx context.Context) ([]*models.Story, error) {
	return s.storyRepo.ListByPublished(ctx, false)
}

func (s *storyServiceImpl) Submit(ctx context.Context, userID int64, req *dto.StoryRequest) (*models.Story, error) {
	title := sanitize.Text(req.Title)
	content := sanitize.Multiline(req.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: Title and content are required.", apperrors.ErrValidationFailed)
	}

	story := &models.Story{
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if _, err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("storyID", story.ID).Int64("userID", userID).Msg("Story submitted for review")
	s.notifier.Notify(websocket.EventStorySubmitted, map[string]interface{}{
		"id":     story.ID,
		"title":  story.Title,
		"userId": userID,
	})
	return story, nil
}

func (s *storyServiceImpl) Publish(ctx context.Context, id int64) (*models.Story, error) {
	if err := s.storyRepo.Publish(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("storyID", id).Msg("Story published")
	return s.storyRepo.GetByID(ctx, id)
}

func (s *storyServiceImpl) ToggleFeature(ctx context.Context, id int64) (*dto.FeatureResponse, error) {
	featured, err := s.storyRepo.ToggleFeature(ctx, id)
	if err != nil {
		return nil, err
	}

	state := "unfeatured"
	if featured {
		state = "featured"
	}
	return &dto.FeatureResponse{
		StoryID:    id,
		IsFeatured: featured,
		Message:    fmt.Sprintf("Story %s successfully!", state),
	}, nil
}
