package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
)

// HomeEventLimit caps the upcoming events shown on the home page
const HomeEventLimit = 3

// HomeService builds the landing page content
type HomeService interface {
	Home(ctx context.Context) *dto.HomeResponse
}

type homeServiceImpl struct {
	storyRepo repositories.IStoryRepository
	eventRepo repositories.IEventRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewHomeService creates a new HomeService
func NewHomeService(storyRepo repositories.IStoryRepository, eventRepo repositories.IEventRepository, logger zerolog.Logger) HomeService {
	return &homeServiceImpl{
		storyRepo: storyRepo,
		eventRepo: eventRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Home never fails: a database error leaves the affected list empty
func (s *homeServiceImpl) Home(ctx context.Context) *dto.HomeResponse {
	resp := &dto.HomeResponse{
		FeaturedStories: []*models.Story{},
		UpcomingEvents:  []*models.Event{},
	}

	if stories, err := s.storyRepo.ListFeatured(ctx, FeaturedStoryLimit); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load featured stories")
	} else {
		resp.FeaturedStories = stories
	}

	if events, err := s.eventRepo.ListUpcoming(ctx, s.now(), HomeEventLimit); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load upcoming events")
	} else {
		resp.UpcomingEvents = events
	}

	return resp
}
