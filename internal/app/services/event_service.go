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
)

// EventService defines event operations
type EventService interface {
	List(ctx context.Context) (*dto.EventListResponse, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Register(ctx context.Context, eventID, userID int64) (*models.EventRegistration, error)
	CancelRegistration(ctx context.Context, eventID, userID int64) error
	Create(ctx context.Context, req *dto.EventRequest) (*models.Event, error)
	ListAll(ctx context.Context) ([]*models.Event, error)
	Attendees(ctx context.Context, eventID int64) ([]*models.EventRegistration, error)
	SetActive(ctx context.Context, eventID int64, active bool) (*models.Event, error)
}

type eventServiceImpl struct {
	eventRepo repositories.IEventRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repositories.IEventRepository, logger zerolog.Logger) EventService {
	return &eventServiceImpl{
		eventRepo: eventRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *eventServiceImpl) List(ctx context.Context) (*dto.EventListResponse, error) {
	now := s.now()
	upcoming, err := s.eventRepo.ListUpcoming(ctx, now, 0)
	if err != nil {
		return nil, err
	}
	past, err := s.eventRepo.ListPast(ctx, now)
	if err != nil {
		return nil, err
	}
	return &dto.EventListResponse{Upcoming: upcoming, Past: past}, nil
}

func (s *eventServiceImpl) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventServiceImpl) Register(ctx context.Context, eventID, userID int64) (*models.EventRegistration, error) {
	reg, err := s.eventRepo.Register(ctx, eventID, userID, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("eventID", eventID).Int64("userID", userID).Msg("Registered for event")
	return reg, nil
}

func (s *eventServiceImpl) CancelRegistration(ctx context.Context, eventID, userID int64) error {
	if err := s.eventRepo.CancelRegistration(ctx, eventID, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("eventID", eventID).Int64("userID", userID).Msg("Event registration cancelled")
	return nil
}

func (s *eventServiceImpl) Create(ctx context.Context, req *dto.EventRequest) (*models.Event, error) {
	title := sanitize.Text(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: Title is required.", apperrors.ErrValidationFailed)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: Event date is required.", apperrors.ErrValidationFailed)
	}
	if req.MaxAttendees != nil && *req.MaxAttendees <= 0 {
		return nil, fmt.Errorf("%w: Maximum attendees must be positive.", apperrors.ErrValidationFailed)
	}
	if req.RegistrationFee < 0 {
		return nil, fmt.Errorf("%w: Registration fee cannot be negative.", apperrors.ErrValidationFailed)
	}

	event := &models.Event{
		Title:           title,
		Description:     sanitize.Multiline(req.Description),
		Date:            req.Date.UTC().Truncate(time.Second),
		Location:        sanitize.Text(req.Location),
		MaxAttendees:    req.MaxAttendees,
		RegistrationFee: req.RegistrationFee,
		IsActive:        true,
		CreatedAt:       s.now().UTC().Truncate(time.Second),
	}
	if _, err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", event.ID).Str("title", event.Title).Msg("Event created")
	return event, nil
}

func (s *eventServiceImpl) ListAll(ctx context.Context) ([]*models.Event, error) {
	return s.eventRepo.ListAll(ctx)
}

func (s *eventServiceImpl) Attendees(ctx context.Context, eventID int64) ([]*models.EventRegistration, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.Attendees(ctx, eventID)
}

func (s *eventServiceImpl) SetActive(ctx context.Context, eventID int64, active bool) (*models.Event, error) {
	if err := s.eventRepo.SetActive(ctx, eventID, active); err != nil {
		return nil, err
	}
	return s.eventRepo.GetByID(ctx, eventID)
}
