package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
)

// Notifier publishes live events to connected administrators
type Notifier interface {
	Notify(eventType string, data interface{})
}

// NopNotifier discards notifications
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(string, interface{}) {}

// Services holds all the service instances
type Services struct {
	Auth     *AuthService
	User     UserService
	Donation DonationService
	Job      JobService
	Event    EventService
	Story    StoryService
	Admin    AdminService
	Home     HomeService
}

// Dependencies groups what the services are built from
type Dependencies struct {
	Repos    *repositories.Repositories
	JWT      *auth.JWTService
	Mailer   email.EmailService
	Notifier Notifier
	Storage  filestorage.FileStorage
	Logger   zerolog.Logger
}

// NewServices wires every service
func NewServices(deps Dependencies) *Services {
	if deps.Notifier == nil {
		deps.Notifier = NopNotifier{}
	}
	r := deps.Repos
	return &Services{
		Auth:     NewAuthService(r.UserRepository, r.TokenRepository, deps.JWT, deps.Mailer, deps.Notifier, deps.Logger),
		User:     NewUserService(r.UserRepository, r.DonationRepository, r.JobRepository, r.EventRepository, deps.Logger),
		Donation: NewDonationService(r.DonationRepository, deps.Notifier, deps.Logger),
		Job:      NewJobService(r.JobRepository, deps.Storage, deps.Notifier, deps.Logger),
		Event:    NewEventService(r.EventRepository, deps.Logger),
		Story:    NewStoryService(r.StoryRepository, deps.Notifier, deps.Logger),
		Admin:    NewAdminService(r.UserRepository, r.DonationRepository, r.JobRepository, deps.Mailer, deps.Logger),
		Home:     NewHomeService(r.StoryRepository, r.EventRepository, deps.Logger),
	}
}
