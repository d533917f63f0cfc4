package repositories

import (
	"github.com/yigit/alumnihub/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	TokenRepository    *TokenRepository
	DonationRepository *DonationRepository
	JobRepository      *JobRepository
	EventRepository    *EventRepository
	StoryRepository    *StoryRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.DB) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(database),
		TokenRepository:    NewTokenRepository(database),
		DonationRepository: NewDonationRepository(database),
		JobRepository:      NewJobRepository(database),
		EventRepository:    NewEventRepository(database),
		StoryRepository:    NewStoryRepository(database),
	}
}
