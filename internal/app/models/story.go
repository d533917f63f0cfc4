package models

import "time"

// Story is a success story written by an alumnus
type Story struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title" example:"From intern to CTO"`
	Content     string    `json:"content" db:"content"`
	IsFeatured  bool      `json:"isFeatured" db:"is_featured"`
	IsPublished bool      `json:"isPublished" db:"is_published"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Joined from users
	AuthorName string `json:"authorName,omitempty" db:"-"`
}
