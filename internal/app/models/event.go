package models

import "time"

// Event is an alumni gathering
type Event struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title" example:"Annual Reunion"`
	Description     string    `json:"description" db:"description"`
	Date            time.Time `json:"date" db:"date" example:"2025-06-01T18:00:00Z"`
	Location        string    `json:"location" db:"location" example:"Main Auditorium"`
	MaxAttendees    *int      `json:"maxAttendees,omitempty" db:"max_attendees" example:"200"`
	RegistrationFee float64   `json:"registrationFee" db:"registration_fee" example:"0"`
	IsActive        bool      `json:"isActive" db:"is_active"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`

	// Number of non-cancelled registrations
	RegisteredCount int `json:"registeredCount" db:"-"`
}

// IsUpcoming reports whether the event is still ahead of now
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}

// IsFull reports whether the attendee limit has been reached
func (e *Event) IsFull() bool {
	return e.MaxAttendees != nil && e.RegisteredCount >= *e.MaxAttendees
}

// EventRegistration links a user to an event
type EventRegistration struct {
	ID           int64              `json:"id" db:"id"`
	EventID      int64              `json:"eventId" db:"event_id"`
	UserID       int64              `json:"userId" db:"user_id"`
	RegisteredAt time.Time          `json:"registeredAt" db:"registered_at"`
	Status       RegistrationStatus `json:"status" db:"status"`

	// Joined from users
	AttendeeName  string `json:"attendeeName,omitempty" db:"-"`
	AttendeeEmail string `json:"attendeeEmail,omitempty" db:"-"`
}
