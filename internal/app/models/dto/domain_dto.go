package dto

import (
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
)

// DonationRequest represents a new donation
type DonationRequest struct {
	Amount        float64 `json:"amount" form:"amount" binding:"required,gt=0" example:"100"`
	Purpose       string  `json:"purpose" form:"purpose" binding:"max=200" example:"Scholarship fund"`
	PaymentMethod string  `json:"paymentMethod" form:"payment_method" binding:"required" example:"card"`
}

// DonationStatusRequest updates the reconciliation status of a donation
type DonationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed failed" example:"completed"`
}

// JobRequest represents a new job posting
type JobRequest struct {
	Title        string     `json:"title" form:"title" binding:"required,max=200" example:"Backend Engineer"`
	Company      string     `json:"company" form:"company" binding:"required,max=100" example:"Acme Corp"`
	Location     string     `json:"location" form:"location" binding:"max=100" example:"Remote"`
	Description  string     `json:"description" form:"description" binding:"required"`
	Requirements string     `json:"requirements" form:"requirements"`
	SalaryRange  string     `json:"salaryRange" form:"salary_range" binding:"max=100" example:"80k-100k"`
	JobType      string     `json:"jobType" form:"job_type" example:"full-time"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty" form:"-"`
}

// JobListResponse is one page of active jobs
type JobListResponse struct {
	Jobs       []*models.Job  `json:"jobs"`
	Pagination PaginationInfo `json:"pagination"`
}

// ApplicationRequest carries the text part of a job application
type ApplicationRequest struct {
	CoverLetter string `json:"coverLetter" form:"cover_letter" binding:"max=10000"`
}

// EventRequest represents a new event
type EventRequest struct {
	Title           string    `json:"title" binding:"required,max=200" example:"Annual Reunion"`
	Description     string    `json:"description" example:"Meet your batchmates"`
	Date            time.Time `json:"date" binding:"required" example:"2025-06-01T18:00:00Z"`
	Location        string    `json:"location" binding:"max=200" example:"Main Auditorium"`
	MaxAttendees    *int      `json:"maxAttendees,omitempty" example:"200"`
	RegistrationFee float64   `json:"registrationFee" example:"0"`
}

// EventActiveRequest toggles whether an event accepts registrations
type EventActiveRequest struct {
	Active *bool `json:"active" binding:"required" example:"false"`
}

// EventListResponse splits events into upcoming and past
type EventListResponse struct {
	Upcoming []*models.Event `json:"upcoming"`
	Past     []*models.Event `json:"past"`
}

// StoryRequest represents a submitted success story
type StoryRequest struct {
	Title   string `json:"title" form:"title" binding:"required,max=200" example:"From intern to CTO"`
	Content string `json:"content" form:"content" binding:"required"`
}

// FeatureResponse reports the feature flag after a toggle
type FeatureResponse struct {
	StoryID    int64  `json:"storyId" example:"7"`
	IsFeatured bool   `json:"isFeatured" example:"true"`
	Message    string `json:"message" example:"Story featured successfully!"`
}

// AdminDashboardResponse holds the admin overview counters
type AdminDashboardResponse struct {
	PendingUsers   int64   `json:"pendingUsers" example:"3"`
	TotalDonations float64 `json:"totalDonations" example:"15250.5"`
	ActiveJobs     int64   `json:"activeJobs" example:"12"`
	TotalAlumni    int64   `json:"totalAlumni" example:"480"`
}

// HomeResponse is the content of the landing page
type HomeResponse struct {
	FeaturedStories []*models.Story `json:"featuredStories"`
	UpcomingEvents  []*models.Event `json:"upcomingEvents"`
}
