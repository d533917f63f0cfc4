package models

import "time"

// Job is a job posting published by an alumnus
type Job struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"userId" db:"user_id"`
	Title        string     `json:"title" db:"title" example:"Backend Engineer"`
	Company      string     `json:"company" db:"company" example:"Acme Corp"`
	Location     string     `json:"location" db:"location" example:"Remote"`
	Description  string     `json:"description" db:"description"`
	Requirements string     `json:"requirements" db:"requirements"`
	SalaryRange  string     `json:"salaryRange" db:"salary_range" example:"80k-100k"`
	JobType      JobType    `json:"jobType" db:"job_type" example:"full-time"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty" db:"expires_at"`

	// Joined from users
	PosterName string `json:"posterName,omitempty" db:"-"`
}

// IsOpen reports whether the job accepts applications at the given time
func (j *Job) IsOpen(now time.Time) bool {
	if !j.IsActive {
		return false
	}
	return j.ExpiresAt == nil || j.ExpiresAt.After(now)
}

// JobApplication is an application submitted by a user for a job
type JobApplication struct {
	ID          int64             `json:"id" db:"id"`
	JobID       int64             `json:"jobId" db:"job_id"`
	UserID      int64             `json:"userId" db:"user_id"`
	CoverLetter string            `json:"coverLetter" db:"cover_letter"`
	ResumePath  string            `json:"resumePath,omitempty" db:"resume_path"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`

	// Joined columns
	ApplicantName  string `json:"applicantName,omitempty" db:"-"`
	ApplicantEmail string `json:"applicantEmail,omitempty" db:"-"`
	JobTitle       string `json:"jobTitle,omitempty" db:"-"`
	JobCompany     string `json:"jobCompany,omitempty" db:"-"`
}
