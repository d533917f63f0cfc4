package dto

import (
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
)

// UserResponse is the public view of a user
type UserResponse struct {
	ID             int64      `json:"id" example:"1"`
	Email          string     `json:"email" example:"jane@example.com"`
	Role           string     `json:"role" example:"alumni" enums:"alumni,admin"`
	IsApproved     bool       `json:"isApproved" example:"true"`
	FirstName      string     `json:"firstName" example:"Jane"`
	LastName       string     `json:"lastName" example:"Doe"`
	GraduationYear *int       `json:"graduationYear,omitempty" example:"2015"`
	Degree         string     `json:"degree,omitempty" example:"B.Tech"`
	Department     string     `json:"department,omitempty" example:"Computer Science"`
	Company        string     `json:"company,omitempty" example:"Acme Corp"`
	Position       string     `json:"position,omitempty" example:"Engineer"`
	Phone          string     `json:"phone,omitempty"`
	LinkedIn       string     `json:"linkedin,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

// FromUser converts a user model into its response form
func FromUser(u *models.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Role:           string(u.Role),
		IsApproved:     u.IsApproved,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		GraduationYear: u.GraduationYear,
		Degree:         u.Degree,
		Department:     u.Department,
		Company:        u.Company,
		Position:       u.Position,
		Phone:          u.Phone,
		LinkedIn:       u.LinkedIn,
		Bio:            u.Bio,
		CreatedAt:      u.CreatedAt,
		LastLoginAt:    u.LastLoginAt,
	}
}

// FromUsers converts a slice of user models
func FromUsers(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// UpdateProfileRequest represents editable profile fields
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" form:"first_name" binding:"required,max=50" example:"Jane"`
	LastName  string `json:"lastName" form:"last_name" binding:"required,max=50" example:"Doe"`
	Company   string `json:"company" form:"company" binding:"max=100" example:"Acme Corp"`
	Position  string `json:"position" form:"position" binding:"max=100" example:"Engineer"`
	Phone     string `json:"phone" form:"phone" binding:"max=20" example:"+1 555 0100"`
	LinkedIn  string `json:"linkedin" form:"linkedin" binding:"max=200" example:"https://linkedin.com/in/jane"`
	Bio       string `json:"bio" form:"bio" binding:"max=5000"`
}

// DirectoryFilter carries the directory search parameters
type DirectoryFilter struct {
	Search     string `form:"search"`
	Year       int    `form:"year"`
	Department string `form:"department"`
	Page       int    `form:"page"`
	PageSize   int    `form:"size"`
}

// DirectoryResponse is one page of the alumni directory plus its facets
type DirectoryResponse struct {
	Alumni      []UserResponse `json:"alumni"`
	Pagination  PaginationInfo `json:"pagination"`
	Years       []int          `json:"years" example:"2020,2019"`
	Departments []string       `json:"departments" example:"Computer Science,Physics"`
}

// AlumniDashboardResponse summarizes the member area for one user
type AlumniDashboardResponse struct {
	User           UserResponse    `json:"user"`
	DonationCount  int64           `json:"donationCount" example:"2"`
	JobCount       int64           `json:"jobCount" example:"1"`
	UpcomingEvents []*models.Event `json:"upcomingEvents"`
}
