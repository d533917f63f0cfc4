package models

import (
	"time"
)

// User is an account together with the alumni profile stored on the same row
type User struct {
	ID             int64      `json:"id" db:"id" example:"1"`
	Email          string     `json:"email" db:"email" example:"jane@example.com"`
	Password       string     `json:"-" db:"password_hash"`
	Role           RoleType   `json:"role" db:"role" example:"alumni"`
	IsApproved     bool       `json:"isApproved" db:"is_approved" example:"false"`
	FirstName      string     `json:"firstName" db:"first_name" example:"Jane"`
	LastName       string     `json:"lastName" db:"last_name" example:"Doe"`
	GraduationYear *int       `json:"graduationYear,omitempty" db:"graduation_year" example:"2015"`
	Degree         string     `json:"degree" db:"degree" example:"B.Tech"`
	Department     string     `json:"department" db:"department" example:"Computer Science"`
	Company        string     `json:"company" db:"company" example:"Acme Corp"`
	Position       string     `json:"position" db:"position" example:"Engineer"`
	Phone          string     `json:"phone" db:"phone"`
	LinkedIn       string     `json:"linkedin" db:"linkedin"`
	Bio            string     `json:"bio" db:"bio"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccessMemberArea reports whether the user may use approved-only features
func (u *User) CanAccessMemberArea() bool {
	return u.IsAdmin() || u.IsApproved
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RefreshToken is a stored single-use refresh token
type RefreshToken struct {
	Token      string    `db:"token"`
	UserID     int64     `db:"user_id"`
	ExpiryDate time.Time `db:"expiry_date"`
	IsRevoked  bool      `db:"is_revoked"`
	CreatedAt  time.Time `db:"created_at"`
}
