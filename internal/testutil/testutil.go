// Package testutil provides a migrated SQLite database and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/migrations"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

var userSeq atomic.Int64

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

// NewDB opens a fresh SQLite database in a temporary directory and applies all migrations.
// The database is closed when the test ends.
func NewDB(t testing.TB) *db.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = migrations.NewMigrator(database).Up(context.Background())
	require.NoError(t, err)
	return database
}

// UserOption customizes a fixture user before it is stored
type UserOption func(*models.User)

// Approved marks the fixture user as approved
func Approved() UserOption {
	return func(u *models.User) { u.IsApproved = true }
}

// Admin gives the fixture user the admin role
func Admin() UserOption {
	return func(u *models.User) {
		u.Role = models.RoleAdmin
		u.IsApproved = true
	}
}

// WithName sets first and last name
func WithName(first, last string) UserOption {
	return func(u *models.User) {
		u.FirstName = first
		u.LastName = last
	}
}

// WithEmail sets the email address
func WithEmail(email string) UserOption {
	return func(u *models.User) { u.Email = email }
}

// WithPassword stores a bcrypt hash of password
func WithPassword(password string) UserOption {
	return func(u *models.User) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			panic(err)
		}
		u.Password = hash
	}
}

// WithProfile sets graduation year, department and company
func WithProfile(year int, department, company string) UserOption {
	return func(u *models.User) {
		u.GraduationYear = &year
		u.Department = department
		u.Company = company
	}
}

// CreateUser stores an unapproved alumni user with unique defaults
func CreateUser(t testing.TB, database *db.DB, opts ...UserOption) *models.User {
	t.Helper()

	n := userSeq.Add(1)
	user := &models.User{
		Email:     fmt.Sprintf("user%d@example.com", n),
		Password:  "not-a-real-hash",
		Role:      models.RoleAlumni,
		FirstName: "User",
		LastName:  fmt.Sprintf("Number%d", n),
	}
	for _, opt := range opts {
		opt(user)
	}

	_, err := repositories.NewUserRepository(database).Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

// CreateEvent stores an active event at date
func CreateEvent(t testing.TB, database *db.DB, title string, date time.Time, maxAttendees *int) *models.Event {
	t.Helper()

	event := &models.Event{
		Title:        title,
		Description:  title + " description",
		Date:         date,
		Location:     "Main Hall",
		MaxAttendees: maxAttendees,
		IsActive:     true,
	}
	_, err := repositories.NewEventRepository(database).Create(context.Background(), event)
	require.NoError(t, err)
	return event
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
