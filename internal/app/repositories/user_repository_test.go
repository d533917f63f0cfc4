package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/testutil"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewUserRepository(database)
	ctx := context.Background()

	year := 2015
	user := &models.User{
		Email:          "jane@example.com",
		Password:       "hash",
		Role:           models.RoleAlumni,
		FirstName:      "Jane",
		LastName:       "Doe",
		GraduationYear: &year,
		Department:     "Physics",
	}
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	if diff := cmp.Diff(user, got); diff != "" {
		t.Errorf("stored user mismatch (-want +got):\n%s", diff)
	}

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", byID.FullName())
	assert.Nil(t, byID.LastLoginAt)

	_, err = repo.GetByID(ctx, id+100)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewUserRepository(database)
	testutil.CreateUser(t, database, testutil.WithEmail("dup@example.com"))

	_, err := repo.Create(context.Background(), &models.User{
		Email: "dup@example.com", Password: "x", Role: models.RoleAlumni, FirstName: "A", LastName: "B",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	exists, err := repo.EmailExists(context.Background(), "dup@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_ApproveAndCounts(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewUserRepository(database)
	ctx := context.Background()

	pending := testutil.CreateUser(t, database)
	testutil.CreateUser(t, database, testutil.Approved())
	testutil.CreateUser(t, database, testutil.Admin())

	list, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)

	require.NoError(t, repo.Approve(ctx, pending.ID))
	assert.ErrorIs(t, repo.Approve(ctx, 9999), apperrors.ErrUserNotFound)

	approved, err := repo.CountAlumni(ctx, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, approved)

	waiting, err := repo.CountAlumni(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 0, waiting)
}

func TestUserRepository_UpdateProfileAndLogin(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewUserRepository(database)
	ctx := context.Background()
	user := testutil.CreateUser(t, database, testutil.Approved())

	user.Company = "Acme"
	user.Bio = "Hello"
	require.NoError(t, repo.UpdateProfile(ctx, user))

	at := db.Now().Add(-time.Minute)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "Hello", got.Bio)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))
}

func TestUserRepository_SearchDirectory(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewUserRepository(database)
	ctx := context.Background()

	testutil.CreateUser(t, database, testutil.Approved(), testutil.WithName("Ada", "Lovelace"), testutil.WithProfile(2010, "Mathematics", "Analytical Engines"))
	testutil.CreateUser(t, database, testutil.Approved(), testutil.WithName("Alan", "Turing"), testutil.WithProfile(2012, "Computer Science", "Bletchley"))
	testutil.CreateUser(t, database, testutil.Approved(), testutil.WithName("Grace", "Hopper"), testutil.WithProfile(2012, "Computer Science", "Navy"))
	testutil.CreateUser(t, database, testutil.WithName("Pending", "Person"), testutil.WithProfile(2020, "Biology", "Lab"))
	testutil.CreateUser(t, database, testutil.Admin(), testutil.WithName("Admin", "User"))

	tests := []struct {
		name  string
		query repositories.DirectoryQuery
		want  []string
	}{
		{"all approved ordered by last name", repositories.DirectoryQuery{}, []string{"Hopper", "Lovelace", "Turing"}},
		{"search is case insensitive", repositories.DirectoryQuery{Search: "ADA"}, []string{"Lovelace"}},
		{"search matches company", repositories.DirectoryQuery{Search: "bletch"}, []string{"Turing"}},
		{"year filter", repositories.DirectoryQuery{Year: 2012}, []string{"Hopper", "Turing"}},
		{"department filter", repositories.DirectoryQuery{Department: "Mathematics"}, []string{"Lovelace"}},
		{"pending users hidden", repositories.DirectoryQuery{Search: "pending"}, []string{}},
		{"pagination", repositories.DirectoryQuery{Limit: 1, Offset: 1}, []string{"Lovelace"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.SearchDirectory(ctx, tt.query)
			require.NoError(t, err)
			names := []string{}
			for _, u := range users {
				names = append(names, u.LastName)
			}
			assert.Equal(t, tt.want, names)
			if tt.query.Limit == 0 {
				assert.EqualValues(t, len(tt.want), total)
			} else {
				assert.EqualValues(t, 3, total)
			}
		})
	}

	years, err := repo.DistinctGraduationYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2012, 2010}, years)

	departments, err := repo.DistinctDepartments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Science", "Mathematics"}, departments)
}
