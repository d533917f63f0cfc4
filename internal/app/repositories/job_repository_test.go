package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/testutil"
)

func newJob(userID int64, title string, createdAt time.Time) *models.Job {
	return &models.Job{
		UserID:      userID,
		Title:       title,
		Company:     "Acme",
		Description: "Build things",
		JobType:     models.JobFullTime,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
}

func TestJobRepository_ListActive(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewJobRepository(database)
	ctx := context.Background()
	poster := testutil.CreateUser(t, database, testutil.Approved(), testutil.WithName("Pat", "Poster"))
	now := db.Now()

	older := newJob(poster.ID, "Older", now.Add(-2*time.Hour))
	newer := newJob(poster.ID, "Newer", now.Add(-time.Hour))
	closed := newJob(poster.ID, "Closed", now)
	closed.IsActive = false
	expired := newJob(poster.ID, "Expired", now)
	past := now.Add(-time.Minute)
	expired.ExpiresAt = &past

	for _, j := range []*models.Job{older, newer, closed, expired} {
		_, err := repo.Create(ctx, j)
		require.NoError(t, err)
	}

	jobs, total, err := repo.ListActive(ctx, now, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Newer", jobs[0].Title)
	assert.Equal(t, "Pat Poster", jobs[0].PosterName)

	page2, _, err := repo.ListActive(ctx, now, 1, 1)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "Older", page2[0].Title)

	mine, err := repo.ListByUser(ctx, poster.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 4)

	count, err := repo.CountByUser(ctx, poster.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	require.NoError(t, repo.Close(ctx, newer.ID))
	active, err := repo.CountActive(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, active)

	assert.ErrorIs(t, repo.Close(ctx, 999), apperrors.ErrJobNotFound)
	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestJobRepository_Applications(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewJobRepository(database)
	ctx := context.Background()
	poster := testutil.CreateUser(t, database, testutil.Approved())
	applicant := testutil.CreateUser(t, database, testutil.Approved(), testutil.WithName("Ann", "Applicant"))

	job := newJob(poster.ID, "Engineer", db.Now())
	_, err := repo.Create(ctx, job)
	require.NoError(t, err)

	app := &models.JobApplication{JobID: job.ID, UserID: applicant.ID, CoverLetter: "Hire me", ResumePath: "resumes/a.pdf"}
	_, err = repo.CreateApplication(ctx, app)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationSubmitted, app.Status)

	_, err = repo.CreateApplication(ctx, &models.JobApplication{JobID: job.ID, UserID: applicant.ID})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)

	applied, err := repo.HasApplied(ctx, job.ID, applicant.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	byJob, err := repo.ListApplicationsByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, byJob, 1)
	assert.Equal(t, "Ann Applicant", byJob[0].ApplicantName)
	assert.Equal(t, applicant.Email, byJob[0].ApplicantEmail)

	byUser, err := repo.ListApplicationsByUser(ctx, applicant.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "Engineer", byUser[0].JobTitle)
	assert.Equal(t, "Acme", byUser[0].JobCompany)
}
