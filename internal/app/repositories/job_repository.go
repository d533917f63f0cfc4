package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// IJobRepository defines job posting and application persistence
type IJobRepository interface {
	Create(ctx context.Context, job *models.Job) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	ListActive(ctx context.Context, now time.Time, offset, limit uint64) ([]*models.Job, int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Job, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	Close(ctx context.Context, id int64) error

	CreateApplication(ctx context.Context, app *models.JobApplication) (int64, error)
	HasApplied(ctx context.Context, jobID, userID int64) (bool, error)
	ListApplicationsByJob(ctx context.Context, jobID int64) ([]*models.JobApplication, error)
	ListApplicationsByUser(ctx context.Context, userID int64) ([]*models.JobApplication, error)
}

var jobColumns = []string{
	"j.id", "j.user_id", "j.title", "j.company", "j.location", "j.description", "j.requirements",
	"j.salary_range", "j.job_type", "j.is_active", "j.created_at", "j.expires_at",
	"u.first_name || ' ' || u.last_name",
}

// JobRepository handles job and job application database operations
type JobRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(database *db.DB) *JobRepository {
	return &JobRepository{
		db: database,
		sb: database.Builder(),
	}
}

func scanJob(row rowScanner) (*models.Job, error) {
	j := &models.Job{}
	var expires sql.NullTime
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Company, &j.Location, &j.Description, &j.Requirements,
		&j.SalaryRange, &j.JobType, &j.IsActive, &j.CreatedAt, &expires, &j.PosterName)
	if err != nil {
		return nil, err
	}
	j.CreatedAt = j.CreatedAt.UTC()
	j.ExpiresAt = helpers.TimePtr(expires)
	return j, nil
}

func (r *JobRepository) selectJobs() squirrel.SelectBuilder {
	return r.sb.Select(jobColumns...).
		From("jobs j").
		Join("users u ON u.id = j.user_id")
}

func activeJobFilter(now time.Time) squirrel.And {
	return squirrel.And{
		squirrel.Eq{"j.is_active": true},
		squirrel.Or{
			squirrel.Eq{"j.expires_at": nil},
			squirrel.Gt{"j.expires_at": now.UTC()},
		},
	}
}

// Create inserts a job posting and returns its ID
func (r *JobRepository) Create(ctx context.Context, job *models.Job) (int64, error) {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = db.Now()
	}

	query, args, err := r.sb.Insert("jobs").
		Columns("user_id", "title", "company", "location", "description", "requirements",
			"salary_range", "job_type", "is_active", "created_at", "expires_at").
		Values(job.UserID, job.Title, job.Company, job.Location, job.Description, job.Requirements,
			job.SalaryRange, string(job.JobType), job.IsActive, job.CreatedAt, helpers.GetNullTime(job.ExpiresAt)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create job SQL")
		return 0, fmt.Errorf("failed to build create job query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("userID", job.UserID).Msg("Error executing create job query")
		return 0, fmt.Errorf("error creating job: %w", err)
	}

	job.ID = id
	return id, nil
}

// GetByID retrieves a job with its poster name
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	query, args, err := r.selectJobs().Where(squirrel.Eq{"j.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get job query: %w", err)
	}

	job, err := scanJob(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		logger.Error().Err(err).Int64("jobID", id).Msg("Error scanning job row")
		return nil, fmt.Errorf("error retrieving job: %w", err)
	}
	return job, nil
}

// CountActive counts open, unexpired jobs
func (r *JobRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("jobs j").
		Where(activeJobFilter(now)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count active jobs query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting active jobs")
		return 0, fmt.Errorf("error counting active jobs: %w", err)
	}
	return count, nil
}

// ListActive returns one page of open jobs, newest first, and the total number of open jobs
func (r *JobRepository) ListActive(ctx context.Context, now time.Time, offset, limit uint64) ([]*models.Job, int64, error) {
	total, err := r.CountActive(ctx, now)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := r.selectJobs().
		Where(activeJobFilter(now)).
		OrderBy("j.created_at DESC", "j.id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list active jobs query: %w", err)
	}

	jobs, err := r.queryJobs(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListByUser returns the jobs posted by a user, newest first
func (r *JobRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Job, error) {
	query, args, err := r.selectJobs().
		Where(squirrel.Eq{"j.user_id": userID}).
		OrderBy("j.created_at DESC", "j.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list user jobs query: %w", err)
	}
	return r.queryJobs(ctx, query, args)
}

// CountByUser counts the jobs posted by a user
func (r *JobRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("jobs").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count user jobs query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting user jobs: %w", err)
	}
	return count, nil
}

// Close deactivates a job posting
func (r *JobRepository) Close(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update("jobs").
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build close job query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("jobID", id).Msg("Error closing job")
		return fmt.Errorf("error closing job: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) queryJobs(ctx context.Context, query string, args []interface{}) ([]*models.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing job list query")
		return nil, fmt.Errorf("error querying jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning job row")
			return nil, fmt.Errorf("error scanning job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CreateApplication stores an application; a second one for the same job and user is a conflict
func (r *JobRepository) CreateApplication(ctx context.Context, app *models.JobApplication) (int64, error) {
	if app.CreatedAt.IsZero() {
		app.CreatedAt = db.Now()
	}
	if app.Status == "" {
		app.Status = models.ApplicationSubmitted
	}

	query, args, err := r.sb.Insert("job_applications").
		Columns("job_id", "user_id", "cover_letter", "resume_path", "status", "created_at").
		Values(app.JobID, app.UserID, app.CoverLetter, app.ResumePath, string(app.Status), app.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create application query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err, "job_applications.job_id", "job_id") {
			return 0, apperrors.ErrAlreadyApplied
		}
		logger.Error().Err(err).Int64("jobID", app.JobID).Int64("userID", app.UserID).Msg("Error creating application")
		return 0, fmt.Errorf("error creating application: %w", err)
	}

	app.ID = id
	return id, nil
}

// HasApplied reports whether the user already applied for the job
func (r *JobRepository) HasApplied(ctx context.Context, jobID, userID int64) (bool, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("job_applications").
		Where(squirrel.Eq{"job_id": jobID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build has applied query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking application: %w", err)
	}
	return count > 0, nil
}

func (r *JobRepository) selectApplications() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.job_id", "a.user_id", "a.cover_letter", "a.resume_path", "a.status", "a.created_at",
		"u.first_name || ' ' || u.last_name", "u.email", "j.title", "j.company",
	).
		From("job_applications a").
		Join("users u ON u.id = a.user_id").
		Join("jobs j ON j.id = a.job_id")
}

// ListApplicationsByJob returns the applications received for a job, newest first
func (r *JobRepository) ListApplicationsByJob(ctx context.Context, jobID int64) ([]*models.JobApplication, error) {
	query, args, err := r.selectApplications().
		Where(squirrel.Eq{"a.job_id": jobID}).
		OrderBy("a.created_at DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list job applications query: %w", err)
	}
	return r.queryApplications(ctx, query, args)
}

// ListApplicationsByUser returns the applications a user submitted, newest first
func (r *JobRepository) ListApplicationsByUser(ctx context.Context, userID int64) ([]*models.JobApplication, error) {
	query, args, err := r.selectApplications().
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("a.created_at DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list user applications query: %w", err)
	}
	return r.queryApplications(ctx, query, args)
}

func (r *JobRepository) queryApplications(ctx context.Context, query string, args []interface{}) ([]*models.JobApplication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing application list query")
		return nil, fmt.Errorf("error querying applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.JobApplication{}
	for rows.Next() {
		a := &models.JobApplication{}
		if err := rows.Scan(&a.ID, &a.JobID, &a.UserID, &a.CoverLetter, &a.ResumePath, &a.Status, &a.CreatedAt,
			&a.ApplicantName, &a.ApplicantEmail, &a.JobTitle, &a.JobCompany); err != nil {
			return nil, fmt.Errorf("error scanning application: %w", err)
		}
		a.CreatedAt = a.CreatedAt.UTC()
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
