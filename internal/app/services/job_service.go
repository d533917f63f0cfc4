package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
	"github.com/yigit/alumnihub/internal/pkg/validation"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
)

// JobsPageSize is the number of jobs listed per page
const JobsPageSize = 10

const resumeDir = "resumes"

// JobService defines job board operations
type JobService interface {
	ListActive(ctx context.Context, page int) (*dto.JobListResponse, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	Post(ctx context.Context, userID int64, req *dto.JobRequest) (*models.Job, error)
	Close(ctx context.Context, id, actorID int64, actorIsAdmin bool) error
	MyJobs(ctx context.Context, userID int64) ([]*models.Job, error)
	Apply(ctx context.Context, jobID, userID int64, req *dto.ApplicationRequest, resume *multipart.FileHeader) (*models.JobApplication, error)
	ListApplications(ctx context.Context, jobID, actorID int64, actorIsAdmin bool) ([]*models.JobApplication, error)
	MyApplications(ctx context.Context, userID int64) ([]*models.JobApplication, error)
}

type jobServiceImpl struct {
	jobRepo  repositories.IJobRepository
	storage  filestorage.FileStorage
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewJobService creates a new JobService
func NewJobService(jobRepo repositories.IJobRepository, storage filestorage.FileStorage, notifier Notifier, logger zerolog.Logger) JobService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &jobServiceImpl{
		jobRepo:  jobRepo,
		storage:  storage,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *jobServiceImpl) ListActive(ctx context.Context, page int) (*dto.JobListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, JobsPageSize)
	jobs, total, err := s.jobRepo.ListActive(ctx, s.now(), offset, limit)
	if err != nil {
		return nil, err
	}
	return &dto.JobListResponse{
		Jobs:       jobs,
		Pagination: helpers.NewPaginationInfo(total, page, JobsPageSize),
	}, nil
}

func (s *jobServiceImpl) Get(ctx context.Context, id int64) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, id)
}

func (s *jobServiceImpl) Post(ctx context.Context, userID int64, req *dto.JobRequest) (*models.Job, error) {
	title := sanitize.Text(req.Title)
	company := sanitize.Text(req.Company)
	description := sanitize.Multiline(req.Description)
	if title == "" || company == "" || description == "" {
		return nil, fmt.Errorf("%w: Title, company and description are required.", apperrors.ErrValidationFailed)
	}

	jobType, err := validation.ValidateJobType(strings.TrimSpace(req.JobType))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	var expiresAt *time.Time
	if req.ExpiresAt != nil {
		t := req.ExpiresAt.UTC().Truncate(time.Second)
		if !t.After(now) {
			return nil, fmt.Errorf("%w: Expiry date must be in the future.", apperrors.ErrValidationFailed)
		}
		expiresAt = &t
	}

	job := &models.Job{
		UserID:       userID,
		Title:        title,
		Company:      company,
		Location:     sanitize.Text(req.Location),
		Description:  description,
		Requirements: sanitize.Multiline(req.Requirements),
		SalaryRange:  sanitize.Text(req.SalaryRange),
		JobType:      jobType,
		IsActive:     true,
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
	}
	if _, err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("jobID", job.ID).Int64("userID", userID).Msg("Job posted")
	s.notifier.Notify(websocket.EventJobPosted, map[string]interface{}{
		"id":      job.ID,
		"title":   job.Title,
		"company": job.Company,
	})
	return job, nil
}

func (s *jobServiceImpl) Close(ctx context.Context, id, actorID int64, actorIsAdmin bool) error {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job.UserID != actorID && !actorIsAdmin {
		return apperrors.NewForbiddenError("Only the poster can close this job.")
	}
	return s.jobRepo.Close(ctx, id)
}

func (s *jobServiceImpl) MyJobs(ctx context.Context, userID int64) ([]*models.Job, error) {
	return s.jobRepo.ListByUser(ctx, userID)
}

func (s *jobServiceImpl) Apply(ctx context.Context, jobID, userID int64, req *dto.ApplicationRequest, resume *multipart.FileHeader) (*models.JobApplication, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOpen(s.now()) {
		return nil, apperrors.ErrJobClosed
	}
	if job.UserID == userID {
		return nil, apperrors.NewForbiddenError("You cannot apply to your own job posting.")
	}

	applied, err := s.jobRepo.HasApplied(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, apperrors.ErrAlreadyApplied
	}

	var resumePath string
	if resume != nil && s.storage != nil {
		resumePath, err = s.storage.SaveFileWithPath(resume, resumeDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
	}

	app := &models.JobApplication{
		JobID:       jobID,
		UserID:      userID,
		CoverLetter: sanitize.Multiline(req.CoverLetter),
		ResumePath:  resumePath,
		Status:      models.ApplicationSubmitted,
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	if _, err := s.jobRepo.CreateApplication(ctx, app); err != nil {
		if resumePath != "" {
			if delErr := s.storage.DeleteFile(resumePath); delErr != nil {
				s.logger.Warn().Err(delErr).Str("path", resumePath).Msg("Failed to remove orphaned resume")
			}
		}
		return nil, err
	}

	app.JobTitle = job.Title
	app.JobCompany = job.Company
	s.logger.Info().Int64("jobID", jobID).Int64("userID", userID).Msg("Job application submitted")
	return app, nil
}

func (s *jobServiceImpl) ListApplications(ctx context.Context, jobID, actorID int64, actorIsAdmin bool) ([]*models.JobApplication, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != actorID && !actorIsAdmin {
		return nil, apperrors.NewForbiddenError("Only the poster can view applications for this job.")
	}
	return s.jobRepo.ListApplicationsByJob(ctx, jobID)
}

func (s *jobServiceImpl) MyApplications(ctx context.Context, userID int64) ([]*models.JobApplication, error) {
	return s.jobRepo.ListApplicationsByUser(ctx, userID)
}
