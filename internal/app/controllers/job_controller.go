package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// JobController handles job postings and applications
type JobController struct {
	jobService services.JobService
	logger     zerolog.Logger
}

// NewJobController creates a new JobController
func NewJobController(jobService services.JobService, logger zerolog.Logger) *JobController {
	return &JobController{
		jobService: jobService,
		logger:     logger,
	}
}

// ListJobs lists active job postings
// @Summary List active jobs
// @Description Active, unexpired postings, newest first, 10 per page
// @Tags jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.JobListResponse} "Jobs"
// @Router /jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	resp, err := c.jobService.ListActive(ctx.Request.Context(), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// GetJob returns a single posting
// @Summary Get job
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=models.Job} "Job"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "job")
	if !ok {
		return
	}

	job, err := c.jobService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(job, ""))
}

// PostJob creates a job posting
// @Summary Post a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JobRequest true "Job posting"
// @Success 201 {object} dto.APIResponse{data=models.Job} "Job posted"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Account pending approval"
// @Router /jobs [post]
func (c *JobController) PostJob(ctx *gin.Context) {
	var req dto.JobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	job, err := c.jobService.Post(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(job, "Job posted successfully!"))
}

// CloseJob deactivates a posting
// @Summary Close a job
// @Description Only the poster or an administrator may close a posting
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Job closed"
// @Failure 403 {object} dto.ErrorResponse "Not the poster"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id}/close [post]
func (c *JobController) CloseJob(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "job")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	if err := c.jobService.Close(ctx.Request.Context(), id, userID, middleware.IsAdmin(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Job closed."}, ""))
}

// MyJobs lists the postings of the current user
// @Summary List own job postings
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Job} "Jobs"
// @Router /jobs/mine [get]
func (c *JobController) MyJobs(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)
	jobs, err := c.jobService.MyJobs(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(jobs, ""))
}

// Apply submits an application with an optional resume upload
// @Summary Apply for a job
// @Tags jobs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param cover_letter formData string false "Cover letter"
// @Param resume formData file false "Resume (pdf, doc, docx)"
// @Success 201 {object} dto.APIResponse{data=models.JobApplication} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Job closed or invalid file"
// @Failure 403 {object} dto.ErrorResponse "Cannot apply to own job"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Router /jobs/{id}/applications [post]
func (c *JobController) Apply(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "job")
	if !ok {
		return
	}

	var req dto.ApplicationRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var resume *multipart.FileHeader
	if fh, err := ctx.FormFile("resume"); err == nil {
		resume = fh
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid resume upload").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	application, err := c.jobService.Apply(ctx.Request.Context(), id, userID, &req, resume)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(application, "Application submitted successfully!"))
}

// ListApplications lists the applications of a posting
// @Summary List job applications
// @Description Only the poster or an administrator may list applications
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=[]models.JobApplication} "Applications"
// @Failure 403 {object} dto.ErrorResponse "Not the poster"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id}/applications [get]
func (c *JobController) ListApplications(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "job")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	applications, err := c.jobService.ListApplications(ctx.Request.Context(), id, userID, middleware.IsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(applications, ""))
}

// MyApplications lists the applications of the current user
// @Summary List own applications
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.JobApplication} "Applications"
// @Router /applications/mine [get]
func (c *JobController) MyApplications(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)
	applications, err := c.jobService.MyApplications(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(applications, ""))
}
