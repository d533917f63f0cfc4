package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

func (h *Handler) home(c *gin.Context) {
	h.render(c, "home", "Welcome", h.svc.Home.Home(c.Request.Context()))
}

func (h *Handler) registerForm(c *gin.Context) {
	h.render(c, "register", "Register", nil)
}

func (h *Handler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flash(c, FlashError, bindingMessage(err))
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	if _, err := h.svc.Auth.Register(c.Request.Context(), &req); err != nil {
		h.fail(c, err, "/register")
		return
	}

	h.flash(c, FlashSuccess, "Registration successful! Your account is pending approval.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, "login", "Login", nil)
}

func (h *Handler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flash(c, FlashError, "Invalid email or password.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	resp, err := h.svc.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			h.flash(c, FlashError, "Invalid email or password.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.fail(c, err, "/login")
		return
	}

	h.startSession(c, resp.Token.AccessToken)
	c.Redirect(http.StatusSeeOther, landingPath(resp.Landing))
}

func landingPath(landing string) string {
	switch landing {
	case services.LandingAdminDashboard:
		return "/admin-dashboard"
	case services.LandingAlumniDashboard:
		return "/alumni-dashboard"
	default:
		return "/pending-approval"
	}
}

func (h *Handler) logout(c *gin.Context) {
	if user := h.currentUser(c); user != nil {
		if err := h.svc.Auth.Logout(c.Request.Context(), user.ID); err != nil {
			h.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to revoke refresh tokens on logout")
		}
	}
	h.endSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) pendingApproval(c *gin.Context) {
	if h.currentUser(c).CanAccessMemberArea() {
		c.Redirect(http.StatusSeeOther, "/alumni-dashboard")
		return
	}
	h.render(c, "pending_approval", "Pending approval", nil)
}

type jobsPage struct {
	Jobs       []*models.Job
	Pagination dto.PaginationInfo
}

func (h *Handler) jobs(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	resp, err := h.svc.Job.ListActive(c.Request.Context(), page)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list jobs")
		resp = &dto.JobListResponse{Jobs: []*models.Job{}, Pagination: helpers.NewPaginationInfo(0, 1, services.JobsPageSize)}
	}
	h.render(c, "jobs", "Jobs", jobsPage{Jobs: resp.Jobs, Pagination: resp.Pagination})
}

type jobDetailPage struct {
	Job          *models.Job
	CanManage    bool
	Applications []*models.JobApplication
	CanApply     bool
}

func (h *Handler) jobDetail(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	job, err := h.svc.Job.Get(ctx, id)
	if err != nil {
		h.fail(c, err, "/jobs")
		return
	}

	data := jobDetailPage{Job: job}
	if user := h.currentUser(c); user != nil {
		data.CanManage, err = h.authz.CanManageJob(ctx, job.ID, user)
		if err != nil {
			h.fail(c, err, "/jobs")
			return
		}
		if data.CanManage {
			data.Applications, err = h.svc.Job.ListApplications(ctx, job.ID, user.ID, user.IsAdmin())
			if err != nil {
				h.fail(c, err, "/jobs")
				return
			}
		}
		data.CanApply = user.CanAccessMemberArea() && job.UserID != user.ID && job.IsOpen(h.now())
	}

	h.render(c, "job_detail", job.Title, data)
}

func (h *Handler) events(c *gin.Context) {
	resp, err := h.svc.Event.List(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list events")
		resp = &dto.EventListResponse{Upcoming: []*models.Event{}, Past: []*models.Event{}}
	}
	h.render(c, "events", "Events", resp)
}

func (h *Handler) stories(c *gin.Context) {
	stories, err := h.svc.Story.ListPublished(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list stories")
		stories = []*models.Story{}
	}
	h.render(c, "stories", "Success stories", stories)
}
