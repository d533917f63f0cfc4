package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"golang.org/x/sync/errgroup"
)

type adminDashboardPage struct {
	*dto.AdminDashboardResponse
	Monthly []models.MonthlyDonation
}

func (h *Handler) adminDashboard(c *gin.Context) {
	var (
		stats   *dto.AdminDashboardResponse
		monthly []models.MonthlyDonation
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		stats, err = h.svc.Admin.Dashboard(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = h.svc.Donation.MonthlyStats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err, "/")
		return
	}

	h.render(c, "admin_dashboard", "Admin dashboard", adminDashboardPage{AdminDashboardResponse: stats, Monthly: monthly})
}

func (h *Handler) pendingUsers(c *gin.Context) {
	users, err := h.svc.Admin.PendingUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/admin-dashboard")
		return
	}
	h.render(c, "admin_pending_users", "Pending users", users)
}

func (h *Handler) approveUser(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	_, message, err := h.svc.Admin.ApproveUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/admin/pending-users")
		return
	}

	h.flash(c, FlashSuccess, message)
	c.Redirect(http.StatusSeeOther, "/admin/pending-users")
}

func (h *Handler) manageEvents(c *gin.Context) {
	events, err := h.svc.Event.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/admin-dashboard")
		return
	}
	h.render(c, "admin_manage_events", "Manage events", events)
}

// eventFromForm reads the admin event form. Empty optional numbers mean "no limit" and "free".
func eventFromForm(c *gin.Context) (*dto.EventRequest, string) {
	req := &dto.EventRequest{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: c.PostForm("description"),
		Location:    strings.TrimSpace(c.PostForm("location")),
	}

	date, err := helpers.ParseDateTimeLocal(strings.TrimSpace(c.PostForm("date")), nil)
	if err != nil {
		return nil, "Please provide a valid event date."
	}
	req.Date = date

	if raw := strings.TrimSpace(c.PostForm("max_attendees")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, "Max attendees must be a whole number."
		}
		req.MaxAttendees = &n
	}
	if raw := strings.TrimSpace(c.PostForm("registration_fee")); raw != "" {
		fee, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, "Registration fee must be a number."
		}
		req.RegistrationFee = fee
	}
	return req, ""
}

func (h *Handler) createEvent(c *gin.Context) {
	req, problem := eventFromForm(c)
	if problem != "" {
		h.flash(c, FlashError, problem)
		c.Redirect(http.StatusSeeOther, "/admin/manage-events")
		return
	}

	if _, err := h.svc.Event.Create(c.Request.Context(), req); err != nil {
		h.fail(c, err, "/admin/manage-events")
		return
	}

	h.flash(c, FlashSuccess, "Event created successfully!")
	c.Redirect(http.StatusSeeOther, "/admin/manage-events")
}

func (h *Handler) setEventActive(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	active := c.PostForm("active") == "true"
	event, err := h.svc.Event.SetActive(c.Request.Context(), id, active)
	if err != nil {
		h.fail(c, err, "/admin/manage-events")
		return
	}

	state := "deactivated"
	if event.IsActive {
		state = "activated"
	}
	h.flash(c, FlashSuccess, "Event "+state+" successfully!")
	c.Redirect(http.StatusSeeOther, "/admin/manage-events")
}

type attendeesPage struct {
	Event     *models.Event
	Attendees []*models.EventRegistration
}

func (h *Handler) eventAttendees(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	event, err := h.svc.Event.Get(ctx, id)
	if err != nil {
		h.fail(c, err, "/admin/manage-events")
		return
	}
	attendees, err := h.svc.Event.Attendees(ctx, id)
	if err != nil {
		h.fail(c, err, "/admin/manage-events")
		return
	}

	h.render(c, "admin_attendees", "Attendees", attendeesPage{Event: event, Attendees: attendees})
}

type manageStoriesPage struct {
	Pending   []*models.Story
	Published []*models.Story
}

func (h *Handler) loadStories(ctx context.Context) (*manageStoriesPage, error) {
	pending, err := h.svc.Story.Pending(ctx)
	if err != nil {
		return nil, err
	}
	published, err := h.svc.Story.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	return &manageStoriesPage{Pending: pending, Published: published}, nil
}

func (h *Handler) manageStories(c *gin.Context) {
	data, err := h.loadStories(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/admin-dashboard")
		return
	}
	h.render(c, "admin_manage_stories", "Manage stories", data)
}

func (h *Handler) publishStory(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	if _, err := h.svc.Story.Publish(c.Request.Context(), id); err != nil {
		h.fail(c, err, "/admin/manage-stories")
		return
	}

	h.flash(c, FlashSuccess, "Story published successfully!")
	c.Redirect(http.StatusSeeOther, "/admin/manage-stories")
}

func (h *Handler) featureStory(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	resp, err := h.svc.Story.ToggleFeature(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/admin/manage-stories")
		return
	}

	h.flash(c, FlashSuccess, resp.Message)
	c.Redirect(http.StatusSeeOther, "/admin/manage-stories")
}
