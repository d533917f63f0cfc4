package web

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

func (h *Handler) alumniDashboard(c *gin.Context) {
	resp, err := h.svc.User.AlumniDashboard(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, "alumni_dashboard", "Dashboard", resp)
}

func (h *Handler) profile(c *gin.Context) {
	h.render(c, "profile", "My profile", h.currentUser(c))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flash(c, FlashError, bindingMessage(err))
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}

	if _, err := h.svc.User.UpdateProfile(c.Request.Context(), h.currentUser(c).ID, &req); err != nil {
		h.fail(c, err, "/profile")
		return
	}

	h.flash(c, FlashSuccess, "Profile updated successfully!")
	c.Redirect(http.StatusSeeOther, "/profile")
}

type donatePage struct {
	Methods   []models.PaymentMethod
	Donations []*models.Donation
}

func (h *Handler) donateForm(c *gin.Context) {
	donations, err := h.svc.Donation.MyDonations(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.fail(c, err, "/alumni-dashboard")
		return
	}
	h.render(c, "donate", "Donate", donatePage{Methods: models.PaymentMethods, Donations: donations})
}

func (h *Handler) donate(c *gin.Context) {
	var req dto.DonationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flash(c, FlashError, bindingMessage(err))
		c.Redirect(http.StatusSeeOther, "/donate")
		return
	}

	if _, err := h.svc.Donation.Donate(c.Request.Context(), h.currentUser(c).ID, &req); err != nil {
		h.fail(c, err, "/donate")
		return
	}

	h.flash(c, FlashSuccess, "Thank you for your donation!")
	c.Redirect(http.StatusSeeOther, "/donate")
}

func (h *Handler) postJobForm(c *gin.Context) {
	h.render(c, "post_job", "Post a job", models.JobTypes)
}

func (h *Handler) postJob(c *gin.Context) {
	var req dto.JobRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flash(c, FlashError, bindingMessage(err))
		c.Redirect(http.StatusSeeOther, "/post-job")
		return
	}
	if raw := strings.TrimSpace(c.PostForm("expires_at")); raw != "" {
		expires, err := helpers.ParseDateTimeLocal(raw, nil)
		if err != nil {
			h.flash(c, FlashError, "Invalid expiry date.")
			c.Redirect(http.StatusSeeOther, "/post-job")
			return
		}
		req.ExpiresAt = &expires
	}

	if _, err := h.svc.Job.Post(c.Request.Context(), h.currentUser(c).ID, &req); err != nil {
		h.fail(c, err, "/post-job")
		return
	}

	h.flash(c, FlashSuccess, "Job posted successfully!")
	c.Redirect(http.StatusSeeOther, "/jobs")
}

func (h *Handler) applyJob(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}
	back := "/jobs/" + strconv.FormatInt(id, 10)

	var req dto.ApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flash(c, FlashError, bindingMessage(err))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	var resume *multipart.FileHeader
	if fh, err := c.FormFile("resume"); err == nil {
		resume = fh
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		h.flash(c, FlashError, "Invalid resume upload.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if _, err := h.svc.Job.Apply(c.Request.Context(), id, h.currentUser(c).ID, &req, resume); err != nil {
		h.fail(c, err, back)
		return
	}

	h.flash(c, FlashSuccess, "Application submitted successfully!")
	c.Redirect(http.StatusSeeOther, back)
}

func (h *Handler) closeJob(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	user := h.currentUser(c)
	if err := h.svc.Job.Close(c.Request.Context(), id, user.ID, user.IsAdmin()); err != nil {
		h.fail(c, err, "/jobs/"+strconv.FormatInt(id, 10))
		return
	}

	h.flash(c, FlashSuccess, "Job closed.")
	c.Redirect(http.StatusSeeOther, "/jobs")
}

// downloadResume streams an applicant's resume to the job poster or an admin
func (h *Handler) downloadResume(c *gin.Context) {
	jobID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}
	appID, ok := helpers.ParseIDParam(c, "appID")
	if !ok || h.storage == nil {
		h.NotFound(c)
		return
	}

	user := h.currentUser(c)
	apps, err := h.svc.Job.ListApplications(c.Request.Context(), jobID, user.ID, user.IsAdmin())
	if err != nil {
		h.fail(c, err, "/jobs")
		return
	}

	for _, app := range apps {
		if app.ID != appID || app.ResumePath == "" {
			continue
		}
		full := h.storage.GetFullPath(app.ResumePath)
		if full == "" {
			break
		}
		c.FileAttachment(full, "resume-"+strconv.FormatInt(app.ID, 10)+path.Ext(app.ResumePath))
		return
	}
	h.NotFound(c)
}

type directoryPage struct {
	*dto.DirectoryResponse
	Filter dto.DirectoryFilter
}

// directoryFilter reads each query parameter on its own so a malformed number
// only drops that one filter
func directoryFilter(c *gin.Context) dto.DirectoryFilter {
	filter := dto.DirectoryFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Department: strings.TrimSpace(c.Query("department")),
	}
	if year, err := strconv.Atoi(c.Query("year")); err == nil && year > 0 {
		filter.Year = year
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil && size > 0 {
		filter.PageSize = size
	}
	return filter
}

func (h *Handler) directory(c *gin.Context) {
	filter := directoryFilter(c)

	resp, err := h.svc.User.Directory(c.Request.Context(), &filter)
	if err != nil {
		h.fail(c, err, "/alumni-dashboard")
		return
	}
	h.render(c, "directory", "Alumni directory", directoryPage{DirectoryResponse: resp, Filter: filter})
}

func (h *Handler) registerEvent(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	if _, err := h.svc.Event.Register(c.Request.Context(), id, h.currentUser(c).ID); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			h.flash(c, FlashInfo, "You are already registered for this event.")
			c.Redirect(http.StatusSeeOther, "/events")
			return
		}
		h.fail(c, err, "/events")
		return
	}

	h.flash(c, FlashSuccess, "Successfully registered for the event!")
	c.Redirect(http.StatusSeeOther, "/events")
}

func (h *Handler) cancelEvent(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		h.NotFound(c)
		return
	}

	if err := h.svc.Event.CancelRegistration(c.Request.Context(), id, h.currentUser(c).ID); err != nil {
		h.fail(c, err, "/events")
		return
	}

	h.flash(c, FlashSuccess, "Your registration has been cancelled.")
	c.Redirect(http.StatusSeeOther, "/events")
}

func (h *Handler) submitStoryForm(c *gin.Context) {
	h.render(c, "submit_story", "Share your story", nil)
}

func (h *Handler) submitStory(c *gin.Context) {
	var req dto.StoryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flash(c, FlashError, bindingMessage(err))
		c.Redirect(http.StatusSeeOther, "/submit-story")
		return
	}

	if _, err := h.svc.Story.Submit(c.Request.Context(), h.currentUser(c).ID, &req); err != nil {
		h.fail(c, err, "/submit-story")
		return
	}

	h.flash(c, FlashSuccess, "Story submitted for review!")
	c.Redirect(http.StatusSeeOther, "/stories")
}
