// Package web serves the server-rendered HTML pages of the alumni portal.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
)

// Options configures the HTML handler
type Options struct {
	Services     *services.Services
	Authz        *auth.AuthorizationService
	AuthMW       *middleware.AuthMiddleware
	Storage      filestorage.FileStorage
	SessionTTL   time.Duration
	CookieSecure bool
	Logger       zerolog.Logger
}

// Handler renders the HTML pages
type Handler struct {
	svc          *services.Services
	authz        *auth.AuthorizationService
	authMW       *middleware.AuthMiddleware
	storage      filestorage.FileStorage
	sessionTTL   time.Duration
	cookieSecure bool
	logger       zerolog.Logger
	views        *renderer
	now          func() time.Time
}

// New creates the HTML handler and parses the embedded templates
func New(opts Options) (*Handler, error) {
	h := &Handler{
		svc:          opts.Services,
		authz:        opts.Authz,
		authMW:       opts.AuthMW,
		storage:      opts.Storage,
		sessionTTL:   opts.SessionTTL,
		cookieSecure: opts.CookieSecure,
		logger:       opts.Logger,
		now:          time.Now,
	}
	if h.sessionTTL <= 0 {
		h.sessionTTL = 12 * time.Hour
	}

	views, err := newRenderer(func() time.Time { return h.now() })
	if err != nil {
		return nil, err
	}
	h.views = views
	return h, nil
}

// Register mounts the pages on the router
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/static/*filepath", gin.WrapH(staticHandler()))

	router.GET("/", h.home)
	router.GET("/register", h.registerForm)
	router.POST("/register", h.register)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
	router.POST("/logout", h.logout)
	router.GET("/jobs", h.jobs)
	router.GET("/jobs/:id", h.jobDetail)
	router.GET("/events", h.events)
	router.GET("/stories", h.stories)

	signedIn := router.Group("")
	signedIn.Use(h.loginRequired())
	signedIn.GET("/pending-approval", h.pendingApproval)

	members := signedIn.Group("")
	members.Use(h.approvedRequired())
	{
		members.GET("/alumni-dashboard", h.alumniDashboard)
		members.GET("/profile", h.profile)
		members.POST("/profile", h.updateProfile)
		members.GET("/donate", h.donateForm)
		members.POST("/donate", h.donate)
		members.GET("/post-job", h.postJobForm)
		members.POST("/post-job", h.postJob)
		members.POST("/jobs/:id/apply", h.applyJob)
		members.POST("/jobs/:id/close", h.closeJob)
		members.GET("/jobs/:id/applications/:appID/resume", h.downloadResume)
		members.GET("/directory", h.directory)
		members.POST("/events/:id/register", h.registerEvent)
		members.POST("/events/:id/cancel", h.cancelEvent)
		members.GET("/submit-story", h.submitStoryForm)
		members.POST("/submit-story", h.submitStory)
	}

	admin := signedIn.Group("")
	admin.Use(h.adminRequired())
	{
		admin.GET("/admin-dashboard", h.adminDashboard)
		admin.GET("/admin/pending-users", h.pendingUsers)
		admin.POST("/admin/approve-user/:id", h.approveUser)
		admin.GET("/admin/manage-events", h.manageEvents)
		admin.POST("/admin/manage-events", h.createEvent)
		admin.POST("/admin/events/:id/active", h.setEventActive)
		admin.GET("/admin/events/:id/attendees", h.eventAttendees)
		admin.GET("/admin/manage-stories", h.manageStories)
		admin.POST("/admin/publish-story/:id", h.publishStory)
		admin.POST("/admin/feature-story/:id", h.featureStory)
	}
}

// NotFound renders the 404 page for unknown non-API paths
func (h *Handler) NotFound(c *gin.Context) {
	h.renderStatus(c, http.StatusNotFound, "error", "Page not found", errorPage{
		Status:  http.StatusNotFound,
		Message: "The page you are looking for does not exist.",
	})
}

type errorPage struct {
	Status  int
	Message string
}

func (h *Handler) render(c *gin.Context, name, title string, data interface{}) {
	h.renderStatus(c, http.StatusOK, name, title, data)
}

func (h *Handler) renderStatus(c *gin.Context, status int, name, title string, data interface{}) {
	page := Page{
		Title:   title,
		User:    h.currentUser(c),
		Flashes: h.popFlashes(c),
		Path:    c.Request.URL.Path,
		Data:    data,
	}
	if err := h.views.render(c, status, name, page); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to render page")
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}

// fail turns a service error into a flash and redirect. Unexpected errors render the error page.
func (h *Handler) fail(c *gin.Context, err error, redirectTo string) {
	status, _ := middleware.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		h.renderStatus(c, status, "error", "Something went wrong", errorPage{
			Status:  status,
			Message: "An unexpected error occurred. Please try again later.",
		})
		return
	}
	if status == http.StatusNotFound && c.Request.Method == http.MethodGet {
		h.renderStatus(c, status, "error", "Not found", errorPage{
			Status:  status,
			Message: apperrors.UserMessage(err),
		})
		return
	}

	category := FlashError
	if apperrors.Is(err, apperrors.ErrAlreadyRegistered, apperrors.ErrAlreadyApplied) {
		category = FlashInfo
	}
	h.flash(c, category, flashText(err))
	c.Redirect(http.StatusSeeOther, redirectTo)
}

// flashText capitalizes sentinel messages for display
func flashText(err error) string {
	msg := apperrors.UserMessage(err)
	if msg == "" {
		return msg
	}
	if msg[0] >= 'a' && msg[0] <= 'z' {
		msg = string(msg[0]-'a'+'A') + msg[1:]
	}
	if last := msg[len(msg)-1]; last != '.' && last != '!' && last != '?' {
		msg += "."
	}
	return msg
}

// bindingMessage returns the first readable problem of a form binding error
func bindingMessage(err error) string {
	detail := dto.HandleValidationError(err)
	if fields, ok := detail.Details.([]dto.FieldError); ok && len(fields) > 0 {
		return flashText(apperrors.NewBadRequestError(fields[0].Message))
	}
	return "Please check the form and try again."
}
