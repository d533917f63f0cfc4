package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/controllers"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
)

// Controllers groups the JSON API handlers
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Donation *controllers.DonationController
	Job      *controllers.JobController
	Event    *controllers.EventController
	Story    *controllers.StoryController
	Admin    *controllers.AdminController
}

// SetupRouter configures all JSON API routes. ping reports database reachability for /api/v1/health.
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	wsHandler *websocket.Handler,
	ping func(*gin.Context) error,
) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		if ping != nil {
			if err := ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				dbStatus = "unavailable"
			}
		}
		ctx.JSON(status, gin.H{
			"status":   http.StatusText(status),
			"database": dbStatus,
			"time":     time.Now().UTC(),
		})
	})

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
	}

	v1.GET("/jobs", c.Job.ListJobs)
	v1.GET("/events", c.Event.ListEvents)
	v1.GET("/stories", c.Story.ListStories)
	v1.GET("/stories/featured", c.Story.FeaturedStories)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)
		authenticated.GET("/auth/me", c.Auth.Me)
	}

	// Approved members (admins always pass)
	members := authenticated.Group("")
	members.Use(authMiddleware.ApprovedRequired())
	{
		members.GET("/profile", c.User.GetProfile)
		members.PUT("/profile", c.User.UpdateProfile)
		members.GET("/directory", c.User.Directory)
		members.GET("/dashboard", c.User.Dashboard)

		members.POST("/donations", c.Donation.Donate)
		members.GET("/donations/mine", c.Donation.MyDonations)

		// /jobs/mine is registered before /jobs/:id
		members.GET("/jobs/mine", c.Job.MyJobs)
		members.POST("/jobs", c.Job.PostJob)
		members.POST("/jobs/:id/close", c.Job.CloseJob)
		members.POST("/jobs/:id/applications", c.Job.Apply)
		members.GET("/jobs/:id/applications", c.Job.ListApplications)
		members.GET("/applications/mine", c.Job.MyApplications)

		members.POST("/events/:id/registrations", c.Event.Register)
		members.DELETE("/events/:id/registrations", c.Event.CancelRegistration)

		members.POST("/stories", c.Story.SubmitStory)
	}
	v1.GET("/jobs/:id", c.Job.GetJob)

	// --- Admin routes ---
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", c.Admin.Dashboard)
		admin.GET("/users/pending", c.Admin.PendingUsers)
		admin.POST("/users/:id/approve", c.Admin.ApproveUser)

		admin.GET("/events", c.Event.ListAllEvents)
		admin.POST("/events", c.Event.CreateEvent)
		admin.GET("/events/:id/attendees", c.Event.Attendees)
		admin.PUT("/events/:id/active", c.Event.SetActive)

		admin.GET("/stories", c.Story.AdminListStories)
		admin.POST("/stories/:id/publish", c.Story.PublishStory)
		admin.POST("/stories/:id/feature", c.Story.ToggleFeature)

		admin.GET("/donations/stats", c.Donation.MonthlyStats)
		admin.PUT("/donations/:id/status", c.Donation.UpdateStatus)

		if wsHandler != nil {
			admin.GET("/ws", wsHandler.HandleConnection)
		}
	}
}
