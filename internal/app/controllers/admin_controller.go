package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// AdminController handles administrator operations on users and statistics
type AdminController struct {
	adminService services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// Dashboard returns the admin statistics
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminDashboardResponse} "Statistics"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	resp, err := c.adminService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// PendingUsers lists alumni awaiting approval
// @Summary List pending users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Pending users"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/users/pending [get]
func (c *AdminController) PendingUsers(ctx *gin.Context) {
	users, err := c.adminService.PendingUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUsers(users), ""))
}

// ApproveUser approves a pending alumni account
// @Summary Approve a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User approved"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "User already approved"
// @Router /admin/users/{id}/approve [post]
func (c *AdminController) ApproveUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "user")
	if !ok {
		return
	}

	user, message, err := c.adminService.ApproveUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	adminID, _ := middleware.GetUserID(ctx)
	c.logger.Info().Int64("userID", id).Int64("adminID", adminID).Msg("User approved")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUser(user), message))
}
