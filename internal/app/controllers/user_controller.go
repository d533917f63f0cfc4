package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// UserController handles profile, directory and dashboard operations
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile retrieves the profile of the authenticated user
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account pending approval"
// @Router /profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)
	user, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUser(user), ""))
}

// UpdateProfile updates the profile of the authenticated user
// @Summary Update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account pending approval"
// @Router /profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	user, err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUser(user), "Profile updated successfully!"))
}

// Directory searches approved alumni
// @Summary Alumni directory
// @Description Lists approved alumni. search matches first name, last name or company; year and department are exact filters.
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or company substring"
// @Param year query int false "Graduation year"
// @Param department query string false "Department"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.DirectoryResponse} "Directory page"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account pending approval"
// @Router /directory [get]
func (c *UserController) Directory(ctx *gin.Context) {
	var filter dto.DirectoryFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.userService.Directory(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Dashboard returns the alumni dashboard summary
// @Summary Alumni dashboard
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AlumniDashboardResponse} "Dashboard"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account pending approval"
// @Router /dashboard [get]
func (c *UserController) Dashboard(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)
	resp, err := c.userService.AlumniDashboard(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
