// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles user registration
// @Summary Register a new alumni account
// @Description Creates an unapproved alumni account. An administrator must approve it before member pages are available.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration information"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterResponse} "Registration successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid registration request payload")
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User registered, awaiting approval")

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.RegisterResponse{
		UserID:  user.ID,
		Message: services.RegistrationMessage,
	}, services.RegistrationMessage))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns an access token, a refresh token and the landing page for the account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Exchanges a refresh token for a new token pair. The submitted refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Tokens refreshed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid, revoked or expired refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tokens, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tokens, ""))
}

// Logout revokes all refresh tokens of the current user
// @Summary Logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)
	if err := c.authService.Logout(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "You have been logged out."}, ""))
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Current user"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)
	user, err := c.authService.Me(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUser(user), ""))
}
