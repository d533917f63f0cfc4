package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// DonationController handles donation operations
type DonationController struct {
	donationService services.DonationService
	logger          zerolog.Logger
}

// NewDonationController creates a new DonationController
func NewDonationController(donationService services.DonationService, logger zerolog.Logger) *DonationController {
	return &DonationController{
		donationService: donationService,
		logger:          logger,
	}
}

// Donate records a pending donation
// @Summary Make a donation
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DonationRequest true "Donation"
// @Success 201 {object} dto.APIResponse{data=models.Donation} "Donation recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or payment method"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account pending approval"
// @Router /donations [post]
func (c *DonationController) Donate(ctx *gin.Context) {
	var req dto.DonationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	donation, err := c.donationService.Donate(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(donation, "Thank you for your donation!"))
}

// MyDonations lists the donations of the current user
// @Summary List own donations
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Donation} "Donations, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /donations/mine [get]
func (c *DonationController) MyDonations(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)
	donations, err := c.donationService.MyDonations(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(donations, ""))
}

// MonthlyStats returns donation totals per month
// @Summary Monthly donation totals
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.MonthlyDonation} "Totals ascending by month"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/donations/stats [get]
func (c *DonationController) MonthlyStats(ctx *gin.Context) {
	stats, err := c.donationService.MonthlyStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// UpdateStatus reconciles the payment status of a donation
// @Summary Update donation status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Donation ID"
// @Param request body dto.DonationStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Donation} "Donation updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Donation not found"
// @Router /admin/donations/{id}/status [put]
func (c *DonationController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "donation")
	if !ok {
		return
	}

	var req dto.DonationStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	donation, err := c.donationService.UpdateStatus(ctx.Request.Context(), id, models.DonationStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("donationID", id).Str("status", req.Status).Msg("Donation status updated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(donation, ""))
}
