package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// EventController handles events and registrations
type EventController struct {
	eventService services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// ListEvents lists upcoming and past events
// @Summary List events
// @Description Upcoming active events ascending by date and past events descending, each with its registration count
// @Tags events
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	resp, err := c.eventService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Register registers the current user for an event
// @Summary Register for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 201 {object} dto.APIResponse{data=models.EventRegistration} "Registered"
// @Failure 400 {object} dto.ErrorResponse "Registration closed"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered or event full"
// @Router /events/{id}/registrations [post]
func (c *EventController) Register(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	registration, err := c.eventService.Register(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(registration, "Successfully registered for the event!"))
}

// CancelRegistration cancels the registration of the current user
// @Summary Cancel event registration
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Registration cancelled"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /events/{id}/registrations [delete]
func (c *EventController) CancelRegistration(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	if err := c.eventService.CancelRegistration(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Registration cancelled."}, ""))
}

// CreateEvent creates an event
// @Summary Create an event
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=models.Event} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.EventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Event created successfully!"))
}

// ListAllEvents lists every event for administration
// @Summary List all events
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Event} "Events by date descending"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/events [get]
func (c *EventController) ListAllEvents(ctx *gin.Context) {
	events, err := c.eventService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}

// Attendees lists the active registrations of an event
// @Summary List event attendees
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]models.EventRegistration} "Attendees"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id}/attendees [get]
func (c *EventController) Attendees(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	attendees, err := c.eventService.Attendees(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(attendees, ""))
}

// SetActive opens or closes an event
// @Summary Activate or deactivate an event
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.EventActiveRequest true "Active flag"
// @Success 200 {object} dto.APIResponse{data=models.Event} "Event updated"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id}/active [put]
func (c *EventController) SetActive(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	var req dto.EventActiveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.SetActive(ctx.Request.Context(), id, *req.Active)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, ""))
}
