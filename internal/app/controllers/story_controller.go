package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// StoryController handles success stories
type StoryController struct {
	storyService services.StoryService
	logger       zerolog.Logger
}

// NewStoryController creates a new StoryController
func NewStoryController(storyService services.StoryService, logger zerolog.Logger) *StoryController {
	return &StoryController{
		storyService: storyService,
		logger:       logger,
	}
}

// ListStories lists published stories
// @Summary List published stories
// @Tags stories
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Story} "Stories, newest first"
// @Router /stories [get]
func (c *StoryController) ListStories(ctx *gin.Context) {
	stories, err := c.storyService.ListPublished(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stories, ""))
}

// FeaturedStories lists up to three featured stories
// @Summary List featured stories
// @Tags stories
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Story} "Featured stories"
// @Router /stories/featured [get]
func (c *StoryController) FeaturedStories(ctx *gin.Context) {
	stories, err := c.storyService.Featured(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stories, ""))
}

// SubmitStory submits a story for review
// @Summary Submit a story
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StoryRequest true "Story"
// @Success 201 {object} dto.APIResponse{data=models.Story} "Story submitted for review"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Account pending approval"
// @Router /stories [post]
func (c *StoryController) SubmitStory(ctx *gin.Context) {
	var req dto.StoryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	story, err := c.storyService.Submit(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(story, "Story submitted for review!"))
}

// AdminListStories lists stories by publication state
// @Summary List stories for moderation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param published query bool false "Published stories instead of pending ones" default(false)
// @Success 200 {object} dto.APIResponse{data=[]models.Story} "Stories"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/stories [get]
func (c *StoryController) AdminListStories(ctx *gin.Context) {
	published, _ := strconv.ParseBool(ctx.DefaultQuery("published", "false"))

	var (
		stories []*models.Story
		err     error
	)
	if published {
		stories, err = c.storyService.ListPublished(ctx.Request.Context())
	} else {
		stories, err = c.storyService.Pending(ctx.Request.Context())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stories, ""))
}

// PublishStory publishes a pending story
// @Summary Publish a story
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} dto.APIResponse{data=models.Story} "Story published"
// @Failure 404 {object} dto.ErrorResponse "Story not found"
// @Router /admin/stories/{id}/publish [post]
func (c *StoryController) PublishStory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "story")
	if !ok {
		return
	}

	story, err := c.storyService.Publish(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(story, "Story published successfully!"))
}

// ToggleFeature flips the featured flag of a story
// @Summary Feature or unfeature a story
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} dto.APIResponse{data=dto.FeatureResponse} "New featured state"
// @Failure 404 {object} dto.ErrorResponse "Story not found"
// @Router /admin/stories/{id}/feature [post]
func (c *StoryController) ToggleFeature(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "story")
	if !ok {
		return
	}

	resp, err := c.storyService.ToggleFeature(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}
