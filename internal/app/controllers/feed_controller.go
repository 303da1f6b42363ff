package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/middleware"
)

// FeedController handles the public feed
type FeedController struct {
	feedService *services.FeedService
	logger      zerolog.Logger
}

// NewFeedController creates a new FeedController
func NewFeedController(feedService *services.FeedService, logger zerolog.Logger) *FeedController {
	return &FeedController{
		feedService: feedService,
		logger:      logger,
	}
}

// List returns one page of the feed
// @Summary Browse the feed
// @Description Lists approved works. Sort is one of recent, popular, most_voted or most_commented; unknown values fall back to recent. HasMore is inferred from the page being full.
// @Tags feed
// @Produce json
// @Param page query int false "Page number (0-based)"
// @Param sort query string false "Sort order" Enums(recent, popular, most_voted, most_commented)
// @Param category query string false "Filter by work category"
// @Param search query string false "Search in title, category and author name"
// @Success 200 {object} dto.APIResponse{data=dto.FeedResponse} "Feed page"
// @Router /feed [get]
func (c *FeedController) List(ctx *gin.Context) {
	var query dto.FeedQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	feed, err := c.feedService.List(ctx.Request.Context(), &query, middleware.GetUserID(ctx))
	if err != nil {
		c.logger.Error().Err(err).Msg("Feed listing failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: feed})
}
