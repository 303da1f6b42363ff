package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/middleware"
	"github.com/jhonnyduque/designfolio/internal/pkg/helpers"
)

// ModerationController handles the review queue and decisions
type ModerationController struct {
	moderationService *services.ModerationService
	presenter         *services.Presenter
	logger            zerolog.Logger
}

// NewModerationController creates a new ModerationController
func NewModerationController(moderationService *services.ModerationService, presenter *services.Presenter, logger zerolog.Logger) *ModerationController {
	return &ModerationController{
		moderationService: moderationService,
		presenter:         presenter,
		logger:            logger,
	}
}

// Queue returns the review dashboard
// @Summary View the moderation queue
// @Description Pending works in strict FIFO order with their queue position and waiting time, plus per-status counts and the latest decisions.
// @Tags admin
// @Produce json
// @Param page query int false "Page number (0-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse "Queue with stats and recent history"
// @Security BearerAuth
// @Router /admin/moderation/queue [get]
func (c *ModerationController) Queue(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	overview, err := c.moderationService.Queue(ctx.Request.Context(), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	now := time.Now()
	responses := c.presenter.WorkResponses(ctx.Request.Context(), overview.Works, "")
	items := make([]*dto.ModerationQueueItemResponse, 0, len(responses))
	for i, resp := range responses {
		items = append(items, &dto.ModerationQueueItemResponse{
			Work:      resp,
			Position:  int(offset) + i + 1,
			WaitingMS: services.QueueItemWaiting(overview.Works[i], now),
		})
	}

	history := make([]*dto.NotificationResponse, 0, len(overview.History))
	for _, n := range overview.History {
		history = append(history, &dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			TargetID:  n.TargetID,
			Payload:   n.Payload,
			CreatedAt: n.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: gin.H{
		"items": items,
		"stats": dto.ModerationStatsResponse{
			Pending:  overview.Stats.Pending,
			Approved: overview.Stats.Approved,
			Rejected: overview.Stats.Rejected,
		},
		"history": history,
		"total":   overview.Stats.Pending,
		"page":    page,
		"hasMore": helpers.HasMore(len(overview.Works), limit),
	}})
}

// Moderate applies a decision to a pending work
// @Summary Approve or reject a work
// @Description Applies a terminal decision to a pending work. Rejection requires a note of at least 10 characters. Only one of two concurrent decisions on the same work wins.
// @Tags admin
// @Accept json
// @Produce json
// @Param workId path string true "Work id"
// @Param request body dto.ModerateWorkRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Decision applied"
// @Failure 400 {object} dto.ErrorResponse "Rejection note too short"
// @Failure 409 {object} dto.ErrorResponse "Work is not pending review"
// @Security BearerAuth
// @Router /admin/works/{workId}/moderate [post]
func (c *ModerationController) Moderate(ctx *gin.Context) {
	var req dto.ModerateWorkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	workID := ctx.Param("workId")
	if err := c.moderationService.Moderate(ctx.Request.Context(), workID, middleware.GetUserID(ctx), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Moderation decision applied"}})
}

// Logs returns the decision history of a work
// @Summary View moderation history
// @Tags admin
// @Produce json
// @Param workId path string true "Work id"
// @Success 200 {object} dto.APIResponse{data=[]dto.ModerationLogResponse} "Decisions, newest first"
// @Security BearerAuth
// @Router /admin/works/{workId}/logs [get]
func (c *ModerationController) Logs(ctx *gin.Context) {
	logs, err := c.moderationService.Logs(ctx.Request.Context(), ctx.Param("workId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]*dto.ModerationLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, &dto.ModerationLogResponse{
			ID:          l.ID,
			WorkID:      l.WorkID,
			ModeratorID: l.ModeratorID,
			Action:      l.Action,
			Note:        l.Note,
			CreatedAt:   l.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: out})
}
