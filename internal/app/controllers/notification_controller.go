package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/middleware"
)

// NotificationController handles the notification inbox
type NotificationController struct {
	notificationService *services.NotificationService
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, logger zerolog.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns the latest notifications
// @Summary List notifications
// @Description The 50 most recent notifications with the unread counter.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.NotificationListResponse} "Inbox"
// @Security BearerAuth
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	notifications, unread, err := c.notificationService.List(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]*dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, &dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			TargetID:  n.TargetID,
			Payload:   n.Payload,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NotificationListResponse{
		Notifications: out,
		UnreadCount:   unread,
	}})
}

// MarkRead marks notifications as read
// @Summary Mark notifications read
// @Description Marks the listed notifications, or all of them when "all" is set.
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body dto.MarkReadRequest true "Ids to mark, or all"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Marked"
// @Security BearerAuth
// @Router /notifications/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	var req dto.MarkReadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), middleware.GetUserID(ctx), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Notifications marked read"}})
}
