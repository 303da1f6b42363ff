package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/middleware"
)

// CommentController handles structured feedback on works
type CommentController struct {
	commentService *services.CommentService
	presenter      *services.Presenter
	logger         zerolog.Logger
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, presenter *services.Presenter, logger zerolog.Logger) *CommentController {
	return &CommentController{
		commentService: commentService,
		presenter:      presenter,
		logger:         logger,
	}
}

// Create posts a comment on a work
// @Summary Comment on a work
// @Description Posts structured feedback: at least 100 characters and one or more feedback categories.
// @Tags comments
// @Accept json
// @Produce json
// @Param workId path string true "Work id"
// @Param request body dto.CreateCommentRequest true "Comment content and categories"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse} "Posted comment"
// @Failure 400 {object} dto.ErrorResponse "Content too short or categories missing"
// @Failure 404 {object} dto.ErrorResponse "Work not found"
// @Security BearerAuth
// @Router /works/{workId}/comments [post]
func (c *CommentController) Create(ctx *gin.Context) {
	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	comment, err := c.commentService.Create(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("workId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := c.presenter.CommentResponses(ctx.Request.Context(), []*models.Comment{comment})
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: responses[0]})
}

// List returns a work's comments
// @Summary List comments on a work
// @Tags comments
// @Produce json
// @Param workId path string true "Work id"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse} "Comments, newest first"
// @Failure 404 {object} dto.ErrorResponse "Work not found"
// @Router /works/{workId}/comments [get]
func (c *CommentController) List(ctx *gin.Context) {
	comments, err := c.commentService.List(ctx.Request.Context(), ctx.Param("workId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.presenter.CommentResponses(ctx.Request.Context(), comments)})
}

// Delete removes a comment. Authors delete their own; founders can
// delete any comment.
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Param commentId path string true "Comment id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Comment deleted"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Security BearerAuth
// @Router /comments/{commentId} [delete]
func (c *CommentController) Delete(ctx *gin.Context) {
	if err := c.commentService.Delete(ctx.Request.Context(), ctx.Param("commentId"), middleware.GetUserID(ctx), middleware.IsFounder(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Comment deleted"}})
}
