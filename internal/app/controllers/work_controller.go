package controllers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/middleware"
	"github.com/jhonnyduque/designfolio/internal/pkg/helpers"
)

// WorkController handles work submission and lifecycle operations
type WorkController struct {
	workService *services.WorkService
	likeService *services.LikeService
	presenter   *services.Presenter
	logger      zerolog.Logger
}

// NewWorkController creates a new WorkController
func NewWorkController(
	workService *services.WorkService,
	likeService *services.LikeService,
	presenter *services.Presenter,
	logger zerolog.Logger,
) *WorkController {
	return &WorkController{
		workService: workService,
		likeService: likeService,
		presenter:   presenter,
		logger:      logger,
	}
}

func readUploadFiles(headers []*multipart.FileHeader) ([]*services.UploadFile, error) {
	files := make([]*services.UploadFile, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, &services.UploadFile{
			Name: h.Filename,
			Mime: h.Header.Get("Content-Type"),
			Data: data,
		})
	}
	return files, nil
}

// Create submits a new work for review
// @Summary Submit a work
// @Description Accepts a multipart form with the work fields plus 1 to 6 image files under "images". Images upload in parallel; the work is created as long as at least one image could be stored.
// @Tags works
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title (1-150 chars)"
// @Param description formData string true "Description (min 120 chars)"
// @Param category formData string true "Work category"
// @Param tags formData []string false "Up to 8 tags"
// @Param images formData file true "Image files (max 6, 5MB each)"
// @Success 201 {object} dto.APIResponse{data=dto.WorkResponse} "Work queued for review"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 502 {object} dto.ErrorResponse "No image could be stored"
// @Security BearerAuth
// @Router /works [post]
func (c *WorkController) Create(ctx *gin.Context) {
	var req dto.CreateWorkRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Multipart form required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	files, err := readUploadFiles(form.File["images"])
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read submitted images")
		middleware.HandleAPIError(ctx, err)
		return
	}

	userID := middleware.GetUserID(ctx)
	work, err := c.workService.CreateWork(ctx.Request.Context(), userID, &req, files)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: c.presenter.WorkResponse(ctx.Request.Context(), work, userID)})
}

// Get returns one work
// @Summary Get a work
// @Description Public works are visible to everyone; drafts, pending and rejected works only to their author and founders.
// @Tags works
// @Produce json
// @Param workId path string true "Work id"
// @Success 200 {object} dto.APIResponse{data=dto.WorkResponse} "Work"
// @Failure 404 {object} dto.ErrorResponse "Work not found"
// @Router /works/{workId} [get]
func (c *WorkController) Get(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)
	work, err := c.workService.GetWork(ctx.Request.Context(), ctx.Param("workId"), userID, middleware.IsFounder(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.presenter.WorkResponse(ctx.Request.Context(), work, userID)})
}

// ListMine returns every work of the caller
// @Summary List own works
// @Tags works
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.WorkResponse} "All works, any status"
// @Security BearerAuth
// @Router /me/works [get]
func (c *WorkController) ListMine(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)
	works, err := c.workService.ListMyWorks(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.presenter.WorkResponses(ctx.Request.Context(), works, userID)})
}

// Update edits a rejected work
// @Summary Edit a rejected work
// @Tags works
// @Accept json
// @Produce json
// @Param workId path string true "Work id"
// @Param request body dto.UpdateWorkRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.WorkResponse} "Updated work"
// @Failure 409 {object} dto.ErrorResponse "Work is not editable in its current state"
// @Security BearerAuth
// @Router /works/{workId} [patch]
func (c *WorkController) Update(ctx *gin.Context) {
	var req dto.UpdateWorkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := middleware.GetUserID(ctx)
	work, err := c.workService.UpdateWork(ctx.Request.Context(), ctx.Param("workId"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.presenter.WorkResponse(ctx.Request.Context(), work, userID)})
}

// Resubmit sends an edited rejected work back to the queue
// @Summary Resubmit a rejected work
// @Tags works
// @Produce json
// @Param workId path string true "Work id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Back in the review queue"
// @Failure 409 {object} dto.ErrorResponse "Work is not rejected"
// @Security BearerAuth
// @Router /works/{workId}/resubmit [post]
func (c *WorkController) Resubmit(ctx *gin.Context) {
	if err := c.workService.ResubmitWork(ctx.Request.Context(), ctx.Param("workId"), middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Work resubmitted for review"}})
}

// Archive hides or restores a work
// @Summary Archive or restore a work
// @Tags works
// @Accept json
// @Produce json
// @Param workId path string true "Work id"
// @Param request body dto.ArchiveWorkRequest true "Desired archived state"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "State changed"
// @Security BearerAuth
// @Router /works/{workId}/archive [post]
func (c *WorkController) Archive(ctx *gin.Context) {
	var req dto.ArchiveWorkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.workService.SetArchived(ctx.Request.Context(), ctx.Param("workId"), middleware.GetUserID(ctx), req.Archived); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Work archive state updated"}})
}

// Delete permanently removes a work
// @Summary Delete a work
// @Tags works
// @Produce json
// @Param workId path string true "Work id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Work deleted"
// @Failure 404 {object} dto.ErrorResponse "Work not found"
// @Security BearerAuth
// @Router /works/{workId} [delete]
func (c *WorkController) Delete(ctx *gin.Context) {
	if err := c.workService.DeleteWork(ctx.Request.Context(), ctx.Param("workId"), middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Work deleted"}})
}

// AdminList returns every author's works for the founder manager
// @Summary List all works
// @Description Works of every author, newest first. Filter by all, approved or archived.
// @Tags admin
// @Produce json
// @Param filter query string false "Status filter" Enums(all, approved, archived)
// @Param page query int false "Page number (0-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Works"
// @Security BearerAuth
// @Router /admin/works [get]
func (c *WorkController) AdminList(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	works, err := c.workService.ListAllWorks(ctx.Request.Context(), ctx.Query("filter"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.PagedResponse{
		Items:   c.presenter.WorkResponses(ctx.Request.Context(), works, middleware.GetUserID(ctx)),
		Page:    page,
		HasMore: helpers.HasMore(len(works), limit),
	}})
}

// AdminArchive archives or restores any author's work
// @Summary Archive or restore any work
// @Tags admin
// @Accept json
// @Produce json
// @Param workId path string true "Work id"
// @Param request body dto.ArchiveWorkRequest true "Desired archived state"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "State changed"
// @Failure 404 {object} dto.ErrorResponse "Work not found"
// @Security BearerAuth
// @Router /admin/works/{workId}/archive [post]
func (c *WorkController) AdminArchive(ctx *gin.Context) {
	var req dto.ArchiveWorkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.workService.ModerateArchive(ctx.Request.Context(), ctx.Param("workId"), middleware.GetUserID(ctx), req.Archived); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Work archive state updated"}})
}

// AdminDelete permanently removes any author's work
// @Summary Delete any work
// @Tags admin
// @Produce json
// @Param workId path string true "Work id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Work deleted"
// @Failure 404 {object} dto.ErrorResponse "Work not found"
// @Security BearerAuth
// @Router /admin/works/{workId} [delete]
func (c *WorkController) AdminDelete(ctx *gin.Context) {
	if err := c.workService.ModerateDelete(ctx.Request.Context(), ctx.Param("workId"), middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Work deleted"}})
}

// ToggleLike flips the caller's like on a work
// @Summary Like or unlike a work
// @Tags works
// @Produce json
// @Param workId path string true "Work id"
// @Success 200 {object} dto.APIResponse{data=dto.LikeToggleResponse} "New like state and count"
// @Failure 404 {object} dto.ErrorResponse "Work not found"
// @Security BearerAuth
// @Router /works/{workId}/like [post]
func (c *WorkController) ToggleLike(ctx *gin.Context) {
	result, err := c.likeService.Toggle(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("workId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result})
}
