package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/middleware"
	"github.com/jhonnyduque/designfolio/internal/pkg/helpers"
)

// InviteController handles invitation code operations
type InviteController struct {
	inviteService *services.InviteService
	logger        zerolog.Logger
}

// NewInviteController creates a new InviteController
func NewInviteController(inviteService *services.InviteService, logger zerolog.Logger) *InviteController {
	return &InviteController{
		inviteService: inviteService,
		logger:        logger,
	}
}

func inviteToResponse(inv *models.InvitationCode) *dto.InviteCodeResponse {
	return &dto.InviteCodeResponse{
		ID:        inv.ID,
		Code:      inv.Code,
		Role:      inv.Role,
		ClaimedBy: inv.ClaimedBy,
		ClaimedAt: inv.ClaimedAt,
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

// Validate checks a code before signup
// @Summary Validate an invitation code
// @Description Reports whether the code can still be claimed. Advisory only: the claim during signup is the atomic gate.
// @Tags invites
// @Accept json
// @Produce json
// @Param request body dto.ValidateInviteRequest true "Code to check"
// @Success 200 {object} dto.APIResponse{data=dto.ValidateInviteResponse} "Validation result"
// @Failure 422 {object} dto.ErrorResponse "Code invalid, expired or already used"
// @Router /invites/validate [post]
func (c *InviteController) Validate(ctx *gin.Context) {
	var req dto.ValidateInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	inv, err := c.inviteService.Validate(ctx.Request.Context(), req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.ValidateInviteResponse{
		Valid: true,
		Role:  inv.Role,
	}})
}

// Create mints new invitation codes
// @Summary Create invitation codes
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateInviteRequest true "Role and count"
// @Success 201 {object} dto.APIResponse{data=[]dto.InviteCodeResponse} "Created codes"
// @Security BearerAuth
// @Router /admin/invites [post]
func (c *InviteController) Create(ctx *gin.Context) {
	var req dto.CreateInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	codes, err := c.inviteService.CreateCodes(ctx.Request.Context(), middleware.GetUserID(ctx), req.Role, req.Count, nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to create invitation codes")
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]*dto.InviteCodeResponse, 0, len(codes))
	for _, inv := range codes {
		out = append(out, inviteToResponse(inv))
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: out})
}

// List returns existing codes with claim state
// @Summary List invitation codes
// @Tags admin
// @Produce json
// @Param page query int false "Page number (0-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Codes"
// @Security BearerAuth
// @Router /admin/invites [get]
func (c *InviteController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	codes, err := c.inviteService.ListCodes(ctx.Request.Context(), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]*dto.InviteCodeResponse, 0, len(codes))
	for _, inv := range codes {
		out = append(out, inviteToResponse(inv))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.PagedResponse{
		Items:   out,
		Page:    page,
		HasMore: helpers.HasMore(len(codes), limit),
	}})
}
