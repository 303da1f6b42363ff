package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/middleware"
	"github.com/jhonnyduque/designfolio/internal/pkg/helpers"
)

// ProfileController handles profile operations
type ProfileController struct {
	profileService *services.ProfileService
	workService    *services.WorkService
	presenter      *services.Presenter
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(
	profileService *services.ProfileService,
	workService *services.WorkService,
	presenter *services.Presenter,
	logger zerolog.Logger,
) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		workService:    workService,
		presenter:      presenter,
		logger:         logger,
	}
}

// GetMe returns the caller's own profile
// @Summary Get own profile
// @Tags profiles
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile"
// @Security BearerAuth
// @Router /me [get]
func (c *ProfileController) GetMe(ctx *gin.Context) {
	profile, err := c.profileService.GetByID(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: services.ProfileToResponse(profile, true)})
}

// CompleteOnboarding fills in the profile after first login
// @Summary Complete onboarding
// @Description Sets the public handle, bio and design categories. Required before submitting work.
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body dto.CompleteOnboardingRequest true "Onboarding data"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Updated profile"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Security BearerAuth
// @Router /me/onboarding [post]
func (c *ProfileController) CompleteOnboarding(ctx *gin.Context) {
	var req dto.CompleteOnboardingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, err := c.profileService.CompleteOnboarding(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: services.ProfileToResponse(profile, true)})
}

// UpdateMe edits the caller's profile
// @Summary Update own profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Updated profile"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Security BearerAuth
// @Router /me [patch]
func (c *ProfileController) UpdateMe(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, err := c.profileService.UpdateProfile(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: services.ProfileToResponse(profile, true)})
}

// UploadAvatar replaces the caller's avatar
// @Summary Upload avatar
// @Description Accepts a multipart file field named "avatar" up to 2MB (JPEG, PNG or WebP).
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.APIResponse{data=dto.AvatarResponse} "Stored avatar URL"
// @Security BearerAuth
// @Router /me/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Avatar file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	mime := fileHeader.Header.Get("Content-Type")
	url, err := c.profileService.UploadAvatar(ctx.Request.Context(), middleware.GetUserID(ctx), data, mime)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.AvatarResponse{AvatarURL: url}})
}

// CheckUsername reports whether a handle is still free
// @Summary Check username availability
// @Description Live availability check used while picking a handle. Malformed handles read as unavailable.
// @Tags profiles
// @Produce json
// @Param username query string true "Handle to check"
// @Success 200 {object} dto.APIResponse{data=dto.UsernameAvailabilityResponse} "Availability"
// @Router /profiles/check-username [get]
func (c *ProfileController) CheckUsername(ctx *gin.Context) {
	username := ctx.Query("username")
	available, err := c.profileService.CheckUsernameAvailable(ctx.Request.Context(), username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.UsernameAvailabilityResponse{
		Username:  username,
		Available: available,
	}})
}

// GetByUsername returns a public profile
// @Summary Get a profile by username
// @Tags profiles
// @Produce json
// @Param username path string true "Public handle"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profiles/{username} [get]
func (c *ProfileController) GetByUsername(ctx *gin.Context) {
	profile, err := c.profileService.GetByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: services.ProfileToResponse(profile, false)})
}

// GetWorksByUsername returns a user's public portfolio
// @Summary Get a user's public works
// @Tags profiles
// @Produce json
// @Param username path string true "Public handle"
// @Success 200 {object} dto.APIResponse{data=[]dto.WorkResponse} "Approved works"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profiles/{username}/works [get]
func (c *ProfileController) GetWorksByUsername(ctx *gin.Context) {
	profile, err := c.profileService.GetByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	works, err := c.workService.ListUserWorks(ctx.Request.Context(), profile.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.presenter.WorkResponses(ctx.Request.Context(), works, middleware.GetUserID(ctx))})
}

// ListUsers returns all accounts for the founder's manager
// @Summary List users
// @Tags admin
// @Produce json
// @Param page query int false "Page number (0-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Users with work counts"
// @Security BearerAuth
// @Router /admin/users [get]
func (c *ProfileController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	profiles, workCounts, err := c.profileService.ListUsers(ctx.Request.Context(), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]*dto.ManagedUserResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, &dto.ManagedUserResponse{
			ProfileResponse: *services.ProfileToResponse(p, true),
			IsActive:        p.IsActive,
			WorksCount:      workCounts[p.ID],
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.PagedResponse{
		Items:   out,
		Page:    page,
		HasMore: helpers.HasMore(len(profiles), limit),
	}})
}

// ToggleActive enables or disables an account
// @Summary Enable or disable an account
// @Tags admin
// @Accept json
// @Produce json
// @Param userId path string true "Account id"
// @Param request body dto.ToggleActiveRequest true "Desired state"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "State changed"
// @Failure 403 {object} dto.ErrorResponse "Founder accounts cannot be disabled"
// @Security BearerAuth
// @Router /admin/users/{userId}/active [post]
func (c *ProfileController) ToggleActive(ctx *gin.Context) {
	var req dto.ToggleActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.profileService.ToggleActive(ctx.Request.Context(), ctx.Param("userId"), req.IsActive); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Account state updated"}})
}
