// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles invite-gated registration
// @Summary Register a new account
// @Description Creates an account behind an invitation code. The code is consumed atomically; a concurrent signup with the same code gets a conflict.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Registration information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email exists or code claimed concurrently"
// @Failure 422 {object} dto.ErrorResponse "Invitation code invalid"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, tokens, err := c.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Signup failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.AuthResponse{
		Token: *tokens,
		User:  services.ProfileToResponse(profile, true),
	}})
}

// Login handles email/password authentication
// @Summary Log in
// @Description Authenticates with email and password and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authenticated"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, tokens, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.AuthResponse{
		Token: *tokens,
		User:  services.ProfileToResponse(profile, true),
	}})
}

// GoogleAuthURL returns the Google consent URL
// @Summary Get Google sign-in URL
// @Tags auth
// @Produce json
// @Param state query string false "Opaque state echoed back on the callback"
// @Success 200 {object} dto.APIResponse "Consent URL"
// @Router /auth/google/url [get]
func (c *AuthController) GoogleAuthURL(ctx *gin.Context) {
	state := ctx.DefaultQuery("state", "")
	url, err := c.authService.GoogleAuthURL(state)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: gin.H{"url": url}})
}

// GoogleCallback completes the OAuth flow
// @Summary Complete Google sign-in
// @Description Exchanges the authorization code, creating the account on first sign-in. An optional invitation code is claimed best effort.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleCallbackRequest true "Authorization code"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authenticated"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /auth/google/callback [post]
func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	var req dto.GoogleCallbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, tokens, err := c.authService.GoogleLogin(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Google sign-in failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.AuthResponse{
		Token: *tokens,
		User:  services.ProfileToResponse(profile, true),
	}})
}

// ClaimInvite attaches an invitation code to the account
// @Summary Claim an invitation code
// @Description Claims a code for an account that signed up via Google before entering one.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ClaimInviteRequest true "Invitation code"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Code claimed"
// @Failure 409 {object} dto.ErrorResponse "Code claimed concurrently"
// @Failure 422 {object} dto.ErrorResponse "Code invalid"
// @Security BearerAuth
// @Router /auth/claim-invite [post]
func (c *AuthController) ClaimInvite(ctx *gin.Context) {
	var req dto.ClaimInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ClaimInvite(ctx.Request.Context(), middleware.GetUserID(ctx), req.InviteCode); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Invitation code claimed"}})
}

// RefreshToken rotates a refresh token
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "New token pair"
// @Failure 401 {object} dto.ErrorResponse "Token invalid, expired or revoked"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	tokens, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: tokens})
}

// Logout revokes the account's refresh tokens
// @Summary Log out everywhere
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Security BearerAuth
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Logged out"}})
}

// ForgotPassword starts a password reset
// @Summary Request a password reset
// @Description Always answers OK so the response never reveals whether the email exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Reset initiated when the account exists"
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if _, err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		c.logger.Error().Err(err).Msg("Password reset initiation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "If the account exists, a reset link has been sent"}})
}

// ResetPassword completes a password reset
// @Summary Reset the password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password updated"
// @Failure 401 {object} dto.ErrorResponse "Token invalid or expired"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Password updated"}})
}
