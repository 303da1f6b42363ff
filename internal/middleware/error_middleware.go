package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers
// call it for any error that bubbles up from a service.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrProfileNotFound),
		errors.Is(err, apperrors.ErrWorkNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"),
		})
	case errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled"),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"),
		})
	case errors.Is(err, apperrors.ErrInviteCodeClaimed):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInviteClaimed, "Invitation code was claimed by someone else"),
		})
	case errors.Is(err, apperrors.ErrInviteCodeInvalid), errors.Is(err, apperrors.ErrInviteCodeNotFound):
		c.JSON(422, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInviteInvalid, "Invitation code is invalid, expired or already used"),
		})
	case errors.Is(err, apperrors.ErrWorkNotPending):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "Work is not pending review"),
		})
	case errors.Is(err, apperrors.ErrRejectionNoteTooShort):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Rejection note must be at least 10 characters"),
		})
	case errors.Is(err, apperrors.ErrCommentTooShort):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Comment must be at least 100 characters"),
		})
	case errors.Is(err, apperrors.ErrCommentNoCategories):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "At least one feedback category is required"),
		})
	case errors.Is(err, apperrors.ErrNoImagesUploaded):
		c.JSON(502, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "None of the images could be stored"),
		})
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists"),
		})
	case errors.Is(err, apperrors.ErrUsernameAlreadyTaken):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Username already taken"),
		})
	case errors.Is(err, apperrors.ErrInvalidEmail):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidEmail, "Invalid email format"),
		})
	case errors.Is(err, apperrors.ErrInvalidPassword):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidPassword, "Password must be at least 8 characters"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, custom.Message)
		}
		c.JSON(400, dto.APIResponse{Error: detail})
	case errors.Is(err, apperrors.ErrConflict):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "Conflict")
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			detail = dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, custom.Message)
		}
		c.JSON(409, dto.APIResponse{Error: detail})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
