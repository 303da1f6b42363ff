package dto

import (
	"time"

	"github.com/jhonnyduque/designfolio/internal/app/models"
)

// ValidateInviteRequest checks a code before signup.
type ValidateInviteRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidateInviteResponse reports whether a code can still be claimed.
type ValidateInviteResponse struct {
	Valid bool              `json:"valid"`
	Role  models.InviteRole `json:"role,omitempty"`
}

// CreateInviteRequest mints new codes (founder only).
type CreateInviteRequest struct {
	Role  models.InviteRole `json:"role" binding:"required,oneof=early mentor_invite"`
	Count int               `json:"count" binding:"omitempty,min=1,max=50"`
}

// InviteCodeResponse represents one invitation code with claim state.
type InviteCodeResponse struct {
	ID        string            `json:"id"`
	Code      string            `json:"code"`
	Role      models.InviteRole `json:"role"`
	ClaimedBy *string           `json:"claimedBy,omitempty"`
	ClaimedAt *time.Time        `json:"claimedAt,omitempty"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}
