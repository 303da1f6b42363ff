package models

import "time"

// InvitationCode defines the invite code model based on the
// 'invitation_codes' table. A code transitions unclaimed -> claimed exactly
// once; the conditional update in the repository guarantees at most one
// claimer even under concurrent attempts.
type InvitationCode struct {
	ID        string     `json:"id" db:"id"`
	Code      string     `json:"code" db:"code"`
	Role      InviteRole `json:"role" db:"role"`
	CreatedBy string     `json:"createdBy" db:"created_by"`
	ClaimedBy *string    `json:"claimedBy,omitempty" db:"claimed_by"`
	ClaimedAt *time.Time `json:"claimedAt,omitempty" db:"claimed_at"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
