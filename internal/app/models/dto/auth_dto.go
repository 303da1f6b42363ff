package dto

// SignupRequest registers a new account with an invitation code.
type SignupRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"fullName" binding:"required"`
	InviteCode string `json:"inviteCode" binding:"required"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse    `json:"token"`
	User  *ProfileResponse `json:"user"`
}

// GoogleCallbackRequest carries the authorization code from the
// OAuth redirect. The invite code, when present, is claimed after
// the account exists.
type GoogleCallbackRequest struct {
	Code       string `json:"code" binding:"required"`
	InviteCode string `json:"inviteCode,omitempty"`
}

// ClaimInviteRequest attaches an invitation code to an existing
// account that signed up via OAuth.
type ClaimInviteRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
