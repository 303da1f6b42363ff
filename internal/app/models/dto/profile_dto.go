package dto

import "time"

// ProfileResponse represents public profile information
type ProfileResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email,omitempty"`
	Username            string     `json:"username"`
	FullName            string     `json:"fullName"`
	AvatarURL           *string    `json:"avatarUrl,omitempty"`
	Bio                 *string    `json:"bio,omitempty"`
	School              *string    `json:"school,omitempty"`
	CareerYear          *string    `json:"careerYear,omitempty"`
	Categories          []string   `json:"categories,omitempty"`
	ThemeColor          string     `json:"themeColor"`
	ReputationLevel     int        `json:"reputationLevel"`
	IsFounder           bool       `json:"isFounder"`
	OnboardingCompleted bool       `json:"onboardingCompleted"`
	CreatedAt           time.Time  `json:"createdAt"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
}

// CompleteOnboardingRequest fills in the profile after first login.
// Bio and categories are mandatory; the username must be unique.
type CompleteOnboardingRequest struct {
	Username   string   `json:"username" binding:"required,min=3,max=30"`
	Bio        string   `json:"bio" binding:"required,min=80,max=220"`
	School     string   `json:"school,omitempty"`
	CareerYear string   `json:"careerYear,omitempty"`
	Categories []string `json:"categories" binding:"required,min=1,max=2"`
	ThemeColor string   `json:"themeColor,omitempty"`
}

// UpdateProfileRequest edits the editable profile fields. Nil pointers
// leave the current value unchanged.
type UpdateProfileRequest struct {
	Username   *string  `json:"username,omitempty" binding:"omitempty,min=3,max=30"`
	FullName   *string  `json:"fullName,omitempty"`
	Bio        *string  `json:"bio,omitempty" binding:"omitempty,min=80,max=220"`
	School     *string  `json:"school,omitempty"`
	CareerYear *string  `json:"careerYear,omitempty"`
	Categories []string `json:"categories,omitempty" binding:"omitempty,min=1,max=2"`
	ThemeColor *string  `json:"themeColor,omitempty"`
}

// UsernameAvailabilityResponse answers the live handle check during
// onboarding.
type UsernameAvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// AvatarResponse returns the stored avatar location after upload.
type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

// ToggleActiveRequest enables or disables an account (founder only).
type ToggleActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// ManagedUserResponse is the founder's view of a user row.
type ManagedUserResponse struct {
	ProfileResponse
	IsActive   bool `json:"isActive"`
	WorksCount int  `json:"worksCount"`
}
