package models

import (
	"time"
)

// Profile defines the profile model based on the 'profiles' table.
// It carries both the identity fields created at signup and the
// onboarding fields filled in afterwards.
type Profile struct {
	ID                  string     `json:"id" db:"id"`
	Email               string     `json:"email" db:"email"`
	Password            string     `json:"-" db:"password_hash"` // Empty for OAuth-only accounts
	GoogleSub           *string    `json:"-" db:"google_sub"`
	Username            string     `json:"username" db:"username"`
	FullName            string     `json:"fullName" db:"full_name"`
	AvatarURL           *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	Bio                 *string    `json:"bio,omitempty" db:"bio"`
	School              *string    `json:"school,omitempty" db:"school"`
	CareerYear          *string    `json:"careerYear,omitempty" db:"career_year"`
	Categories          []string   `json:"categories,omitempty" db:"categories"`
	ThemeColor          string     `json:"themeColor" db:"theme_color"`
	ReputationLevel     int        `json:"reputationLevel" db:"reputation_level"`
	IsFounder           bool       `json:"isFounder" db:"is_founder"`
	IsActive            bool       `json:"isActive" db:"is_active"`
	OnboardingCompleted bool       `json:"onboardingCompleted" db:"onboarding_completed"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
