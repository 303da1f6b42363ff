package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/storage"
)

var avatarMimeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ProfileService handles profile operations
type ProfileService struct {
	profileRepo   ProfileStore
	store         storage.Storage
	avatarsBucket string
	logger        zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo ProfileStore, store storage.Storage, avatarsBucket string, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		profileRepo:   profileRepo,
		store:         store,
		avatarsBucket: avatarsBucket,
		logger:        logger,
	}
}

// GetByID retrieves a profile by id.
func (s *ProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return s.profileRepo.GetProfileByID(ctx, id)
}

// GetByUsername retrieves a profile by username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.profileRepo.GetProfileByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
}

// CheckUsernameAvailable reports whether a handle can still be taken.
// Malformed handles read as unavailable rather than erroring, the
// client checks on every keystroke.
func (s *ProfileService) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < models.UsernameMin || len(username) > models.UsernameMax {
		return false, nil
	}

	_, err := s.profileRepo.GetProfileByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return true, nil
		}
		return false, err
	}

	return false, nil
}

func validateCategories(categories []string, allowed []string, min, max int) error {
	if len(categories) < min || len(categories) > max {
		return apperrors.NewBadRequestError(fmt.Sprintf("between %d and %d categories required", min, max))
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		allowedSet[c] = true
	}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if !allowedSet[c] {
			return apperrors.NewBadRequestError("unknown category: " + c)
		}
		if seen[c] {
			return apperrors.NewBadRequestError("duplicate category: " + c)
		}
		seen[c] = true
	}
	return nil
}

func validateCareerYear(careerYear string) error {
	for _, y := range models.CareerYears {
		if y == careerYear {
			return nil
		}
	}
	return apperrors.NewBadRequestError("unknown career year: " + careerYear)
}

// CompleteOnboarding fills in the profile after first login. The
// username becomes the public handle and must be unique.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID string, req *dto.CompleteOnboardingRequest) (*models.Profile, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < models.UsernameMin || len(username) > models.UsernameMax {
		return nil, apperrors.NewBadRequestError("username must be 3 to 30 characters")
	}

	bio := strings.TrimSpace(req.Bio)
	if len(bio) < models.BioMin || len(bio) > models.BioMax {
		return nil, apperrors.NewBadRequestError("bio must be 80 to 220 characters")
	}

	if err := validateCategories(req.Categories, models.ProfileCategories, models.CategoriesMin, models.CategoriesMax); err != nil {
		return nil, err
	}

	var school, careerYear *string
	if v := strings.TrimSpace(req.School); v != "" {
		school = &v
	}
	if v := strings.TrimSpace(req.CareerYear); v != "" {
		if err := validateCareerYear(v); err != nil {
			return nil, err
		}
		careerYear = &v
	}

	themeColor := req.ThemeColor
	if themeColor == "" {
		themeColor = "#0F0F0F"
	}

	if err := s.profileRepo.CompleteOnboarding(ctx, userID, username, bio, school, careerYear, req.Categories, themeColor); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", userID).Str("username", username).Msg("Onboarding completed")
	return s.profileRepo.GetProfileByID(ctx, userID)
}

// UpdateProfile applies a partial profile edit.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	updates := make(map[string]interface{})

	if req.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*req.Username))
		if len(username) < models.UsernameMin || len(username) > models.UsernameMax {
			return nil, apperrors.NewBadRequestError("username must be 3 to 30 characters")
		}
		updates["username"] = username
	}
	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, apperrors.NewBadRequestError("full name cannot be empty")
		}
		updates["full_name"] = fullName
	}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if len(bio) < models.BioMin || len(bio) > models.BioMax {
			return nil, apperrors.NewBadRequestError("bio must be 80 to 220 characters")
		}
		updates["bio"] = bio
	}
	if req.School != nil {
		updates["school"] = strings.TrimSpace(*req.School)
	}
	if req.CareerYear != nil {
		if *req.CareerYear != "" {
			if err := validateCareerYear(*req.CareerYear); err != nil {
				return nil, err
			}
		}
		updates["career_year"] = *req.CareerYear
	}
	if req.Categories != nil {
		if err := validateCategories(req.Categories, models.ProfileCategories, models.CategoriesMin, models.CategoriesMax); err != nil {
			return nil, err
		}
		updates["categories"] = req.Categories
	}
	if req.ThemeColor != nil {
		updates["theme_color"] = *req.ThemeColor
	}

	if err := s.profileRepo.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, err
	}

	return s.profileRepo.GetProfileByID(ctx, userID)
}

// UploadAvatar validates and stores a new avatar, then points the
// profile at it. Keys are timestamped so a stale CDN entry never
// shadows a new upload.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, data []byte, mime string) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewBadRequestError("avatar file is empty")
	}
	if len(data) > models.AvatarMaxBytes {
		return "", apperrors.NewBadRequestError("avatar exceeds the 2MB limit")
	}
	ext, ok := avatarMimeExtensions[mime]
	if !ok {
		return "", apperrors.NewBadRequestError("avatar must be JPEG, PNG or WebP")
	}

	key := fmt.Sprintf("%s/avatar-%d.%s", userID, time.Now().UnixMilli(), ext)
	resp, err := s.store.Upload(ctx, &storage.UploadObject{
		Bucket: s.avatarsBucket,
		Key:    key,
		Mime:   mime,
		Data:   data,
	})
	if err != nil {
		return "", fmt.Errorf("avatar upload failed: %w", err)
	}

	if err := s.profileRepo.UpdateAvatarURL(ctx, userID, resp.URL); err != nil {
		return "", err
	}

	s.logger.Info().Str("userID", userID).Str("key", key).Msg("Avatar updated")
	return resp.URL, nil
}

// ListUsers returns a page of all users with their work counts. Used
// by the founder's user manager.
func (s *ProfileService) ListUsers(ctx context.Context, offset uint64, limit int) ([]*models.Profile, map[string]int, error) {
	return s.profileRepo.ListProfiles(ctx, offset, limit)
}

// ToggleActive enables or disables an account. Disabled accounts
// cannot log in or refresh their sessions.
func (s *ProfileService) ToggleActive(ctx context.Context, targetID string, active bool) error {
	target, err := s.profileRepo.GetProfileByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsFounder {
		return apperrors.NewForbiddenError("founder accounts cannot be disabled")
	}

	if err := s.profileRepo.SetActive(ctx, targetID, active); err != nil {
		return err
	}

	s.logger.Info().Str("targetID", targetID).Bool("active", active).Msg("Account active state changed")
	return nil
}
