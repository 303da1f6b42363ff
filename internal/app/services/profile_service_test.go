package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
)

var validBio = strings.Repeat("b", 80)

func newTestProfileService(profiles ...*models.Profile) (*ProfileService, *fakeProfileStore, *fakeStorage) {
	store := newFakeProfileStore(profiles...)
	uploads := &fakeStorage{}
	return NewProfileService(store, uploads, "avatars", zerolog.Nop()), store, uploads
}

func freshProfile(id string) *models.Profile {
	return &models.Profile{ID: id, Email: id + "@example.com", Username: id, FullName: "Someone", IsActive: true}
}

func onboardingRequest() *dto.CompleteOnboardingRequest {
	return &dto.CompleteOnboardingRequest{
		Username:   "Maria.Duque",
		Bio:        validBio,
		Categories: []string{"Branding", "Ilustración"},
		CareerYear: "3er año",
	}
}

func TestCompleteOnboarding(t *testing.T) {
	service, store, _ := newTestProfileService(freshProfile("user-1"))

	profile, err := service.CompleteOnboarding(context.Background(), "user-1", onboardingRequest())
	require.NoError(t, err)

	assert.Equal(t, "maria.duque", profile.Username)
	assert.True(t, profile.OnboardingCompleted)
	assert.Equal(t, "#0F0F0F", profile.ThemeColor)
	require.NotNil(t, store.profiles["user-1"].CareerYear)
	assert.Equal(t, "3er año", *store.profiles["user-1"].CareerYear)
}

func TestCompleteOnboardingValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(req *dto.CompleteOnboardingRequest)
		message string
	}{
		{"username too short", func(r *dto.CompleteOnboardingRequest) { r.Username = "ab" }, "username"},
		{"username too long", func(r *dto.CompleteOnboardingRequest) { r.Username = strings.Repeat("u", 31) }, "username"},
		{"bio too short", func(r *dto.CompleteOnboardingRequest) { r.Bio = strings.Repeat("b", 79) }, "bio"},
		{"bio too long", func(r *dto.CompleteOnboardingRequest) { r.Bio = strings.Repeat("b", 221) }, "bio"},
		{"no categories", func(r *dto.CompleteOnboardingRequest) { r.Categories = nil }, "categories"},
		{"too many categories", func(r *dto.CompleteOnboardingRequest) {
			r.Categories = []string{"Branding", "Motion", "3D"}
		}, "categories"},
		{"unknown category", func(r *dto.CompleteOnboardingRequest) { r.Categories = []string{"Cocina"} }, "category"},
		{"duplicate category", func(r *dto.CompleteOnboardingRequest) {
			r.Categories = []string{"Branding", "Branding"}
		}, "duplicate"},
		{"unknown career year", func(r *dto.CompleteOnboardingRequest) { r.CareerYear = "7mo año" }, "career year"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _ := newTestProfileService(freshProfile("user-1"))
			req := onboardingRequest()
			tc.mutate(req)

			_, err := service.CompleteOnboarding(ctx, "user-1", req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestCheckUsernameAvailable(t *testing.T) {
	taken := freshProfile("user-1")
	taken.Username = "maria"
	service, _, _ := newTestProfileService(taken)
	ctx := context.Background()

	available, err := service.CheckUsernameAvailable(ctx, "libre")
	require.NoError(t, err)
	assert.True(t, available)

	// Handles are case-insensitive: MARIA collides with maria.
	available, err = service.CheckUsernameAvailable(ctx, "  MARIA ")
	require.NoError(t, err)
	assert.False(t, available)

	// Malformed handles read as unavailable, not as errors.
	available, err = service.CheckUsernameAvailable(ctx, "ab")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestUpdateProfilePartial(t *testing.T) {
	service, store, _ := newTestProfileService(freshProfile("user-1"))

	fullName := "María D."
	profile, err := service.UpdateProfile(context.Background(), "user-1", &dto.UpdateProfileRequest{FullName: &fullName})
	require.NoError(t, err)
	assert.Equal(t, fullName, profile.FullName)
	// Untouched fields stay as they were.
	assert.Equal(t, "user-1", store.profiles["user-1"].Username)

	badBio := "too short"
	_, err = service.UpdateProfile(context.Background(), "user-1", &dto.UpdateProfileRequest{Bio: &badBio})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bio")
}

func TestUploadAvatar(t *testing.T) {
	service, store, uploads := newTestProfileService(freshProfile("user-1"))
	ctx := context.Background()

	url, err := service.UploadAvatar(ctx, "user-1", []byte("image-bytes"), "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "avatars/user-1/avatar-")
	require.NotNil(t, store.profiles["user-1"].AvatarURL)
	assert.Equal(t, url, *store.profiles["user-1"].AvatarURL)
	require.Len(t, uploads.uploads, 1)
	assert.Equal(t, "avatars", uploads.uploads[0].Bucket)
	// The bucket never leaks into the object key.
	assert.True(t, strings.HasPrefix(uploads.uploads[0].Key, "user-1/avatar-"))

	_, err = service.UploadAvatar(ctx, "user-1", make([]byte, models.AvatarMaxBytes+1), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2MB")

	_, err = service.UploadAvatar(ctx, "user-1", []byte("gif-bytes"), "image/gif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JPEG")

	_, err = service.UploadAvatar(ctx, "user-1", nil, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestToggleActive(t *testing.T) {
	member := freshProfile("user-1")
	founder := freshProfile("founder-1")
	founder.IsFounder = true
	service, store, _ := newTestProfileService(member, founder)
	ctx := context.Background()

	require.NoError(t, service.ToggleActive(ctx, "user-1", false))
	assert.False(t, store.profiles["user-1"].IsActive)
	require.NoError(t, service.ToggleActive(ctx, "user-1", true))
	assert.True(t, store.profiles["user-1"].IsActive)

	err := service.ToggleActive(ctx, "founder-1", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "founder")
	assert.True(t, store.profiles["founder-1"].IsActive)
}
