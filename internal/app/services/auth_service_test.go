package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/auth"
)

// racingInviteStore simulates a concurrent signup winning the claim
// between validation and the claim itself.
type racingInviteStore struct {
	*fakeInviteStore
}

func (s *racingInviteStore) ClaimCode(_ context.Context, _ string, _ string) error {
	return apperrors.ErrInviteCodeClaimed
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

type authFixture struct {
	service    *AuthService
	profiles   *fakeProfileStore
	tokens     *fakeTokenStore
	resets     *fakeResetTokenStore
	inviteData *fakeInviteStore
}

func newAuthFixture(invites InviteStore) *authFixture {
	f := &authFixture{
		profiles: newFakeProfileStore(),
		tokens:   newFakeTokenStore(),
		resets:   newFakeResetTokenStore(),
	}
	var inviteData *fakeInviteStore
	switch v := invites.(type) {
	case *fakeInviteStore:
		inviteData = v
	case *racingInviteStore:
		inviteData = v.fakeInviteStore
	}
	f.inviteData = inviteData
	inviteService := NewInviteService(invites, zerolog.Nop())
	f.service = NewAuthService(f.profiles, f.tokens, f.resets, inviteService, testJWTService(), nil, zerolog.Nop())
	return f
}

func signupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		Email:      "Maria@Example.com",
		Password:   "sup3r-secret",
		FullName:   "María Duque",
		InviteCode: "GOODCODE",
	}
}

func TestSignup(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"}))

	profile, tokens, err := f.service.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", profile.Email)
	assert.True(t, strings.HasPrefix(profile.Username, "maria-"))
	assert.NotEqual(t, "sup3r-secret", profile.Password)

	require.NotNil(t, f.inviteData.codes["GOODCODE"].ClaimedBy)
	assert.Equal(t, profile.ID, *f.inviteData.codes["GOODCODE"].ClaimedBy)

	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Contains(t, f.tokens.tokens, tokens.RefreshToken)
}

func TestSignupValidation(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"}))
	ctx := context.Background()

	req := signupRequest()
	req.Email = "not-an-email"
	_, _, err := f.service.Signup(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)

	req = signupRequest()
	req.Password = "short"
	_, _, err = f.service.Signup(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	req = signupRequest()
	req.FullName = "  "
	_, _, err = f.service.Signup(ctx, req)
	assert.Error(t, err)
}

func TestSignupDeadInviteFailsBeforeAccountExists(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore())

	_, _, err := f.service.Signup(context.Background(), signupRequest())
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeInvalid)
	assert.Empty(t, f.profiles.profiles)
}

func TestSignupLosesClaimRace(t *testing.T) {
	f := newAuthFixture(&racingInviteStore{newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"})})

	_, _, err := f.service.Signup(context.Background(), signupRequest())
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeClaimed)
	// The account survives without an invite; the user retries through
	// the claim endpoint with a fresh code.
	assert.Len(t, f.profiles.profiles, 1)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"}))
	ctx := context.Background()

	created, _, err := f.service.Signup(ctx, signupRequest())
	require.NoError(t, err)

	profile, tokens, err := f.service.Login(ctx, "maria@example.com", "sup3r-secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, profile.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotNil(t, profile.LastLoginAt)

	_, _, err = f.service.Login(ctx, "maria@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = f.service.Login(ctx, "nobody@example.com", "sup3r-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"}))
	ctx := context.Background()

	profile, _, err := f.service.Signup(ctx, signupRequest())
	require.NoError(t, err)
	require.NoError(t, f.profiles.SetActive(ctx, profile.ID, false))

	_, _, err = f.service.Login(ctx, "maria@example.com", "sup3r-secret")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestLoginOAuthOnlyAccount(t *testing.T) {
	sub := "google-sub-1"
	f := newAuthFixture(newFakeInviteStore())
	_, err := f.profiles.CreateProfile(context.Background(), &models.Profile{
		Email:     "oauth@example.com",
		GoogleSub: &sub,
		Username:  "oauthy",
		FullName:  "OAuth Only",
	})
	require.NoError(t, err)

	_, _, err = f.service.Login(context.Background(), "oauth@example.com", "whatever-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"}))
	ctx := context.Background()

	_, tokens, err := f.service.Signup(ctx, signupRequest())
	require.NoError(t, err)

	rotated, err := f.service.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The old token died with the rotation.
	_, err = f.service.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestLogoutRevokesAllTokens(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"}))
	ctx := context.Background()

	profile, tokens, err := f.service.Signup(ctx, signupRequest())
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, profile.ID))

	_, err = f.service.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestPasswordReset(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"}))
	ctx := context.Background()

	_, tokens, err := f.service.Signup(ctx, signupRequest())
	require.NoError(t, err)

	token, err := f.service.ForgotPassword(ctx, "maria@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Unknown emails come back empty without an error.
	ghost, err := f.service.ForgotPassword(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, ghost)

	require.NoError(t, f.service.ResetPassword(ctx, token, "new-password-9"))

	// New password works, old sessions are dead.
	_, _, err = f.service.Login(ctx, "maria@example.com", "new-password-9")
	require.NoError(t, err)
	_, err = f.service.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// A reset token is single use.
	err = f.service.ResetPassword(ctx, token, "another-pass-9")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestGoogleDisabledWithoutConfig(t *testing.T) {
	f := newAuthFixture(newFakeInviteStore())

	_, err := f.service.GoogleAuthURL("state")
	assert.Error(t, err)

	_, _, err = f.service.GoogleLogin(context.Background(), &dto.GoogleCallbackRequest{Code: "code"})
	assert.Error(t, err)
}
