package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/auth"
	"github.com/jhonnyduque/designfolio/internal/pkg/oauth"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const passwordResetTokenTTL = 1 * time.Hour

// GoogleExchanger turns an authorization code into a verified Google
// identity. Satisfied by oauth.GoogleAuthenticator.
type GoogleExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.GoogleUser, error)
}

// AuthService handles authentication operations
type AuthService struct {
	profileRepo ProfileStore
	tokenRepo   TokenStore
	resetRepo   ResetTokenStore
	invites     *InviteService
	jwtService  *auth.JWTService
	google      GoogleExchanger
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	profileRepo ProfileStore,
	tokenRepo TokenStore,
	resetRepo ResetTokenStore,
	invites *InviteService,
	jwtService *auth.JWTService,
	google GoogleExchanger,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		resetRepo:   resetRepo,
		invites:     invites,
		jwtService:  jwtService,
		google:      google,
		logger:      logger,
	}
}

func (s *AuthService) validateEmail(email string) error {
	if strings.TrimSpace(email) == "" || !emailRegex.MatchString(email) {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

func (s *AuthService) validatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.ErrInvalidPassword
	}
	return nil
}

// provisionalUsername derives a placeholder username from the email
// local part. The real username is chosen during onboarding.
func provisionalUsername(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	base := sb.String()
	if len(base) > 20 {
		base = base[:20]
	}
	if base == "" {
		base = "designer"
	}
	suffix := strings.ToLower(uuid.New().String()[:6])
	return base + "-" + suffix
}

// Signup registers an email/password account behind an invitation
// code. The code is validated first so an obviously dead code fails
// before any account exists; the claim itself happens after the
// account is created and is the single atomic gate. If a concurrent
// signup wins the claim race the account stays behind unclaimed and
// the caller gets the race error.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*models.Profile, *dto.TokenResponse, error) {
	if err := s.validateEmail(req.Email); err != nil {
		return nil, nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, nil, apperrors.NewBadRequestError("full name is required")
	}

	if _, err := s.invites.Validate(ctx, req.InviteCode); err != nil {
		return nil, nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashed,
		Username: provisionalUsername(req.Email),
		FullName: strings.TrimSpace(req.FullName),
	}

	id, err := s.profileRepo.CreateProfile(ctx, profile)
	if err != nil {
		return nil, nil, err
	}
	profile.ID = id

	if err := s.invites.Claim(ctx, req.InviteCode, id); err != nil {
		// The account exists but holds no invite. It cannot be rolled
		// back safely here; the user retries with another code via the
		// claim endpoint.
		s.logger.Warn().Err(err).Str("userID", id).Msg("Invite claim lost after signup")
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("userID", id).Msg("Account registered")
	return profile, tokens, nil
}

// Login authenticates an email/password account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, *dto.TokenResponse, error) {
	profile, err := s.profileRepo.GetProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if profile.Password == "" {
		// OAuth-only account.
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(profile.Password, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !profile.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	if err := s.profileRepo.UpdateLastLogin(ctx, profile.ID); err != nil {
		s.logger.Warn().Err(err).Str("userID", profile.ID).Msg("Failed to record last login")
	}

	return profile, tokens, nil
}

// GoogleAuthURL returns the Google consent page URL for the state.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", apperrors.NewBadRequestError("google sign-in is not configured")
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleLogin exchanges the OAuth code, then finds or creates the
// matching account. A fresh OAuth account has no invite; when the
// request carries a code the claim is attempted best effort and a
// failure is swallowed, the user can still claim later through the
// claim endpoint.
func (s *AuthService) GoogleLogin(ctx context.Context, req *dto.GoogleCallbackRequest) (*models.Profile, *dto.TokenResponse, error) {
	if s.google == nil {
		return nil, nil, apperrors.NewBadRequestError("google sign-in is not configured")
	}

	gu, err := s.google.Exchange(ctx, req.Code)
	if err != nil {
		return nil, nil, fmt.Errorf("google exchange failed: %w", err)
	}

	profile, err := s.profileRepo.GetProfileByGoogleSub(ctx, gu.Sub)
	if errors.Is(err, apperrors.ErrProfileNotFound) {
		// Link by email when the account signed up with a password first.
		profile, err = s.profileRepo.GetProfileByEmail(ctx, strings.ToLower(gu.Email))
		if err == nil {
			if linkErr := s.profileRepo.UpdateProfile(ctx, profile.ID, map[string]interface{}{"google_sub": gu.Sub}); linkErr != nil {
				s.logger.Warn().Err(linkErr).Str("userID", profile.ID).Msg("Failed to link Google identity")
			}
		}
	}
	if errors.Is(err, apperrors.ErrProfileNotFound) {
		profile, err = s.createGoogleProfile(ctx, gu)
	}
	if err != nil {
		return nil, nil, err
	}

	if !profile.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if req.InviteCode != "" {
		if claimErr := s.invites.Claim(ctx, req.InviteCode, profile.ID); claimErr != nil {
			s.logger.Warn().Err(claimErr).Str("userID", profile.ID).Msg("Deferred invite claim failed")
		}
	}

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	if err := s.profileRepo.UpdateLastLogin(ctx, profile.ID); err != nil {
		s.logger.Warn().Err(err).Str("userID", profile.ID).Msg("Failed to record last login")
	}

	return profile, tokens, nil
}

func (s *AuthService) createGoogleProfile(ctx context.Context, gu *oauth.GoogleUser) (*models.Profile, error) {
	var avatar *string
	if gu.Picture != "" {
		avatar = &gu.Picture
	}
	sub := gu.Sub
	profile := &models.Profile{
		Email:     strings.ToLower(gu.Email),
		GoogleSub: &sub,
		Username:  provisionalUsername(gu.Email),
		FullName:  gu.Name,
		AvatarURL: avatar,
	}

	id, err := s.profileRepo.CreateProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	profile.ID = id
	profile.IsActive = true

	s.logger.Info().Str("userID", id).Msg("Account registered via Google")
	return profile, nil
}

// ClaimInvite attaches an invitation code to an existing account.
func (s *AuthService) ClaimInvite(ctx context.Context, userID, code string) error {
	return s.invites.Claim(ctx, code, userID)
}

// RefreshToken rotates a refresh token into a fresh token pair.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	// Rotate: the old token dies with the new issue.
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Str("userID", userID).Msg("Failed to revoke rotated refresh token")
	}

	return s.issueTokens(ctx, profile)
}

// Logout revokes every active refresh token of the user.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}

// ForgotPassword creates a reset token for the account. The response
// never reveals whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	profile, err := s.profileRepo.GetProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return "", nil
		}
		return "", err
	}

	token := uuid.New().String()
	if err := s.resetRepo.CreateToken(ctx, token, profile.ID, time.Now().Add(passwordResetTokenTTL)); err != nil {
		return "", err
	}

	s.logger.Info().Str("userID", profile.ID).Msg("Password reset token issued")
	return token, nil
}

// ResetPassword consumes a reset token and replaces the password. All
// refresh tokens are revoked so stolen sessions die with the reset.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}

	userID, err := s.resetRepo.ConsumeToken(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.profileRepo.UpdatePasswordHash(ctx, userID, hashed); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("userID", userID).Msg("Failed to revoke tokens after password reset")
	}

	s.logger.Info().Str("userID", userID).Msg("Password reset completed")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, profile *models.Profile) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(profile.ID, profile.Username, profile.IsFounder)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, profile.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}
