package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

// Invite code alphabet. Ambiguous characters (0, O, 1, I) are excluded
// so codes survive being read aloud or handwritten.
const (
	inviteCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeLength  = 8

	// Retries on the (unlikely) unique collision of a generated code.
	inviteCodeMaxAttempts = 5
)

// InviteService handles invitation code operations
type InviteService struct {
	inviteRepo InviteStore
	logger     zerolog.Logger
}

// NewInviteService creates a new InviteService
func NewInviteService(inviteRepo InviteStore, logger zerolog.Logger) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		logger:     logger,
	}
}

// GenerateCode produces a random code from the invite alphabet.
func GenerateCode() (string, error) {
	var sb strings.Builder
	sb.Grow(inviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeCharset)))
	for i := 0; i < inviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		sb.WriteByte(inviteCodeCharset[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeCode uppercases and trims a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateCodes mints count new invitation codes with the given role.
func (s *InviteService) CreateCodes(ctx context.Context, createdBy string, role models.InviteRole, count int, expiresAt *time.Time) ([]*models.InvitationCode, error) {
	if count <= 0 {
		count = 1
	}

	codes := make([]*models.InvitationCode, 0, count)
	for i := 0; i < count; i++ {
		var created *models.InvitationCode
		var err error
		for attempt := 0; attempt < inviteCodeMaxAttempts; attempt++ {
			var code string
			code, err = GenerateCode()
			if err != nil {
				return nil, err
			}
			created, err = s.inviteRepo.CreateCode(ctx, code, role, createdBy, expiresAt)
			if err == nil {
				break
			}
			if !errors.Is(err, apperrors.ErrInviteCodeCollision) {
				return nil, err
			}
			s.logger.Warn().Int("attempt", attempt+1).Msg("Invite code collision, regenerating")
		}
		if err != nil {
			return nil, err
		}
		codes = append(codes, created)
	}

	s.logger.Info().Str("createdBy", createdBy).Str("role", string(role)).Int("count", len(codes)).Msg("Invitation codes created")
	return codes, nil
}

// Validate reports whether a code can still be claimed. A positive
// answer is advisory only: the claim itself can still lose the race
// against a concurrent signup.
func (s *InviteService) Validate(ctx context.Context, code string) (*models.InvitationCode, error) {
	inv, err := s.inviteRepo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, apperrors.ErrInviteCodeNotFound) {
			return nil, apperrors.ErrInviteCodeInvalid
		}
		return nil, err
	}

	if inv.ClaimedBy != nil {
		return nil, apperrors.ErrInviteCodeInvalid
	}
	if inv.ExpiresAt != nil && inv.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrInviteCodeInvalid
	}

	return inv, nil
}

// Claim atomically claims a code for the user. At most one concurrent
// claimer succeeds.
func (s *InviteService) Claim(ctx context.Context, code string, userID string) error {
	err := s.inviteRepo.ClaimCode(ctx, NormalizeCode(code), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInviteCodeNotFound) {
			return apperrors.ErrInviteCodeInvalid
		}
		return err
	}

	s.logger.Info().Str("userID", userID).Msg("Invitation code claimed")
	return nil
}

// ListCodes returns a page of codes for the founder's invite manager.
func (s *InviteService) ListCodes(ctx context.Context, offset uint64, limit int) ([]*models.InvitationCode, error) {
	return s.inviteRepo.ListCodes(ctx, offset, limit)
}
