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
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		for _, r := range code {
			assert.Contains(t, "ABCDEFGHJKLMNPQRSTUVWXYZ23456789", string(r))
		}
		seen[code] = true
	}
	// 50 draws from a 32^8 space should never repeat.
	assert.Len(t, seen, 50)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABCD2345", NormalizeCode("  abcd2345 "))
}

func TestCreateCodesRetriesOnCollision(t *testing.T) {
	store := newFakeInviteStore()
	store.collisions = 2
	service := NewInviteService(store, zerolog.Nop())

	codes, err := service.CreateCodes(context.Background(), "founder-1", models.InviteRoleEarly, 3, nil)
	require.NoError(t, err)
	require.Len(t, codes, 3)
	for _, c := range codes {
		assert.Equal(t, models.InviteRoleEarly, c.Role)
		assert.Equal(t, "founder-1", c.CreatedBy)
	}
}

func TestValidate(t *testing.T) {
	claimer := "someone"
	past := time.Now().Add(-time.Hour)
	store := newFakeInviteStore(
		&models.InvitationCode{Code: "GOODCODE"},
		&models.InvitationCode{Code: "TAKENONE", ClaimedBy: &claimer},
		&models.InvitationCode{Code: "OLDENTRY", ExpiresAt: &past},
	)
	service := NewInviteService(store, zerolog.Nop())
	ctx := context.Background()

	inv, err := service.Validate(ctx, "goodcode")
	require.NoError(t, err)
	assert.Equal(t, "GOODCODE", inv.Code)

	_, err = service.Validate(ctx, "TAKENONE")
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeInvalid)

	_, err = service.Validate(ctx, "OLDENTRY")
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeInvalid)

	_, err = service.Validate(ctx, strings.Repeat("X", 8))
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeInvalid)
}

func TestClaim(t *testing.T) {
	store := newFakeInviteStore(&models.InvitationCode{Code: "GOODCODE"})
	service := NewInviteService(store, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, service.Claim(ctx, "goodcode", "user-1"))
	require.NotNil(t, store.codes["GOODCODE"].ClaimedBy)
	assert.Equal(t, "user-1", *store.codes["GOODCODE"].ClaimedBy)

	// The second claimer loses.
	err := service.Claim(ctx, "GOODCODE", "user-2")
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeClaimed)

	err = service.Claim(ctx, "NOSUCHCD", "user-3")
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeInvalid)
}
