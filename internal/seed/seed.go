package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/jhonnyduque/designfolio/internal/app/models"
	appRepos "github.com/jhonnyduque/designfolio/internal/app/repositories"
	appServices "github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/auth"
)

const (
	founderEmail    = "founder@designfolio.app"
	founderUsername = "founder"
	seedInviteCount = 10
)

// CreateDefaultData creates the founder account and an initial batch of
// early-access invitation codes if they don't exist yet. The founder
// password comes from SEED_FOUNDER_PASSWORD; without it the founder
// account is skipped entirely, which is fine for environments that
// only sign in through Google.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	profileRepo := appRepos.NewProfileRepository(dbPool)
	inviteRepo := appRepos.NewInviteRepository(dbPool)
	inviteService := appServices.NewInviteService(inviteRepo, lgr)

	password := os.Getenv("SEED_FOUNDER_PASSWORD")
	if password == "" {
		lgr.Info().Msg("SEED_FOUNDER_PASSWORD not set, skipping founder seed")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	founderID, err := profileRepo.CreateProfile(ctx, &appModels.Profile{
		Email:     founderEmail,
		Password:  hash,
		Username:  founderUsername,
		FullName:  "Designfolio",
		IsFounder: true,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) || errors.Is(err, apperrors.ErrUsernameAlreadyTaken) {
			lgr.Info().Msg("Founder account already present, skipping seed")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating founder account")
		return err
	}

	lgr.Info().Str("founderId", founderID).Msg("Founder account created")

	codes, err := inviteService.CreateCodes(ctx, founderID, appModels.InviteRoleEarly, seedInviteCount, nil)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating initial invitation codes")
		return err
	}

	for _, code := range codes {
		lgr.Info().Str("code", code.Code).Msg("Seeded invitation code")
	}

	return nil
}
