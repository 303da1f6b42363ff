package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

// PasswordResetRepository handles password reset token operations
type PasswordResetRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateToken stores a reset token for the user.
func (r *PasswordResetRepository) CreateToken(ctx context.Context, token string, userID string, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("password_reset_tokens").
		Columns("token", "user_id", "expires_at").
		Values(token, userID, expiresAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create reset token SQL")
		return fmt.Errorf("failed to build create reset token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing create reset token query")
		return fmt.Errorf("error creating reset token: %w", err)
	}

	return nil
}

// ConsumeToken validates a reset token and marks it used. A token is
// single use and expires after its lifetime.
func (r *PasswordResetRepository) ConsumeToken(ctx context.Context, token string) (string, error) {
	sql, args, err := r.sb.Update("password_reset_tokens").
		Set("used_at", time.Now()).
		Where(squirrel.Eq{"token": token}).
		Where("used_at IS NULL").
		Where(squirrel.Gt{"expires_at": time.Now()}).
		Suffix("RETURNING user_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building consume reset token SQL")
		return "", fmt.Errorf("failed to build consume reset token query: %w", err)
	}

	var userID string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Msg("Error executing consume reset token query")
		return "", fmt.Errorf("error consuming reset token: %w", err)
	}

	return userID, nil
}

// CleanupExpiredTokens removes expired and used reset tokens.
func (r *PasswordResetRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("password_reset_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": time.Now()},
			squirrel.Expr("used_at IS NOT NULL"),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup reset tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup reset tokens query")
		return 0, fmt.Errorf("error cleaning up reset tokens: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
