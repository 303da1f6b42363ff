package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/dberrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

var inviteColumns = []string{
	"id", "code", "role", "created_by", "claimed_by", "claimed_at", "expires_at", "created_at",
}

// InviteRepository handles invitation code database operations
type InviteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanInvite(row pgx.Row) (*models.InvitationCode, error) {
	var inv models.InvitationCode
	err := row.Scan(
		&inv.ID, &inv.Code, &inv.Role, &inv.CreatedBy,
		&inv.ClaimedBy, &inv.ClaimedAt, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateCode inserts a new invitation code.
func (r *InviteRepository) CreateCode(ctx context.Context, code string, role models.InviteRole, createdBy string, expiresAt *time.Time) (*models.InvitationCode, error) {
	sql, args, err := r.sb.Insert("invitation_codes").
		Columns("code", "role", "created_by", "expires_at").
		Values(code, role, createdBy, expiresAt).
		Suffix("RETURNING " + strings.Join(inviteColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create invite code SQL")
		return nil, fmt.Errorf("failed to build create invite code query: %w", err)
	}

	inv, err := scanInvite(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "invitation_codes_code_key") {
			// Collision on the generated code, caller retries with a new one.
			return nil, apperrors.ErrInviteCodeCollision
		}
		logger.Error().Err(err).Msg("Error executing create invite code query")
		return nil, fmt.Errorf("error creating invite code: %w", err)
	}

	return inv, nil
}

// GetByCode retrieves an invitation code by its code string.
func (r *InviteRepository) GetByCode(ctx context.Context, code string) (*models.InvitationCode, error) {
	sql, args, err := r.sb.Select(inviteColumns...).
		From("invitation_codes").
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get invite code SQL")
		return nil, fmt.Errorf("failed to build get invite code query: %w", err)
	}

	inv, err := scanInvite(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInviteCodeNotFound
		}
		logger.Error().Err(err).Msg("Error scanning invite code row")
		return nil, fmt.Errorf("error retrieving invite code: %w", err)
	}

	return inv, nil
}

// ClaimCode atomically claims an unclaimed, unexpired code for the
// given user. The conditional update guarantees that concurrent
// claims of the same code succeed for at most one caller; the loser
// gets ErrInviteCodeClaimed.
func (r *InviteRepository) ClaimCode(ctx context.Context, code string, userID string) error {
	now := time.Now()

	sql, args, err := r.sb.Update("invitation_codes").
		Set("claimed_by", userID).
		Set("claimed_at", now).
		Where(squirrel.Eq{"code": code}).
		Where("claimed_by IS NULL").
		Where(squirrel.Or{
			squirrel.Expr("expires_at IS NULL"),
			squirrel.Gt{"expires_at": now},
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building claim invite code SQL")
		return fmt.Errorf("failed to build claim invite code query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing claim invite code query")
		return fmt.Errorf("error claiming invite code: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing code from one already claimed or expired.
		if _, getErr := r.GetByCode(ctx, code); errors.Is(getErr, apperrors.ErrInviteCodeNotFound) {
			return apperrors.ErrInviteCodeNotFound
		}
		return apperrors.ErrInviteCodeClaimed
	}

	return nil
}

// ListCodes returns all invitation codes, newest first. Used by the
// founder's invite manager.
func (r *InviteRepository) ListCodes(ctx context.Context, offset uint64, limit int) ([]*models.InvitationCode, error) {
	sql, args, err := r.sb.Select(inviteColumns...).
		From("invitation_codes").
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list invite codes SQL")
		return nil, fmt.Errorf("failed to build list invite codes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list invite codes query")
		return nil, fmt.Errorf("error listing invite codes: %w", err)
	}
	defer rows.Close()

	var codes []*models.InvitationCode
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning invite code row: %w", err)
		}
		codes = append(codes, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invite code rows: %w", err)
	}

	return codes, nil
}
