package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

// LikeRepository handles like database operations
type LikeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Toggle flips the like state for (userID, workID) and maintains the
// work's like counter in the same transaction. The unique constraint
// on (user_id, work_id) plus ON CONFLICT DO NOTHING keeps concurrent
// toggles from double-counting. Returns the resulting state and count.
func (r *LikeRepository) Toggle(ctx context.Context, tx pgx.Tx, userID, workID string) (bool, int, error) {
	insertSQL, insertArgs, err := r.sb.Insert("likes").
		Columns("user_id", "work_id").
		Values(userID, workID).
		Suffix("ON CONFLICT (user_id, work_id) DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert like SQL")
		return false, 0, fmt.Errorf("failed to build insert like query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, insertSQL, insertArgs...)
	if err != nil {
		logger.Error().Err(err).Str("workID", workID).Msg("Error executing insert like query")
		return false, 0, fmt.Errorf("error inserting like: %w", err)
	}

	liked := cmdTag.RowsAffected() == 1
	var counterExpr squirrel.Sqlizer
	if liked {
		counterExpr = squirrel.Expr("likes_count + 1")
	} else {
		// Already liked: remove the row instead.
		deleteSQL, deleteArgs, err := r.sb.Delete("likes").
			Where(squirrel.Eq{"user_id": userID, "work_id": workID}).
			ToSql()
		if err != nil {
			return false, 0, fmt.Errorf("failed to build delete like query: %w", err)
		}
		if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
			logger.Error().Err(err).Str("workID", workID).Msg("Error executing delete like query")
			return false, 0, fmt.Errorf("error deleting like: %w", err)
		}
		counterExpr = squirrel.Expr("GREATEST(likes_count - 1, 0)")
	}

	countSQL, countArgs, err := r.sb.Update("works").
		Set("likes_count", counterExpr).
		Where(squirrel.Eq{"id": workID}).
		Suffix("RETURNING likes_count").
		ToSql()
	if err != nil {
		return false, 0, fmt.Errorf("failed to build like counter query: %w", err)
	}

	var likesCount int
	if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&likesCount); err != nil {
		logger.Error().Err(err).Str("workID", workID).Msg("Error updating like counter")
		return false, 0, fmt.Errorf("error updating like counter: %w", err)
	}

	return liked, likesCount, nil
}

// IsLiked reports whether the user has liked the work.
func (r *LikeRepository) IsLiked(ctx context.Context, userID, workID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("likes").
		Where(squirrel.Eq{"user_id": userID, "work_id": workID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build is liked query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Str("workID", workID).Msg("Error checking like state")
		return false, fmt.Errorf("error checking like: %w", err)
	}

	return true, nil
}

// LikedWorkIDs returns which of the given works the user has liked.
func (r *LikeRepository) LikedWorkIDs(ctx context.Context, userID string, workIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(workIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select("work_id").
		From("likes").
		Where(squirrel.Eq{"user_id": userID, "work_id": workIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build liked work ids query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing liked work ids query")
		return nil, fmt.Errorf("error listing liked works: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var workID string
		if err := rows.Scan(&workID); err != nil {
			return nil, fmt.Errorf("error scanning liked work id: %w", err)
		}
		result[workID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liked work ids: %w", err)
	}

	return result, nil
}
