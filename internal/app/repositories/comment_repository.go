package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

var commentColumns = []string{
	"id", "user_id", "work_id", "content", "categories", "is_valid", "created_at",
}

// CommentRepository handles comment database operations
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.UserID, &c.WorkID, &c.Content, &c.Categories, &c.IsValid, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment and bumps the work's comment counter
// in one transaction.
func (r *CommentRepository) CreateComment(ctx context.Context, tx pgx.Tx, c *models.Comment) (*models.Comment, error) {
	sql, args, err := r.sb.Insert("comments").
		Columns("user_id", "work_id", "content", "categories", "is_valid").
		Values(c.UserID, c.WorkID, c.Content, c.Categories, c.IsValid).
		Suffix("RETURNING " + strings.Join(commentColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create comment SQL")
		return nil, fmt.Errorf("failed to build create comment query: %w", err)
	}

	created, err := scanComment(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Str("workID", c.WorkID).Msg("Error executing create comment query")
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	countSQL, countArgs, err := r.sb.Update("works").
		Set("comments_count", squirrel.Expr("comments_count + 1")).
		Where(squirrel.Eq{"id": c.WorkID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build comment counter query: %w", err)
	}
	if _, err := tx.Exec(ctx, countSQL, countArgs...); err != nil {
		logger.Error().Err(err).Str("workID", c.WorkID).Msg("Error bumping comment counter")
		return nil, fmt.Errorf("error updating comment counter: %w", err)
	}

	return created, nil
}

// GetCommentByID retrieves a comment by id.
func (r *CommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	sql, args, err := r.sb.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get comment SQL")
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}

	comment, err := scanComment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("comment not found")
		}
		logger.Error().Err(err).Str("commentID", id).Msg("Error scanning comment row")
		return nil, fmt.Errorf("error retrieving comment: %w", err)
	}

	return comment, nil
}

func (r *CommentRepository) buildListCommentsSQL(workID string) (string, []interface{}, error) {
	return r.sb.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"work_id": workID}).
		OrderBy("created_at DESC").
		ToSql()
}

// ListCommentsByWork returns a work's comments newest first.
func (r *CommentRepository) ListCommentsByWork(ctx context.Context, workID string) ([]*models.Comment, error) {
	sql, args, err := r.buildListCommentsSQL(workID)
	if err != nil {
		logger.Error().Err(err).Msg("Error building list comments SQL")
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("workID", workID).Msg("Error executing list comments query")
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

// DeleteComment removes a comment owned by the user and decrements the
// work's comment counter in one transaction.
func (r *CommentRepository) DeleteComment(ctx context.Context, tx pgx.Tx, id string, userID string) error {
	sql, args, err := r.sb.Delete("comments").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING work_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete comment SQL")
		return fmt.Errorf("failed to build delete comment query: %w", err)
	}

	var workID string
	err = tx.QueryRow(ctx, sql, args...).Scan(&workID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewResourceNotFoundError("comment not found")
		}
		logger.Error().Err(err).Str("commentID", id).Msg("Error executing delete comment query")
		return fmt.Errorf("error deleting comment: %w", err)
	}

	countSQL, countArgs, err := r.sb.Update("works").
		Set("comments_count", squirrel.Expr("GREATEST(comments_count - 1, 0)")).
		Where(squirrel.Eq{"id": workID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build comment counter query: %w", err)
	}
	if _, err := tx.Exec(ctx, countSQL, countArgs...); err != nil {
		logger.Error().Err(err).Str("workID", workID).Msg("Error decrementing comment counter")
		return fmt.Errorf("error updating comment counter: %w", err)
	}

	return nil
}
