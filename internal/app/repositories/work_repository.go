package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

var workColumns = []string{
	"id", "author_id", "title", "description", "category", "tags", "images",
	"moderation_status", "archived", "likes_count", "comments_count",
	"views_count", "created_at", "published_at",
}

// WorkRepository handles work database operations
type WorkRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewWorkRepository creates a new WorkRepository
func NewWorkRepository(db *pgxpool.Pool) *WorkRepository {
	return &WorkRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanWork(row pgx.Row) (*models.Work, error) {
	var w models.Work
	var imagesJSON []byte
	err := row.Scan(
		&w.ID, &w.AuthorID, &w.Title, &w.Description, &w.Category, &w.Tags,
		&imagesJSON, &w.ModerationStatus, &w.Archived, &w.LikesCount,
		&w.CommentsCount, &w.ViewsCount, &w.CreatedAt, &w.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &w.Images); err != nil {
			return nil, fmt.Errorf("error decoding work images: %w", err)
		}
	}
	return &w, nil
}

// CreateWork inserts a new work in pending_review state and returns it.
func (r *WorkRepository) CreateWork(ctx context.Context, w *models.Work) (*models.Work, error) {
	imagesJSON, err := json.Marshal(w.Images)
	if err != nil {
		return nil, fmt.Errorf("error encoding work images: %w", err)
	}

	// The id is generated by the caller so image keys can embed it
	// before the row exists.
	sql, args, err := r.sb.Insert("works").
		Columns("id", "author_id", "title", "description", "category", "tags", "images", "moderation_status").
		Values(w.ID, w.AuthorID, w.Title, w.Description, w.Category, w.Tags, imagesJSON, models.ModerationPending).
		Suffix("RETURNING " + strings.Join(workColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create work SQL")
		return nil, fmt.Errorf("failed to build create work query: %w", err)
	}

	created, err := scanWork(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Str("authorID", w.AuthorID).Msg("Error executing create work query")
		return nil, fmt.Errorf("error creating work: %w", err)
	}

	return created, nil
}

// GetWorkByID retrieves a work by id.
func (r *WorkRepository) GetWorkByID(ctx context.Context, id string) (*models.Work, error) {
	sql, args, err := r.sb.Select(workColumns...).
		From("works").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get work SQL")
		return nil, fmt.Errorf("failed to build get work query: %w", err)
	}

	work, err := scanWork(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWorkNotFound
		}
		logger.Error().Err(err).Str("workID", id).Msg("Error scanning work row")
		return nil, fmt.Errorf("error retrieving work: %w", err)
	}

	return work, nil
}

// ListWorksByAuthor returns all works of one author, newest first.
// When publicOnly is set only approved, unarchived works are returned.
func (r *WorkRepository) ListWorksByAuthor(ctx context.Context, authorID string, publicOnly bool) ([]*models.Work, error) {
	builder := r.sb.Select(workColumns...).
		From("works").
		Where(squirrel.Eq{"author_id": authorID}).
		OrderBy("created_at DESC")
	if publicOnly {
		builder = builder.Where(squirrel.Eq{
			"moderation_status": models.ModerationApproved,
			"archived":          false,
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list works by author SQL")
		return nil, fmt.Errorf("failed to build list works query: %w", err)
	}

	return r.queryWorks(ctx, sql, args)
}

// ListAllWorks returns a page of every author's works for the founder
// manager, newest first. Filter narrows to approved or archived works;
// anything else lists them all.
func (r *WorkRepository) ListAllWorks(ctx context.Context, filter string, offset uint64, limit int) ([]*models.Work, error) {
	builder := r.sb.Select(workColumns...).
		From("works").
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit))

	switch filter {
	case models.WorksFilterApproved:
		builder = builder.Where(squirrel.Eq{"moderation_status": models.ModerationApproved, "archived": false})
	case models.WorksFilterArchived:
		builder = builder.Where(squirrel.Eq{"archived": true})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list all works SQL")
		return nil, fmt.Errorf("failed to build list all works query: %w", err)
	}

	return r.queryWorks(ctx, sql, args)
}

// UpdateWork applies column updates to a work owned by the author.
func (r *WorkRepository) UpdateWork(ctx context.Context, id string, authorID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	builder := r.sb.Update("works").
		Where(squirrel.Eq{"id": id, "author_id": authorID})
	for col, val := range updates {
		builder = builder.Set(col, val)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update work SQL")
		return fmt.Errorf("failed to build update work query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("workID", id).Msg("Error executing update work query")
		return fmt.Errorf("error updating work: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWorkNotFound
	}

	return nil
}

// SetArchived hides or restores a work on its author's page.
func (r *WorkRepository) SetArchived(ctx context.Context, id string, authorID string, archived bool) error {
	return r.UpdateWork(ctx, id, authorID, map[string]interface{}{"archived": archived})
}

// AdminSetArchived archives or restores any author's work. Founder
// tooling only, no ownership scope.
func (r *WorkRepository) AdminSetArchived(ctx context.Context, id string, archived bool) error {
	sql, args, err := r.sb.Update("works").
		Set("archived", archived).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building admin archive work SQL")
		return fmt.Errorf("failed to build admin archive query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("workID", id).Msg("Error executing admin archive work query")
		return fmt.Errorf("error archiving work: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWorkNotFound
	}

	return nil
}

// DeleteWork removes a work owned by the author. Comments, likes and
// moderation logs cascade at the schema level.
func (r *WorkRepository) DeleteWork(ctx context.Context, id string, authorID string) error {
	sql, args, err := r.sb.Delete("works").
		Where(squirrel.Eq{"id": id, "author_id": authorID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete work SQL")
		return fmt.Errorf("failed to build delete work query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("workID", id).Msg("Error executing delete work query")
		return fmt.Errorf("error deleting work: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWorkNotFound
	}

	return nil
}

// AdminDeleteWork removes any author's work. Founder tooling only.
func (r *WorkRepository) AdminDeleteWork(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("works").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building admin delete work SQL")
		return fmt.Errorf("failed to build admin delete query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("workID", id).Msg("Error executing admin delete work query")
		return fmt.Errorf("error deleting work: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWorkNotFound
	}

	return nil
}

// ResubmitWork moves a rejected work back to pending_review.
func (r *WorkRepository) ResubmitWork(ctx context.Context, id string, authorID string) error {
	sql, args, err := r.sb.Update("works").
		Set("moderation_status", models.ModerationPending).
		Where(squirrel.Eq{"id": id, "author_id": authorID, "moderation_status": models.ModerationRejected}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building resubmit work SQL")
		return fmt.Errorf("failed to build resubmit work query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("workID", id).Msg("Error executing resubmit work query")
		return fmt.Errorf("error resubmitting work: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWorkNotPending
	}

	return nil
}

// IncrementViews bumps the view counter. Best effort, callers log and
// move on when it fails.
func (r *WorkRepository) IncrementViews(ctx context.Context, id string) error {
	sql, args, err := r.sb.Update("works").
		Set("views_count", squirrel.Expr("views_count + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build increment views query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error incrementing views: %w", err)
	}

	return nil
}

// ApplyModeration transitions a pending work to approved or rejected.
// The status guard in the WHERE clause makes the transition happen at
// most once even when two moderators act on the same work; the loser
// gets ErrWorkNotPending. Approval stamps published_at.
func (r *WorkRepository) ApplyModeration(ctx context.Context, tx pgx.Tx, workID string, action models.ModerationAction) error {
	var status models.ModerationStatus
	builder := r.sb.Update("works")
	if action == models.ActionApprove {
		status = models.ModerationApproved
		builder = builder.Set("published_at", time.Now())
	} else {
		status = models.ModerationRejected
	}

	sql, args, err := builder.
		Set("moderation_status", status).
		Where(squirrel.Eq{"id": workID, "moderation_status": models.ModerationPending}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building apply moderation SQL")
		return fmt.Errorf("failed to build apply moderation query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("workID", workID).Msg("Error executing apply moderation query")
		return fmt.Errorf("error applying moderation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWorkNotPending
	}

	return nil
}

func (r *WorkRepository) queryWorks(ctx context.Context, sql string, args []interface{}) ([]*models.Work, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing works query")
		return nil, fmt.Errorf("error querying works: %w", err)
	}
	defer rows.Close()

	var works []*models.Work
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning work row: %w", err)
		}
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work rows: %w", err)
	}

	return works, nil
}
