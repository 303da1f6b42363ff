package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

// FeedQueryParams are the validated listing parameters. Sort must be
// one of the whitelisted orders, anything else falls back to recent.
type FeedQueryParams struct {
	Sort     string
	Category string
	Search   string
	Offset   uint64
	Limit    int
}

// Whitelisted ORDER BY clauses, keyed by sort name. Ties always break
// on created_at DESC so pagination stays stable.
var feedSortOrders = map[string][]string{
	"recent":         {"w.published_at DESC", "w.created_at DESC"},
	"popular":        {"COALESCE(fs.score, 0) DESC", "w.created_at DESC"},
	"most_voted":     {"w.likes_count DESC", "w.created_at DESC"},
	"most_commented": {"w.comments_count DESC", "w.created_at DESC"},
}

// FeedRepository handles the public feed queries
type FeedRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedRepository creates a new FeedRepository
func NewFeedRepository(db *pgxpool.Pool) *FeedRepository {
	return &FeedRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// buildListFeedSQL assembles the feed page query. Search joins the
// author profile so title, category and author name/handle all match.
func (r *FeedRepository) buildListFeedSQL(params FeedQueryParams) (string, []interface{}, error) {
	orderBy, ok := feedSortOrders[params.Sort]
	if !ok {
		orderBy = feedSortOrders["recent"]
	}

	cols := make([]string, 0, len(workColumns))
	for _, c := range workColumns {
		cols = append(cols, "w."+c)
	}

	builder := r.sb.Select(cols...).
		From("works w").
		LeftJoin("feed_scores fs ON fs.work_id = w.id").
		Where(squirrel.Eq{
			"w.moderation_status": models.ModerationApproved,
			"w.archived":          false,
		}).
		OrderBy(orderBy...).
		Offset(params.Offset).
		Limit(uint64(params.Limit))

	if params.Category != "" {
		builder = builder.Where(squirrel.Eq{"w.category": params.Category})
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		builder = builder.
			Join("profiles p ON p.id = w.author_id").
			Where(squirrel.Or{
				squirrel.ILike{"w.title": pattern},
				squirrel.ILike{"w.category": pattern},
				squirrel.ILike{"p.full_name": pattern},
				squirrel.ILike{"p.username": pattern},
			})
	}

	return builder.ToSql()
}

// ListFeed returns one page of approved, unarchived works ordered by
// the requested sort. Popular ordering reads precomputed scores from
// the feed_scores materialized view.
func (r *FeedRepository) ListFeed(ctx context.Context, params FeedQueryParams) ([]*models.Work, error) {
	sql, args, err := r.buildListFeedSQL(params)
	if err != nil {
		logger.Error().Err(err).Msg("Error building list feed SQL")
		return nil, fmt.Errorf("failed to build list feed query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list feed query")
		return nil, fmt.Errorf("error listing feed: %w", err)
	}
	defer rows.Close()

	var works []*models.Work
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning feed row: %w", err)
		}
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return works, nil
}
