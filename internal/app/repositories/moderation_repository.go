package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

// ModerationStats counts works per review state.
type ModerationStats struct {
	Pending  int
	Approved int
	Rejected int
}

// ModerationLog records one moderation decision.
type ModerationLog struct {
	ID          string
	WorkID      string
	ModeratorID string
	Action      models.ModerationAction
	Note        *string
	CreatedAt   time.Time
}

// ModerationRepository handles the review queue and decision log
type ModerationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewModerationRepository creates a new ModerationRepository
func NewModerationRepository(db *pgxpool.Pool) *ModerationRepository {
	return &ModerationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListQueue returns pending works oldest first. The queue is strictly
// FIFO so the longest-waiting submission is reviewed next.
func (r *ModerationRepository) ListQueue(ctx context.Context, offset uint64, limit int) ([]*models.Work, error) {
	sql, args, err := r.sb.Select(workColumns...).
		From("works").
		Where(squirrel.Eq{"moderation_status": models.ModerationPending}).
		OrderBy("created_at ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list moderation queue SQL")
		return nil, fmt.Errorf("failed to build list queue query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list moderation queue query")
		return nil, fmt.Errorf("error listing moderation queue: %w", err)
	}
	defer rows.Close()

	var works []*models.Work
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning queue row: %w", err)
		}
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue rows: %w", err)
	}

	return works, nil
}

// CountStatuses returns how many works sit in each review state.
func (r *ModerationRepository) CountStatuses(ctx context.Context) (*ModerationStats, error) {
	sql, args, err := r.sb.Select("moderation_status", "COUNT(*)").
		From("works").
		GroupBy("moderation_status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count statuses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error counting works per status")
		return nil, fmt.Errorf("error counting works per status: %w", err)
	}
	defer rows.Close()

	stats := &ModerationStats{}
	for rows.Next() {
		var status models.ModerationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning status count row: %w", err)
		}
		switch status {
		case models.ModerationPending:
			stats.Pending = count
		case models.ModerationApproved:
			stats.Approved = count
		case models.ModerationRejected:
			stats.Rejected = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status count rows: %w", err)
	}

	return stats, nil
}

// ListRecentDecisions returns the latest approve/reject notifications,
// newest first. They double as the moderation history feed.
func (r *ModerationRepository) ListRecentDecisions(ctx context.Context, limit int) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select("id", "user_id", "type", "target_id", "payload", "read_at", "created_at").
		From("notifications").
		Where(squirrel.Eq{"type": []models.NotificationType{models.NotificationWorkApproved, models.NotificationWorkRejected}}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list recent decisions SQL")
		return nil, fmt.Errorf("failed to build list recent decisions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list recent decisions query")
		return nil, fmt.Errorf("error listing recent decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*models.Notification
	for rows.Next() {
		var n models.Notification
		var payloadJSON []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.TargetID, &payloadJSON, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning decision row: %w", err)
		}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &n.Payload); err != nil {
				return nil, fmt.Errorf("error decoding decision payload: %w", err)
			}
		}
		decisions = append(decisions, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decision rows: %w", err)
	}

	return decisions, nil
}

// InsertLog records a moderation decision inside the same transaction
// as the status transition.
func (r *ModerationRepository) InsertLog(ctx context.Context, tx pgx.Tx, workID, moderatorID string, action models.ModerationAction, note *string) error {
	sql, args, err := r.sb.Insert("moderation_logs").
		Columns("work_id", "moderator_id", "action", "note").
		Values(workID, moderatorID, action, note).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert moderation log SQL")
		return fmt.Errorf("failed to build insert moderation log query: %w", err)
	}

	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("workID", workID).Msg("Error executing insert moderation log query")
		return fmt.Errorf("error inserting moderation log: %w", err)
	}

	return nil
}

// ListLogs returns past decisions for a work, newest first.
func (r *ModerationRepository) ListLogs(ctx context.Context, workID string) ([]*ModerationLog, error) {
	sql, args, err := r.sb.Select("id", "work_id", "moderator_id", "action", "note", "created_at").
		From("moderation_logs").
		Where(squirrel.Eq{"work_id": workID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list moderation logs SQL")
		return nil, fmt.Errorf("failed to build list moderation logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list moderation logs query")
		return nil, fmt.Errorf("error listing moderation logs: %w", err)
	}
	defer rows.Close()

	var logs []*ModerationLog
	for rows.Next() {
		var l ModerationLog
		if err := rows.Scan(&l.ID, &l.WorkID, &l.ModeratorID, &l.Action, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning moderation log row: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating moderation log rows: %w", err)
	}

	return logs, nil
}

// RefreshFeedScores recomputes the feed ranking view. Called after an
// approval; failures are logged by the caller and never block the
// moderation decision.
func (r *ModerationRepository) RefreshFeedScores(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "REFRESH MATERIALIZED VIEW CONCURRENTLY feed_scores")
	if err != nil {
		return fmt.Errorf("error refreshing feed scores: %w", err)
	}
	return nil
}
