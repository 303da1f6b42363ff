package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateNotification inserts a notification for a user. Notification
// delivery is best effort, callers log failures and move on.
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	payloadJSON, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("error encoding notification payload: %w", err)
	}

	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "type", "target_id", "payload").
		Values(n.UserID, n.Type, n.TargetID, payloadJSON).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create notification SQL")
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", n.UserID).Msg("Error executing create notification query")
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// ListLatest returns the user's most recent notifications, capped at
// limit, newest first.
func (r *NotificationRepository) ListLatest(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select("id", "user_id", "type", "target_id", "payload", "read_at", "created_at").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list notifications SQL")
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing list notifications query")
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		var payloadJSON []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.TargetID, &payloadJSON, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &n.Payload); err != nil {
				return nil, fmt.Errorf("error decoding notification payload: %w", err)
			}
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

// CountUnread returns how many of the user's notifications are unread.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		Where("read_at IS NULL").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count unread query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error counting unread notifications")
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead sets read_at on the given notifications. Only the owner's
// rows are touched.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("notifications").
		Set("read_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "id": ids}).
		Where("read_at IS NULL").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark read SQL")
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing mark read query")
		return fmt.Errorf("error marking notifications read: %w", err)
	}

	return nil
}

// MarkAllRead sets read_at on every unread notification of the user.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	sql, args, err := r.sb.Update("notifications").
		Set("read_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Where("read_at IS NULL").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark all read SQL")
		return fmt.Errorf("failed to build mark all read query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing mark all read query")
		return fmt.Errorf("error marking all notifications read: %w", err)
	}

	return nil
}
