package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/repositories"
)

// Narrow store interfaces consumed by the services. The pgx-backed
// repositories satisfy them; tests substitute in-memory fakes.

// ProfileStore is the profile persistence surface.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *models.Profile) (string, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	GetProfileByGoogleSub(ctx context.Context, sub string) (*models.Profile, error)
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]*models.Profile, error)
	CompleteOnboarding(ctx context.Context, id string, username, bio string, school, careerYear *string, categories []string, themeColor string) error
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateAvatarURL(ctx context.Context, id string, avatarURL string) error
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	ListProfiles(ctx context.Context, offset uint64, limit int) ([]*models.Profile, map[string]int, error)
}

// TokenStore is the refresh token persistence surface.
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID string, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (string, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID string) error
}

// InviteStore is the invitation code persistence surface.
type InviteStore interface {
	CreateCode(ctx context.Context, code string, role models.InviteRole, createdBy string, expiresAt *time.Time) (*models.InvitationCode, error)
	GetByCode(ctx context.Context, code string) (*models.InvitationCode, error)
	ClaimCode(ctx context.Context, code string, userID string) error
	ListCodes(ctx context.Context, offset uint64, limit int) ([]*models.InvitationCode, error)
}

// WorkStore is the work persistence surface.
type WorkStore interface {
	CreateWork(ctx context.Context, w *models.Work) (*models.Work, error)
	GetWorkByID(ctx context.Context, id string) (*models.Work, error)
	ListWorksByAuthor(ctx context.Context, authorID string, publicOnly bool) ([]*models.Work, error)
	ListAllWorks(ctx context.Context, filter string, offset uint64, limit int) ([]*models.Work, error)
	UpdateWork(ctx context.Context, id string, authorID string, updates map[string]interface{}) error
	SetArchived(ctx context.Context, id string, authorID string, archived bool) error
	AdminSetArchived(ctx context.Context, id string, archived bool) error
	DeleteWork(ctx context.Context, id string, authorID string) error
	AdminDeleteWork(ctx context.Context, id string) error
	ResubmitWork(ctx context.Context, id string, authorID string) error
	IncrementViews(ctx context.Context, id string) error
	ApplyModeration(ctx context.Context, tx pgx.Tx, workID string, action models.ModerationAction) error
}

// ModerationStore is the review queue and decision log surface.
type ModerationStore interface {
	ListQueue(ctx context.Context, offset uint64, limit int) ([]*models.Work, error)
	CountStatuses(ctx context.Context) (*repositories.ModerationStats, error)
	ListRecentDecisions(ctx context.Context, limit int) ([]*models.Notification, error)
	InsertLog(ctx context.Context, tx pgx.Tx, workID, moderatorID string, action models.ModerationAction, note *string) error
	ListLogs(ctx context.Context, workID string) ([]*repositories.ModerationLog, error)
	RefreshFeedScores(ctx context.Context) error
}

// FeedStore is the public feed query surface.
type FeedStore interface {
	ListFeed(ctx context.Context, params repositories.FeedQueryParams) ([]*models.Work, error)
}

// CommentStore is the comment persistence surface.
type CommentStore interface {
	CreateComment(ctx context.Context, tx pgx.Tx, c *models.Comment) (*models.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListCommentsByWork(ctx context.Context, workID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, tx pgx.Tx, id string, userID string) error
}

// LikeStore is the like persistence surface.
type LikeStore interface {
	Toggle(ctx context.Context, tx pgx.Tx, userID, workID string) (bool, int, error)
	IsLiked(ctx context.Context, userID, workID string) (bool, error)
	LikedWorkIDs(ctx context.Context, userID string, workIDs []string) (map[string]bool, error)
}

// NotificationStore is the notification persistence surface.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListLatest(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// ResetTokenStore is the password reset token surface.
type ResetTokenStore interface {
	CreateToken(ctx context.Context, token string, userID string, expiresAt time.Time) error
	ConsumeToken(ctx context.Context, token string) (string, error)
}

// TxRunner executes a function inside a database transaction. The
// pool-backed implementation lives in internal/db; tests use a no-op
// runner with a nil tx.
type TxRunner func(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
