package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository       *ProfileRepository
	TokenRepository         *TokenRepository
	InviteRepository        *InviteRepository
	WorkRepository          *WorkRepository
	ModerationRepository    *ModerationRepository
	FeedRepository          *FeedRepository
	CommentRepository       *CommentRepository
	LikeRepository          *LikeRepository
	NotificationRepository  *NotificationRepository
	PasswordResetRepository *PasswordResetRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepository:       NewProfileRepository(db),
		TokenRepository:         NewTokenRepository(db),
		InviteRepository:        NewInviteRepository(db),
		WorkRepository:          NewWorkRepository(db),
		ModerationRepository:    NewModerationRepository(db),
		FeedRepository:          NewFeedRepository(db),
		CommentRepository:       NewCommentRepository(db),
		LikeRepository:          NewLikeRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
		PasswordResetRepository: NewPasswordResetRepository(db),
	}
}
