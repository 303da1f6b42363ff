package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

// LikeService handles the like toggle
type LikeService struct {
	likeRepo         LikeStore
	workRepo         WorkStore
	notificationRepo NotificationStore
	runTx            TxRunner
	logger           zerolog.Logger
}

// NewLikeService creates a new LikeService
func NewLikeService(
	likeRepo LikeStore,
	workRepo WorkStore,
	notificationRepo NotificationStore,
	runTx TxRunner,
	logger zerolog.Logger,
) *LikeService {
	return &LikeService{
		likeRepo:         likeRepo,
		workRepo:         workRepo,
		notificationRepo: notificationRepo,
		runTx:            runTx,
		logger:           logger,
	}
}

// Toggle flips the caller's like on a public work and returns the new
// state. A fresh like notifies the author; removing one is silent.
func (s *LikeService) Toggle(ctx context.Context, userID, workID string) (*dto.LikeToggleResponse, error) {
	work, err := s.workRepo.GetWorkByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	if !work.IsPubliclyVisible() {
		return nil, apperrors.ErrWorkNotFound
	}

	var liked bool
	var likesCount int
	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var txErr error
		liked, likesCount, txErr = s.likeRepo.Toggle(ctx, tx, userID, workID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	if liked && work.AuthorID != userID {
		workRef := workID
		n := &models.Notification{
			UserID:   work.AuthorID,
			Type:     models.NotificationLike,
			TargetID: &workRef,
			Payload: map[string]interface{}{
				"workId":    workID,
				"workTitle": work.Title,
				"actorId":   userID,
			},
		}
		if err := s.notificationRepo.CreateNotification(ctx, n); err != nil {
			s.logger.Warn().Err(err).Str("workID", workID).Msg("Failed to notify author of like")
		}
	}

	return &dto.LikeToggleResponse{Liked: liked, LikesCount: likesCount}, nil
}
