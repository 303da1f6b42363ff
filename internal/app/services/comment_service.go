package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

// CommentService handles structured feedback on works
type CommentService struct {
	commentRepo      CommentStore
	workRepo         WorkStore
	notificationRepo NotificationStore
	runTx            TxRunner
	logger           zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo CommentStore,
	workRepo WorkStore,
	notificationRepo NotificationStore,
	runTx TxRunner,
	logger zerolog.Logger,
) *CommentService {
	return &CommentService{
		commentRepo:      commentRepo,
		workRepo:         workRepo,
		notificationRepo: notificationRepo,
		runTx:            runTx,
		logger:           logger,
	}
}

// Create posts a comment on a public work. Content must reach the
// minimum length and carry at least one known feedback category.
func (s *CommentService) Create(ctx context.Context, userID, workID string, req *dto.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if len([]rune(content)) < models.CommentMinLength {
		return nil, apperrors.ErrCommentTooShort
	}
	if len(req.Categories) == 0 {
		return nil, apperrors.ErrCommentNoCategories
	}
	if err := validateCategories(req.Categories, models.CommentCategories, 1, len(models.CommentCategories)); err != nil {
		return nil, err
	}

	work, err := s.workRepo.GetWorkByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	if !work.IsPubliclyVisible() {
		return nil, apperrors.ErrWorkNotFound
	}

	var created *models.Comment
	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var txErr error
		created, txErr = s.commentRepo.CreateComment(ctx, tx, &models.Comment{
			UserID:     userID,
			WorkID:     workID,
			Content:    content,
			Categories: req.Categories,
			IsValid:    true,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}

	if work.AuthorID != userID {
		workRef := workID
		n := &models.Notification{
			UserID:   work.AuthorID,
			Type:     models.NotificationComment,
			TargetID: &workRef,
			Payload: map[string]interface{}{
				"workId":    workID,
				"workTitle": work.Title,
				"commentId": created.ID,
				"actorId":   userID,
			},
		}
		if err := s.notificationRepo.CreateNotification(ctx, n); err != nil {
			s.logger.Warn().Err(err).Str("workID", workID).Msg("Failed to notify author of new comment")
		}
	}

	s.logger.Info().Str("commentID", created.ID).Str("workID", workID).Msg("Comment posted")
	return created, nil
}

// List returns a work's comments newest first.
func (s *CommentService) List(ctx context.Context, workID string) ([]*models.Comment, error) {
	if _, err := s.workRepo.GetWorkByID(ctx, workID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListCommentsByWork(ctx, workID)
}

// Delete removes a comment. Allowed for the comment's author and for
// founders cleaning up abuse.
func (s *CommentService) Delete(ctx context.Context, commentID, userID string, isFounder bool) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && !isFounder {
		return apperrors.ErrResourceNotFound
	}

	return s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.commentRepo.DeleteComment(ctx, tx, commentID, comment.UserID)
	})
}
