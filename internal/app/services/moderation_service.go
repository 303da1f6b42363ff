package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/repositories"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

// ModerationService handles the review queue and decisions
type ModerationService struct {
	moderationRepo   ModerationStore
	workRepo         WorkStore
	notificationRepo NotificationStore
	runTx            TxRunner
	logger           zerolog.Logger
}

// NewModerationService creates a new ModerationService
func NewModerationService(
	moderationRepo ModerationStore,
	workRepo WorkStore,
	notificationRepo NotificationStore,
	runTx TxRunner,
	logger zerolog.Logger,
) *ModerationService {
	return &ModerationService{
		moderationRepo:   moderationRepo,
		workRepo:         workRepo,
		notificationRepo: notificationRepo,
		runTx:            runTx,
		logger:           logger,
	}
}

// Latest approve/reject decisions shown alongside the queue.
const recentDecisionsLimit = 20

// QueueOverview is everything the review dashboard shows: the pending
// works oldest first, counts per review state, and the most recent
// decisions.
type QueueOverview struct {
	Works   []*models.Work
	Stats   *repositories.ModerationStats
	History []*models.Notification
}

// Queue returns one page of the review dashboard.
func (s *ModerationService) Queue(ctx context.Context, offset uint64, limit int) (*QueueOverview, error) {
	works, err := s.moderationRepo.ListQueue(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	stats, err := s.moderationRepo.CountStatuses(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.moderationRepo.ListRecentDecisions(ctx, recentDecisionsLimit)
	if err != nil {
		return nil, err
	}

	return &QueueOverview{Works: works, Stats: stats, History: history}, nil
}

// Moderate applies an approve or reject decision to a pending work.
// The status transition and the decision log commit together; the
// guard on the pending status means a second moderator acting on the
// same work gets ErrWorkNotPending instead of a double transition.
// Feed score refresh and the author notification follow best effort.
func (s *ModerationService) Moderate(ctx context.Context, workID, moderatorID string, req *dto.ModerateWorkRequest) error {
	note := strings.TrimSpace(req.Note)
	if req.Action == models.ActionReject && len(note) < models.RejectionNoteMinChars {
		return apperrors.ErrRejectionNoteTooShort
	}

	work, err := s.workRepo.GetWorkByID(ctx, workID)
	if err != nil {
		return err
	}
	if work.ModerationStatus != models.ModerationPending {
		return apperrors.ErrWorkNotPending
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.workRepo.ApplyModeration(ctx, tx, workID, req.Action); err != nil {
			return err
		}
		return s.moderationRepo.InsertLog(ctx, tx, workID, moderatorID, req.Action, notePtr)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("workID", workID).Str("moderatorID", moderatorID).Str("action", string(req.Action)).Msg("Moderation decision applied")

	if req.Action == models.ActionApprove {
		if err := s.moderationRepo.RefreshFeedScores(ctx); err != nil {
			// Scores catch up on the next refresh; the approval stands.
			s.logger.Warn().Err(err).Msg("Feed score refresh failed after approval")
		}
	}

	s.notifyAuthor(ctx, work, req.Action, notePtr)
	return nil
}

func (s *ModerationService) notifyAuthor(ctx context.Context, work *models.Work, action models.ModerationAction, note *string) {
	nType := models.NotificationWorkApproved
	if action == models.ActionReject {
		nType = models.NotificationWorkRejected
	}

	payload := map[string]interface{}{
		"workId":    work.ID,
		"workTitle": work.Title,
	}
	if note != nil {
		payload["note"] = *note
	}

	workID := work.ID
	n := &models.Notification{
		UserID:   work.AuthorID,
		Type:     nType,
		TargetID: &workID,
		Payload:  payload,
	}
	if err := s.notificationRepo.CreateNotification(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("workID", work.ID).Msg("Failed to notify author of moderation decision")
	}
}

// Logs returns the decision history of a work.
func (s *ModerationService) Logs(ctx context.Context, workID string) ([]*repositories.ModerationLog, error) {
	return s.moderationRepo.ListLogs(ctx, workID)
}

// QueueItemWaiting computes how long a queued work has waited.
func QueueItemWaiting(w *models.Work, now time.Time) int64 {
	return now.Sub(w.CreatedAt).Milliseconds()
}
