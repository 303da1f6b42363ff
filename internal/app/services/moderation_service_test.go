package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/repositories"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

func newTestModerationService(works ...*models.Work) (*ModerationService, *fakeWorkStore, *fakeModerationStore, *fakeNotificationStore) {
	workStore := newFakeWorkStore(works...)
	moderationStore := &fakeModerationStore{}
	notificationStore := &fakeNotificationStore{}
	service := NewModerationService(moderationStore, workStore, notificationStore, noopTx, zerolog.Nop())
	return service, workStore, moderationStore, notificationStore
}

func pendingWork(id string) *models.Work {
	return &models.Work{
		ID:               id,
		AuthorID:         "author-1",
		Title:            "Cartel tipográfico",
		ModerationStatus: models.ModerationPending,
		CreatedAt:        time.Now().Add(-time.Hour),
	}
}

func TestModerateRejectRequiresNote(t *testing.T) {
	service, _, moderationStore, _ := newTestModerationService(pendingWork("work-1"))

	err := service.Moderate(context.Background(), "work-1", "mod-1", &dto.ModerateWorkRequest{
		Action: models.ActionReject,
		Note:   "too short",
	})
	assert.ErrorIs(t, err, apperrors.ErrRejectionNoteTooShort)
	assert.Empty(t, moderationStore.logs)
}

func TestModerateApprove(t *testing.T) {
	work := pendingWork("work-1")
	service, workStore, moderationStore, notificationStore := newTestModerationService(work)

	err := service.Moderate(context.Background(), "work-1", "mod-1", &dto.ModerateWorkRequest{Action: models.ActionApprove})
	require.NoError(t, err)

	stored, err := workStore.GetWorkByID(context.Background(), "work-1")
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, stored.ModerationStatus)
	assert.NotNil(t, stored.PublishedAt)

	require.Len(t, moderationStore.logs, 1)
	assert.Equal(t, models.ActionApprove, moderationStore.logs[0].Action)
	assert.Equal(t, "mod-1", moderationStore.logs[0].ModeratorID)

	assert.Equal(t, 1, moderationStore.refreshed)

	require.Len(t, notificationStore.notifications, 1)
	n := notificationStore.notifications[0]
	assert.Equal(t, "author-1", n.UserID)
	assert.Equal(t, models.NotificationWorkApproved, n.Type)
	assert.Equal(t, "work-1", n.Payload["workId"])
}

func TestModerateReject(t *testing.T) {
	work := pendingWork("work-1")
	service, workStore, moderationStore, notificationStore := newTestModerationService(work)

	note := "El contraste tipográfico se pierde en tamaños pequeños."
	err := service.Moderate(context.Background(), "work-1", "mod-1", &dto.ModerateWorkRequest{
		Action: models.ActionReject,
		Note:   note,
	})
	require.NoError(t, err)

	stored, err := workStore.GetWorkByID(context.Background(), "work-1")
	require.NoError(t, err)
	assert.Equal(t, models.ModerationRejected, stored.ModerationStatus)
	assert.Nil(t, stored.PublishedAt)

	require.Len(t, moderationStore.logs, 1)
	require.NotNil(t, moderationStore.logs[0].Note)
	assert.Equal(t, note, *moderationStore.logs[0].Note)

	// Rejection never touches the feed scores.
	assert.Zero(t, moderationStore.refreshed)

	require.Len(t, notificationStore.notifications, 1)
	assert.Equal(t, models.NotificationWorkRejected, notificationStore.notifications[0].Type)
	assert.Equal(t, note, notificationStore.notifications[0].Payload["note"])
}

func TestModerateNotPending(t *testing.T) {
	work := pendingWork("work-1")
	work.ModerationStatus = models.ModerationApproved
	service, _, moderationStore, _ := newTestModerationService(work)

	err := service.Moderate(context.Background(), "work-1", "mod-1", &dto.ModerateWorkRequest{Action: models.ActionApprove})
	assert.ErrorIs(t, err, apperrors.ErrWorkNotPending)
	assert.Empty(t, moderationStore.logs)
}

func TestModerateSurvivesRefreshFailure(t *testing.T) {
	service, _, moderationStore, notificationStore := newTestModerationService(pendingWork("work-1"))
	moderationStore.refreshErr = errors.New("view is busy")

	err := service.Moderate(context.Background(), "work-1", "mod-1", &dto.ModerateWorkRequest{Action: models.ActionApprove})
	require.NoError(t, err)
	assert.Len(t, notificationStore.notifications, 1)
}

func TestModerateSurvivesNotificationFailure(t *testing.T) {
	service, workStore, _, notificationStore := newTestModerationService(pendingWork("work-1"))
	notificationStore.createErr = errors.New("notifications down")

	err := service.Moderate(context.Background(), "work-1", "mod-1", &dto.ModerateWorkRequest{Action: models.ActionApprove})
	require.NoError(t, err)

	stored, err := workStore.GetWorkByID(context.Background(), "work-1")
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, stored.ModerationStatus)
}

func TestQueueOverview(t *testing.T) {
	service, _, moderationStore, _ := newTestModerationService()
	moderationStore.queue = []*models.Work{pendingWork("work-1"), pendingWork("work-2")}
	moderationStore.stats = repositories.ModerationStats{Approved: 7, Rejected: 3}
	for i := 0; i < 25; i++ {
		moderationStore.decisions = append(moderationStore.decisions, &models.Notification{
			Type: models.NotificationWorkApproved,
		})
	}

	overview, err := service.Queue(context.Background(), 0, 20)
	require.NoError(t, err)

	assert.Len(t, overview.Works, 2)
	assert.Equal(t, 2, overview.Stats.Pending)
	assert.Equal(t, 7, overview.Stats.Approved)
	assert.Equal(t, 3, overview.Stats.Rejected)

	// Decision history is capped at the twenty most recent entries.
	assert.Len(t, overview.History, recentDecisionsLimit)
}

func TestQueueItemWaiting(t *testing.T) {
	now := time.Now()
	w := &models.Work{CreatedAt: now.Add(-90 * time.Second)}
	assert.Equal(t, int64(90_000), QueueItemWaiting(w, now))
}
