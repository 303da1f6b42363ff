package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

func newTestLikeService(works ...*models.Work) (*LikeService, *fakeLikeStore, *fakeNotificationStore) {
	likeStore := newFakeLikeStore()
	notificationStore := &fakeNotificationStore{}
	service := NewLikeService(likeStore, newFakeWorkStore(works...), notificationStore, noopTx, zerolog.Nop())
	return service, likeStore, notificationStore
}

func TestToggleLike(t *testing.T) {
	service, _, notificationStore := newTestLikeService(publicWork("work-1", "author-1"))
	ctx := context.Background()

	result, err := service.Toggle(ctx, "user-1", "work-1")
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikesCount)

	require.Len(t, notificationStore.notifications, 1)
	assert.Equal(t, models.NotificationLike, notificationStore.notifications[0].Type)
	assert.Equal(t, "author-1", notificationStore.notifications[0].UserID)

	// Unliking is silent and brings the counter back down.
	result, err = service.Toggle(ctx, "user-1", "work-1")
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikesCount)
	assert.Len(t, notificationStore.notifications, 1)
}

func TestToggleLikeOwnWorkIsSilent(t *testing.T) {
	service, _, notificationStore := newTestLikeService(publicWork("work-1", "author-1"))

	result, err := service.Toggle(context.Background(), "author-1", "work-1")
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Empty(t, notificationStore.notifications)
}

func TestToggleLikeHiddenWork(t *testing.T) {
	archived := &models.Work{ID: "work-1", AuthorID: "author-1", ModerationStatus: models.ModerationApproved, Archived: true}
	service, _, _ := newTestLikeService(archived)

	_, err := service.Toggle(context.Background(), "user-1", "work-1")
	assert.ErrorIs(t, err, apperrors.ErrWorkNotFound)
}
