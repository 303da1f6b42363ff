package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
)

func seedNotifications(store *fakeNotificationStore, userID string, n int) {
	for i := 0; i < n; i++ {
		_ = store.CreateNotification(context.Background(), &models.Notification{
			UserID: userID,
			Type:   models.NotificationLike,
		})
	}
}

func TestNotificationList(t *testing.T) {
	store := &fakeNotificationStore{}
	seedNotifications(store, "user-1", 3)
	seedNotifications(store, "user-2", 1)
	service := NewNotificationService(store, zerolog.Nop())

	notifications, unread, err := service.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, notifications, 3)
	assert.Equal(t, 3, unread)
}

func TestNotificationMarkRead(t *testing.T) {
	store := &fakeNotificationStore{}
	seedNotifications(store, "user-1", 2)
	service := NewNotificationService(store, zerolog.Nop())
	ctx := context.Background()

	err := service.MarkRead(ctx, "user-1", &dto.MarkReadRequest{IDs: []string{"notification-1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"notification-1"}, store.markedIDs)

	_, unread, err := service.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	err = service.MarkRead(ctx, "user-1", &dto.MarkReadRequest{All: true})
	require.NoError(t, err)
	assert.True(t, store.markedAll)

	_, unread, err = service.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, unread)
}
