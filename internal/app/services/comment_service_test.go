package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

var validCommentContent = strings.Repeat("Buen trabajo. ", 8) // 112 chars

func newTestCommentService(works ...*models.Work) (*CommentService, *fakeCommentStore, *fakeNotificationStore) {
	commentStore := newFakeCommentStore()
	notificationStore := &fakeNotificationStore{}
	service := NewCommentService(commentStore, newFakeWorkStore(works...), notificationStore, noopTx, zerolog.Nop())
	return service, commentStore, notificationStore
}

func publicWork(id, authorID string) *models.Work {
	return &models.Work{ID: id, AuthorID: authorID, Title: "Obra", ModerationStatus: models.ModerationApproved}
}

func TestCreateCommentContentLength(t *testing.T) {
	service, _, _ := newTestCommentService(publicWork("work-1", "author-1"))
	ctx := context.Background()

	_, err := service.Create(ctx, "user-1", "work-1", &dto.CreateCommentRequest{
		Content:    strings.Repeat("x", 99),
		Categories: []string{"Concepto"},
	})
	assert.ErrorIs(t, err, apperrors.ErrCommentTooShort)

	// Length counts runes, not bytes: 100 two-byte runes pass.
	_, err = service.Create(ctx, "user-1", "work-1", &dto.CreateCommentRequest{
		Content:    strings.Repeat("ñ", 100),
		Categories: []string{"Concepto"},
	})
	assert.NoError(t, err)
}

func TestCreateCommentCategories(t *testing.T) {
	service, _, _ := newTestCommentService(publicWork("work-1", "author-1"))
	ctx := context.Background()

	_, err := service.Create(ctx, "user-1", "work-1", &dto.CreateCommentRequest{
		Content: validCommentContent,
	})
	assert.ErrorIs(t, err, apperrors.ErrCommentNoCategories)

	_, err = service.Create(ctx, "user-1", "work-1", &dto.CreateCommentRequest{
		Content:    validCommentContent,
		Categories: []string{"Velocidad"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")

	_, err = service.Create(ctx, "user-1", "work-1", &dto.CreateCommentRequest{
		Content:    validCommentContent,
		Categories: []string{"Concepto", "Color"},
	})
	assert.NoError(t, err)
}

func TestCreateCommentOnHiddenWork(t *testing.T) {
	pending := &models.Work{ID: "work-1", AuthorID: "author-1", ModerationStatus: models.ModerationPending}
	service, _, _ := newTestCommentService(pending)

	_, err := service.Create(context.Background(), "user-1", "work-1", &dto.CreateCommentRequest{
		Content:    validCommentContent,
		Categories: []string{"Concepto"},
	})
	assert.ErrorIs(t, err, apperrors.ErrWorkNotFound)
}

func TestCreateCommentNotifiesAuthor(t *testing.T) {
	service, _, notificationStore := newTestCommentService(publicWork("work-1", "author-1"))
	ctx := context.Background()

	comment, err := service.Create(ctx, "user-1", "work-1", &dto.CreateCommentRequest{
		Content:    validCommentContent,
		Categories: []string{"Ejecución"},
	})
	require.NoError(t, err)

	require.Len(t, notificationStore.notifications, 1)
	n := notificationStore.notifications[0]
	assert.Equal(t, "author-1", n.UserID)
	assert.Equal(t, models.NotificationComment, n.Type)
	assert.Equal(t, comment.ID, n.Payload["commentId"])

	// Commenting on your own work stays silent.
	_, err = service.Create(ctx, "author-1", "work-1", &dto.CreateCommentRequest{
		Content:    validCommentContent,
		Categories: []string{"Color"},
	})
	require.NoError(t, err)
	assert.Len(t, notificationStore.notifications, 1)
}

func TestDeleteCommentOwnership(t *testing.T) {
	service, commentStore, _ := newTestCommentService(publicWork("work-1", "author-1"))
	ctx := context.Background()

	comment, err := service.Create(ctx, "user-1", "work-1", &dto.CreateCommentRequest{
		Content:    validCommentContent,
		Categories: []string{"Concepto"},
	})
	require.NoError(t, err)

	assert.Error(t, service.Delete(ctx, comment.ID, "someone-else", false))
	require.NoError(t, service.Delete(ctx, comment.ID, "user-1", false))
	assert.Empty(t, commentStore.comments)
}

func TestDeleteCommentAsFounder(t *testing.T) {
	service, commentStore, _ := newTestCommentService(publicWork("work-1", "author-1"))
	ctx := context.Background()

	comment, err := service.Create(ctx, "user-1", "work-1", &dto.CreateCommentRequest{
		Content:    validCommentContent,
		Categories: []string{"Concepto"},
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, comment.ID, "founder-1", true))
	assert.Empty(t, commentStore.comments)

	err = service.Delete(ctx, "missing", "founder-1", true)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
