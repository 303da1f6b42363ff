package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
)

// Latest notifications returned per listing.
const notificationPageLimit = 50

// NotificationService handles the notification inbox
type NotificationService struct {
	notificationRepo NotificationStore
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo NotificationStore, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List returns the user's latest notifications with the unread count.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*models.Notification, int, error) {
	notifications, err := s.notificationRepo.ListLatest(ctx, userID, notificationPageLimit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return notifications, unread, nil
}

// MarkRead marks the given notifications, or all of them, as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, req *dto.MarkReadRequest) error {
	if req.All {
		return s.notificationRepo.MarkAllRead(ctx, userID)
	}
	return s.notificationRepo.MarkRead(ctx, userID, req.IDs)
}
