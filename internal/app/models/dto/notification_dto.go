package dto

import (
	"time"

	"github.com/jhonnyduque/designfolio/internal/app/models"
)

// NotificationResponse represents one notification row.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	TargetID  *string                 `json:"targetId,omitempty"`
	Payload   map[string]interface{}  `json:"payload"`
	ReadAt    *time.Time              `json:"readAt,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NotificationListResponse is the latest notifications with the
// unread counter.
type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int                     `json:"unreadCount"`
}

// MarkReadRequest marks the given notifications as read. An empty
// list combined with All marks everything.
type MarkReadRequest struct {
	IDs []string `json:"ids,omitempty"`
	All bool     `json:"all,omitempty"`
}
