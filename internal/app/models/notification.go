package models

import "time"

// Notification defines the notification model based on the 'notifications'
// table. A row is unread until read_at is set.
type Notification struct {
	ID        string                 `json:"id" db:"id"`
	UserID    string                 `json:"userId" db:"user_id"`
	Type      NotificationType       `json:"type" db:"type"`
	TargetID  *string                `json:"targetId,omitempty" db:"target_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	ReadAt    *time.Time             `json:"readAt,omitempty" db:"read_at"`
	CreatedAt time.Time              `json:"createdAt" db:"created_at"`
}
