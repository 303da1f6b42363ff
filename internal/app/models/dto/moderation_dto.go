package dto

import (
	"time"

	"github.com/jhonnyduque/designfolio/internal/app/models"
)

// ModerateWorkRequest applies a moderation decision to a pending work.
// A rejection must carry a note of at least ten characters.
type ModerateWorkRequest struct {
	Action models.ModerationAction `json:"action" binding:"required,oneof=approve reject"`
	Note   string                  `json:"note,omitempty"`
}

// ModerationStatsResponse counts works per review state.
type ModerationStatsResponse struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ModerationQueueItemResponse is one pending work in the FIFO queue.
type ModerationQueueItemResponse struct {
	Work      *WorkResponse `json:"work"`
	Position  int           `json:"position"`
	WaitingMS int64         `json:"waitingMs"`
}

// ModerationLogResponse records one past decision.
type ModerationLogResponse struct {
	ID          string                  `json:"id"`
	WorkID      string                  `json:"workId"`
	ModeratorID string                  `json:"moderatorId"`
	Action      models.ModerationAction `json:"action"`
	Note        *string                 `json:"note,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
}
