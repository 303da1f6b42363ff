package models

import (
	"time"
)

// WorkImage is one entry of the ordered images array stored as JSONB
// on the works table.
type WorkImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Order  int    `json:"order"`
}

// Work defines the work model based on the 'works' table.
// Only approved and not archived works are publicly visible;
// published_at is set only on approval.
type Work struct {
	ID               string           `json:"id" db:"id"`
	AuthorID         string           `json:"authorId" db:"author_id"`
	Title            string           `json:"title" db:"title"`
	Description      string           `json:"description" db:"description"`
	Category         string           `json:"category" db:"category"`
	Tags             []string         `json:"tags,omitempty" db:"tags"`
	Images           []WorkImage      `json:"images" db:"images"`
	ModerationStatus ModerationStatus `json:"moderationStatus" db:"moderation_status"`
	Archived         bool             `json:"archived" db:"archived"`
	LikesCount       int              `json:"likesCount" db:"likes_count"`
	CommentsCount    int              `json:"commentsCount" db:"comments_count"`
	ViewsCount       int              `json:"viewsCount" db:"views_count"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	PublishedAt      *time.Time       `json:"publishedAt,omitempty" db:"published_at"`
}

// IsPubliclyVisible reports whether the work appears in public listings.
func (w *Work) IsPubliclyVisible() bool {
	return w.ModerationStatus == ModerationApproved && !w.Archived
}
