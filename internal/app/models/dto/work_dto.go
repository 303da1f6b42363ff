package dto

import (
	"time"

	"github.com/jhonnyduque/designfolio/internal/app/models"
)

// CreateWorkRequest submits a new work for review. Image files arrive
// as a multipart form alongside these fields.
type CreateWorkRequest struct {
	Title       string   `form:"title" binding:"required,min=1,max=150"`
	Description string   `form:"description" binding:"required,min=120"`
	Category    string   `form:"category" binding:"required"`
	Tags        []string `form:"tags" binding:"omitempty,max=8"`
}

// WorkImageResponse mirrors one entry of the ordered images array.
type WorkImageResponse struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Order  int    `json:"order"`
}

// WorkResponse represents a work with its author summary.
type WorkResponse struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Category         string                  `json:"category"`
	Tags             []string                `json:"tags,omitempty"`
	Images           []WorkImageResponse     `json:"images"`
	ModerationStatus models.ModerationStatus `json:"moderationStatus"`
	Archived         bool                    `json:"archived"`
	LikesCount       int                     `json:"likesCount"`
	CommentsCount    int                     `json:"commentsCount"`
	ViewsCount       int                     `json:"viewsCount"`
	LikedByMe        bool                    `json:"likedByMe"`
	Author           *WorkAuthorResponse     `json:"author,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
	PublishedAt      *time.Time              `json:"publishedAt,omitempty"`
}

// WorkAuthorResponse is the compact author summary embedded in work
// listings.
type WorkAuthorResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	FullName  string  `json:"fullName"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// UpdateWorkRequest edits a draft or rejected work before resubmission.
type UpdateWorkRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=1,max=150"`
	Description *string  `json:"description,omitempty" binding:"omitempty,min=120"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty" binding:"omitempty,max=8"`
}

// ArchiveWorkRequest hides or restores a work from its author's page.
type ArchiveWorkRequest struct {
	Archived bool `json:"archived"`
}
