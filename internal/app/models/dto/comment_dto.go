package dto

import "time"

// CreateCommentRequest posts structured feedback on a work. Content
// must reach the minimum length and at least one category is required.
type CreateCommentRequest struct {
	Content    string   `json:"content" binding:"required"`
	Categories []string `json:"categories" binding:"required,min=1"`
}

// CommentResponse represents a comment with its author summary.
type CommentResponse struct {
	ID         string              `json:"id"`
	WorkID     string              `json:"workId"`
	Content    string              `json:"content"`
	Categories []string            `json:"categories"`
	Author     *WorkAuthorResponse `json:"author"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// LikeToggleResponse reports the state after a like toggle.
type LikeToggleResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
