package models

import "time"

// Comment defines the comment model based on the 'comments' table.
// Comments are structured feedback: content has a minimum length and
// at least one feedback category is required.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	WorkID     string    `json:"workId" db:"work_id"`
	Content    string    `json:"content" db:"content"`
	Categories []string  `json:"categories" db:"categories"`
	IsValid    bool      `json:"isValid" db:"is_valid"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Like is the unique (user, work) pair behind the like toggle.
type Like struct {
	UserID    string    `json:"userId" db:"user_id"`
	WorkID    string    `json:"workId" db:"work_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
