package models

import "time"

// Discussion is a Q&A thread, optionally attached to a course.
type Discussion struct {
	ID          string    `db:"id" json:"id"`
	CourseID    *string   `db:"course_id" json:"course_id"`
	CourseTitle *string   `db:"course_title" json:"course_title,omitempty"`
	UserID      string    `db:"user_id" json:"user_id"`
	UserName    *string   `db:"user_name" json:"user_name,omitempty"`
	UserEmail   *string   `db:"user_email" json:"user_email,omitempty"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	IsPinned    bool      `db:"is_pinned" json:"is_pinned"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Replies []DiscussionReply `db:"-" json:"replies"`
}

// DiscussionReply is a single answer in a thread. IsInstructor is derived
// from the author's role at read time, not stored.
type DiscussionReply struct {
	ID           string    `db:"id" json:"id"`
	DiscussionID string    `db:"discussion_id" json:"discussion_id"`
	UserID       string    `db:"user_id" json:"user_id"`
	UserName     *string   `db:"user_name" json:"user_name,omitempty"`
	UserEmail    *string   `db:"user_email" json:"user_email,omitempty"`
	UserRole     *string   `db:"user_role" json:"-"`
	Content      string    `db:"content" json:"content"`
	IsInstructor bool      `db:"-" json:"is_instructor"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DiscussionFilter captures discussion list criteria.
type DiscussionFilter struct {
	CourseID string
	Search   string
	Page     PageQuery
}

// CreateDiscussionRequest is the whitelisted creation payload.
type CreateDiscussionRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	CourseID *string `json:"course_id"`
	IsPinned bool    `json:"is_pinned"`
}

// UpdateDiscussionRequest is the whitelisted update payload.
type UpdateDiscussionRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1"`
	Content  *string `json:"content" validate:"omitempty,min=1"`
	IsPinned *bool   `json:"is_pinned"`
}

// CreateReplyRequest adds an answer to a thread.
type CreateReplyRequest struct {
	Content string `json:"content" validate:"required"`
}
