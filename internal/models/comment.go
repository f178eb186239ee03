package models

import "time"

// Comment represents a comment on a post. ParentID threads replies;
// ReplyToUserID records which user a reply addresses.
type Comment struct {
	ID            string    `json:"id"`
	PostID        string    `json:"postId"`
	AuthorID      string    `json:"authorId"`
	Body          string    `json:"body"`
	Approved      bool      `json:"approved"`
	ParentID      *string   `json:"parentId,omitempty"`
	ReplyToUserID *string   `json:"replyToUserId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
