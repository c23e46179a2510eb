package models

import "gorm.io/gorm"

// Comment parent kinds. The parent carries its own type discriminator instead
// of being resolved by probing both collections.
const (
	ParentKindPost = "post"
	ParentKindPoll = "poll"
)

// Comment represents a comment on a post or a poll
type Comment struct {
	gorm.Model
	ParentKind string `json:"parent_kind" gorm:"type:varchar(10);index:idx_comment_parent"`
	ParentID   string `json:"parent_id" gorm:"index:idx_comment_parent"` // Mongo ObjectID hex of the parent document
	UserID     uint   `json:"user_id" gorm:"index"`
	Content    string `json:"content"`
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	ParentKind string `json:"parent_kind" validate:"required,oneof=post poll"`
	ParentID   string `json:"parent_id" validate:"required"`
	Content    string `json:"content" validate:"required,min=1,max=500"`
}
