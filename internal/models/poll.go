package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PollOption is one answer with its running vote counter
type PollOption struct {
	Text  string `json:"text" bson:"text"`
	Votes int    `json:"votes" bson:"votes"`
}

// Poll represents a poll stored in MongoDB.
// Visibility: public unless IsFriendOnly, then owner-or-friend only. VotedBy
// maps a user id key to the option index they picked, enforcing
// at-most-one-vote-per-user with a single conditional update.
type Poll struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	Question      string             `json:"question" bson:"question"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Options       []PollOption       `json:"options" bson:"options"`
	IsFriendOnly  bool               `json:"is_friend_only" bson:"is_friend_only"`
	VotedBy       map[string]int     `json:"-" bson:"voted_by,omitempty"` // user id key -> option index
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePollRequest defines the request body for creating a new poll
type CreatePollRequest struct {
	Question     string   `json:"question" validate:"required,min=1,max=280"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=500"`
	Options      []string `json:"options" validate:"required,min=2,max=10,dive,required,max=100"`
	IsFriendOnly bool     `json:"is_friend_only"`
}

// VoteRequest defines the request body for answering a poll
type VoteRequest struct {
	OptionIndex *int `json:"option_index" validate:"required,min=0"`
}
