package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reaction kinds a user can put on a post
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionLaugh = "laugh"
	ReactionWow   = "wow"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

// UserKey renders a user id as a Mongo map key (BSON map keys must be strings).
func UserKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Post represents a social media post stored in MongoDB.
// Visibility: readable by the owner or any friend of the owner; posts have no
// public mode. Reactions live on the document itself so that the
// at-most-one-reaction-per-user rule can be enforced with a single
// conditional update.
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         uint               `json:"user_id" bson:"user_id"`
	Content        string             `json:"content" bson:"content"`
	ImageURL       string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	GifURL         string             `json:"gif_url,omitempty" bson:"gif_url,omitempty"`
	VideoURL       string             `json:"video_url,omitempty" bson:"video_url,omitempty"`
	ReactionCounts map[string]int     `json:"reaction_counts,omitempty" bson:"reaction_counts,omitempty"`
	ReactedBy      map[string]string  `json:"-" bson:"reacted_by,omitempty"` // user id key -> reaction kind
	CommentsCount  int                `json:"comments_count" bson:"comments_count"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// FeedEntry is the minimal post projection the feed assembler fans out for:
// just enough to merge, sort and window before hydrating the visible page.
type FeedEntry struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    uint               `bson:"user_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=280"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	GifURL   string `json:"gif_url,omitempty" validate:"omitempty,url"`
	VideoURL string `json:"video_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content  string `json:"content,omitempty" validate:"omitempty,min=1,max=280"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	GifURL   string `json:"gif_url,omitempty" validate:"omitempty,url"`
	VideoURL string `json:"video_url,omitempty" validate:"omitempty,url"`
}

// ReactRequest defines the request body for reacting to a post
type ReactRequest struct {
	Kind string `json:"kind" validate:"required,oneof=like love laugh wow sad angry"`
}
