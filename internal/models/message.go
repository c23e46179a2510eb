package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct chat message stored in MongoDB
type Message struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID string             `json:"conversation_id" bson:"conversation_id"`
	SenderID       uint               `json:"sender_id" bson:"sender_id"`
	RecipientID    uint               `json:"recipient_id" bson:"recipient_id"`
	Content        string             `json:"content" bson:"content"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// ConversationKey builds the canonical conversation id for a user pair,
// independent of who is sending.
func ConversationKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// ChatPayload is what a connected client sends over the websocket
type ChatPayload struct {
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
}
