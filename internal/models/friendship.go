package models

import "gorm.io/gorm"

// Friend request statuses. A pending row is an inbound request awaiting the
// receiver's decision; an accepted row IS the friend edge. Declined requests
// and unfriended pairs are deleted rather than kept around.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// FriendRequest is the single edge record between two users. Friendship is
// derived from it: A and B are friends iff an accepted row exists in either
// orientation, so symmetry holds by construction and accept/unfriend are
// single-row updates.
type FriendRequest struct {
	gorm.Model
	SenderID   uint   `json:"sender_id" gorm:"index"`   // User ID of the sender
	ReceiverID uint   `json:"receiver_id" gorm:"index"` // User ID of the receiver
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending'"`
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

// ResolveFriendRequest defines the request body for accepting/declining a friend request
type ResolveFriendRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept decline"`
}
