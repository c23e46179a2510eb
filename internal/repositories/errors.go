package repositories

import "errors"

// Sentinel errors handlers translate into HTTP statuses
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEdge    = errors.New("friend request or friendship already exists")
	ErrNoPendingRequest = errors.New("no pending friend request for this pair")
	ErrNotFriends       = errors.New("users are not friends")
	ErrAlreadyReacted   = errors.New("user already reacted to this post")
	ErrAlreadyVoted     = errors.New("user already answered this poll")
	ErrInvalidOption    = errors.New("poll option index out of range")
)
