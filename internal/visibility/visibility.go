// Package visibility holds the single read-access rule for owned content.
// Feed assembly, single-item retrieval and search filtering must all go
// through it so the three call sites cannot drift apart.
package visibility

import "github.com/linkup-social/backend/internal/repositories"

// Flags describe the visibility-relevant attributes of a piece of content.
// Posts are always friend-only; polls carry their own flag.
type Flags struct {
	FriendOnly bool
}

// PostFlags returns the flags for a post: no public mode, ever.
func PostFlags() Flags {
	return Flags{FriendOnly: true}
}

// PollFlags returns the flags for a poll.
func PollFlags(isFriendOnly bool) Flags {
	return Flags{FriendOnly: isFriendOnly}
}

// CanView is the pure predicate: the caller may view if they own the content,
// if the content is not friend-only, or if they are a friend of the owner.
func CanView(callerID, ownerID uint, flags Flags, isFriend bool) bool {
	if callerID == ownerID {
		return true
	}
	if !flags.FriendOnly {
		return true
	}
	return isFriend
}

// Checker resolves the friend edge from the repository and applies CanView.
type Checker struct {
	friendships repositories.FriendshipRepository
}

// NewChecker creates a Checker over the given friend graph.
func NewChecker(friendships repositories.FriendshipRepository) *Checker {
	return &Checker{friendships: friendships}
}

// CanView reports whether the caller may read content owned by ownerID.
// The friend edge is only queried when the cheap clauses don't settle it.
func (c *Checker) CanView(callerID, ownerID uint, flags Flags) (bool, error) {
	if CanView(callerID, ownerID, flags, false) {
		return true, nil
	}
	isFriend, err := c.friendships.AreFriends(callerID, ownerID)
	if err != nil {
		return false, err
	}
	return CanView(callerID, ownerID, flags, isFriend), nil
}
