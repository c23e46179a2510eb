package repositories

import (
	"errors"

	"github.com/linkup-social/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for the friend graph. The graph
// is stored as single edge records (see models.FriendRequest), so AreFriends
// is symmetric by construction and every mutation touches one row.
type FriendshipRepository interface {
	SendRequest(senderID, receiverID uint) (*models.FriendRequest, error)
	GetPendingForUser(userID uint) ([]models.FriendRequest, error)
	Accept(senderID, receiverID uint) error
	Decline(senderID, receiverID uint) error
	Unfriend(a, b uint) error
	AreFriends(a, b uint) (bool, error)
	FriendIDs(userID uint) ([]uint, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// SendRequest creates a pending edge from sender to receiver. If any edge
// already exists between the pair (pending either way, or accepted), nothing
// is written and ErrDuplicateEdge reports the "not sent" outcome.
func (r *PostgresFriendshipRepository) SendRequest(senderID, receiverID uint) (*models.FriendRequest, error) {
	var existing models.FriendRequest
	err := r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		senderID, receiverID, receiverID, senderID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEdge
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	req := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendStatusPending,
	}
	if err := r.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// GetPendingForUser retrieves all inbound pending friend requests for a user
func (r *PostgresFriendshipRepository) GetPendingForUser(userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.Where("receiver_id = ? AND status = ?", userID, models.FriendStatusPending).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Accept flips the pending edge to accepted. The conditional single-row
// update means readers never observe a half-created friendship, and a
// concurrent decline/accept on the same pair resolves to exactly one winner.
func (r *PostgresFriendshipRepository) Accept(senderID, receiverID uint) error {
	res := r.db.Model(&models.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, models.FriendStatusPending).
		Update("status", models.FriendStatusAccepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoPendingRequest
	}
	return nil
}

// Decline removes the pending edge; the pair goes back to having no relation
func (r *PostgresFriendshipRepository) Decline(senderID, receiverID uint) error {
	res := r.db.Where("sender_id = ? AND receiver_id = ? AND status = ?",
		senderID, receiverID, models.FriendStatusPending).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoPendingRequest
	}
	return nil
}

// Unfriend deletes the accepted edge between a and b, whichever way it points
func (r *PostgresFriendshipRepository) Unfriend(a, b uint) error {
	res := r.db.Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
		a, b, b, a, models.FriendStatusAccepted).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFriends
	}
	return nil
}

// AreFriends reports whether an accepted edge exists between a and b
func (r *PostgresFriendshipRepository) AreFriends(a, b uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.FriendRequest{}).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
			a, b, b, a, models.FriendStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FriendIDs returns the ids of all accepted counterparties of a user
// (the derived adjacency view over the edge records)
func (r *PostgresFriendshipRepository) FriendIDs(userID uint) ([]uint, error) {
	var edges []models.FriendRequest
	if err := r.db.Where("(sender_id = ? OR receiver_id = ?) AND status = ?",
		userID, userID, models.FriendStatusAccepted).
		Find(&edges).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.SenderID == userID {
			ids = append(ids, e.ReceiverID)
		} else {
			ids = append(ids, e.SenderID)
		}
	}
	return ids, nil
}
