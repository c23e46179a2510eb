package repositories

import (
	"errors"

	"github.com/linkup-social/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByParent(parentKind, parentID string) ([]models.Comment, error)
	DeleteComment(id uint) error
	DeleteCommentsByParent(parentKind, parentID string) error
	CountComments() (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByParent retrieves all comments on a post or poll, oldest first
func (r *PostgresCommentRepository) GetCommentsByParent(parentKind, parentID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("parent_kind = ? AND parent_id = ?", parentKind, parentID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment deletes a comment by ID
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	res := r.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCommentsByParent removes all comments on a post or poll, used when
// the parent itself is deleted
func (r *PostgresCommentRepository) DeleteCommentsByParent(parentKind, parentID string) error {
	return r.db.Where("parent_kind = ? AND parent_id = ?", parentKind, parentID).
		Delete(&models.Comment{}).Error
}

// CountComments returns the total number of comments
func (r *PostgresCommentRepository) CountComments() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
