package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linkup-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	CreatePoll(ctx context.Context, poll *models.Poll) error
	GetPollByID(ctx context.Context, id string) (*models.Poll, error)
	GetPollsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Poll, error)
	DeletePoll(ctx context.Context, id string) error
	Vote(ctx context.Context, pollID string, userID uint, optionIndex int) error
	IncrementCommentsCount(ctx context.Context, pollID string) error
	DecrementCommentsCount(ctx context.Context, pollID string) error
	SearchPolls(ctx context.Context, terms []string) ([]models.Poll, error)
	CountPolls(ctx context.Context) (int64, error)
}

// MongoPollRepository implements PollRepository for MongoDB
type MongoPollRepository struct {
	collection *mongo.Collection
}

// NewMongoPollRepository creates a new MongoPollRepository
func NewMongoPollRepository(db *mongo.Database) *MongoPollRepository {
	return &MongoPollRepository{collection: db.Collection("polls")}
}

// CreatePoll creates a new poll in MongoDB
func (r *MongoPollRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	poll.ID = primitive.NewObjectID()
	poll.CreatedAt = time.Now()
	poll.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, poll)
	return err
}

// GetPollByID retrieves a poll by ID from MongoDB
func (r *MongoPollRepository) GetPollByID(ctx context.Context, id string) (*models.Poll, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid poll ID format: %w", err)
	}

	var poll models.Poll
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&poll)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &poll, nil
}

// GetPollsByUserID retrieves polls owned by a specific user, newest first
func (r *MongoPollRepository) GetPollsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Poll, error) {
	var polls []models.Poll
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// DeletePoll deletes a poll by ID from MongoDB
func (r *MongoPollRepository) DeletePoll(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid poll ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Vote records a user's answer with a single conditional update: the filter
// requires the chosen option to exist and the user to be absent from
// voted_by, so double votes and out-of-range indexes never mutate the poll.
func (r *MongoPollRepository) Vote(ctx context.Context, pollID string, userID uint, optionIndex int) error {
	objID, err := primitive.ObjectIDFromHex(pollID)
	if err != nil {
		return fmt.Errorf("invalid poll ID format: %w", err)
	}

	userKey := "voted_by." + models.UserKey(userID)
	optionField := fmt.Sprintf("options.%d", optionIndex)
	filter := bson.M{
		"_id":       objID,
		optionField: bson.M{"$exists": true},
		userKey:     bson.M{"$exists": false},
	}
	update := bson.M{
		"$inc": bson.M{optionField + ".votes": 1},
		"$set": bson.M{userKey: optionIndex},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Work out which precondition failed
	poll, err := r.GetPollByID(ctx, pollID)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return ErrInvalidOption
	}
	return ErrAlreadyVoted
}

// IncrementCommentsCount increments the comments count of a poll
func (r *MongoPollRepository) IncrementCommentsCount(ctx context.Context, pollID string) error {
	objID, err := primitive.ObjectIDFromHex(pollID)
	if err != nil {
		return fmt.Errorf("invalid poll ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comments_count": 1}})
	return err
}

// DecrementCommentsCount decrements the comments count of a poll
func (r *MongoPollRepository) DecrementCommentsCount(ctx context.Context, pollID string) error {
	objID, err := primitive.ObjectIDFromHex(pollID)
	if err != nil {
		return fmt.Errorf("invalid poll ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comments_count": -1}})
	return err
}

// SearchPolls finds polls whose question or description contains any term as
// a case-insensitive word prefix
func (r *MongoPollRepository) SearchPolls(ctx context.Context, terms []string) ([]models.Poll, error) {
	var polls []models.Poll
	if len(terms) == 0 {
		return polls, nil
	}

	patterns := wordPrefixPatterns(terms)
	filter := bson.M{"$or": bson.A{
		bson.M{"question": bson.M{"$in": patterns}},
		bson.M{"description": bson.M{"$in": patterns}},
	}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// CountPolls returns the total number of polls
func (r *MongoPollRepository) CountPolls(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}
