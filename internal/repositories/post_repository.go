package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/linkup-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, error)
	GetFeedEntriesByUserID(ctx context.Context, userID uint) ([]models.FeedEntry, error)
	GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]models.Post, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	React(ctx context.Context, postID string, userID uint, kind string) error
	Unreact(ctx context.Context, postID string, userID uint) error
	IncrementCommentsCount(ctx context.Context, postID string) error
	DecrementCommentsCount(ctx context.Context, postID string) error
	SearchPosts(ctx context.Context, terms []string) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByUserID retrieves posts owned by a specific user, newest first
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetFeedEntriesByUserID retrieves the minimal (id, owner, created_at)
// projection of a user's posts, newest first, for feed assembly
func (r *MongoPostRepository) GetFeedEntriesByUserID(ctx context.Context, userID uint) ([]models.FeedEntry, error) {
	var entries []models.FeedEntry
	findOptions := options.Find().
		SetProjection(bson.M{"_id": 1, "user_id": 1, "created_at": 1}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPostsByIDs retrieves full posts for a set of ids, keyed by hex id
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]models.Post, error) {
	byID := make(map[string]models.Post, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	for _, p := range posts {
		byID[p.ID.Hex()] = p
	}
	return byID, nil
}

// UpdatePost updates an existing post in MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"content":    post.Content,
			"image_url":  post.ImageURL,
			"gif_url":    post.GifURL,
			"video_url":  post.VideoURL,
			"updated_at": post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
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

// React records a reaction for a user with a single conditional update: the
// filter only matches while the user has no entry in reacted_by, so a second
// reaction cannot race past the first.
func (r *MongoPostRepository) React(ctx context.Context, postID string, userID uint, kind string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	userKey := "reacted_by." + models.UserKey(userID)
	filter := bson.M{"_id": objID, userKey: bson.M{"$exists": false}}
	update := bson.M{
		"$inc": bson.M{"reaction_counts." + kind: 1},
		"$set": bson.M{userKey: kind},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the post is gone or the user already reacted
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyReacted
	}
	return nil
}

// Unreact removes a user's reaction, decrementing the counter for whichever
// kind they had picked
func (r *MongoPostRepository) Unreact(ctx context.Context, postID string, userID uint) error {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	userKey := "reacted_by." + models.UserKey(userID)
	kind, ok := post.ReactedBy[models.UserKey(userID)]
	if !ok {
		return ErrNotFound
	}

	// Conditional on the recorded kind so a concurrent unreact only wins once
	filter := bson.M{"_id": post.ID, userKey: kind}
	update := bson.M{
		"$inc":   bson.M{"reaction_counts." + kind: -1},
		"$unset": bson.M{userKey: ""},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementCommentsCount increments the comments count of a post
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comments_count": 1}})
	return err
}

// DecrementCommentsCount decrements the comments count of a post
func (r *MongoPostRepository) DecrementCommentsCount(ctx context.Context, postID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comments_count": -1}})
	return err
}

// SearchPosts finds posts whose content contains any term as a case-insensitive
// word prefix
func (r *MongoPostRepository) SearchPosts(ctx context.Context, terms []string) ([]models.Post, error) {
	var posts []models.Post
	if len(terms) == 0 {
		return posts, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"content": bson.M{"$in": wordPrefixPatterns(terms)}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the total number of posts
func (r *MongoPostRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

// wordPrefixPatterns builds case-insensitive regexes matching a term at the
// start of the field or the start of any word in it
func wordPrefixPatterns(terms []string) []primitive.Regex {
	patterns := make([]primitive.Regex, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, primitive.Regex{
			Pattern: `(^|\s)` + regexp.QuoteMeta(term),
			Options: "i",
		})
	}
	return patterns
}
