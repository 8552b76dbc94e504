package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post.
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %v", err)
	}
	post.ID = result.InsertedID.(primitive.ObjectID)
	return post, nil
}

func (r *PostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find post: %v", err)
	}
	return &post, nil
}

// GetAll returns up to limit posts, newest first.
func (r *PostRepository) GetAll(ctx context.Context, limit int64) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %v", err)
	}
	return posts, nil
}

// ToggleLike removes the user from the likes set if present, otherwise
// adds them. Each leg is a single conditional update, so concurrent
// toggles by the same user cannot double-insert.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to unlike post: %v", err)
	}

	if result.MatchedCount == 0 {
		result, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": postID},
			bson.M{"$addToSet": bson.M{"likes": userID}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to like post: %v", err)
		}
		if result.MatchedCount == 0 {
			return nil, apperrors.ErrNotFound
		}
	}

	return r.GetPostByID(ctx, postID)
}

// AddComment appends a comment to the post and returns the post after
// the update.
func (r *PostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.PostComment) (*models.Post, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.GetPostByID(ctx, postID)
}
