package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoryRepository struct {
	collection *mongo.Collection
}

func NewStoryRepository(db *mongo.Database) *StoryRepository {
	return &StoryRepository{collection: db.Collection("stories")}
}

// CreateStory inserts a new story with its fixed 24h expiry.
func (r *StoryRepository) CreateStory(ctx context.Context, story *models.Story) (*models.Story, error) {
	story.CreatedAt = time.Now()
	story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)

	result, err := r.collection.InsertOne(ctx, story)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %v", err)
	}
	story.ID = result.InsertedID.(primitive.ObjectID)
	return story, nil
}

func (r *StoryRepository) GetStoryByID(ctx context.Context, id primitive.ObjectID) (*models.Story, error) {
	var story models.Story
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&story)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find story: %v", err)
	}
	return &story, nil
}

// GetActiveForUsers returns unexpired stories by any of the given
// authors, newest first. Reads filter on expires_at themselves so a
// record the sweep has not reclaimed yet is never served as active.
func (r *StoryRepository) GetActiveForUsers(ctx context.Context, userIDs []primitive.ObjectID, now time.Time) ([]models.Story, error) {
	filter := bson.M{
		"user_id":    bson.M{"$in": userIDs},
		"expires_at": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stories: %v", err)
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, fmt.Errorf("failed to decode stories: %v", err)
	}
	return stories, nil
}

// GetActiveForUser returns one author's unexpired stories oldest-first,
// the order they are meant to be viewed in.
func (r *StoryRepository) GetActiveForUser(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]models.Story, error) {
	filter := bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user stories: %v", err)
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, fmt.Errorf("failed to decode stories: %v", err)
	}
	return stories, nil
}

// AddView adds the viewer to the story's view set if absent and returns
// the story after the update. $addToSet makes the call idempotent.
func (r *StoryRepository) AddView(ctx context.Context, storyID, viewerID primitive.ObjectID) (*models.Story, error) {
	update := bson.M{"$addToSet": bson.M{"views": viewerID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var story models.Story
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": storyID}, update, opts).Decode(&story)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to record story view: %v", err)
	}
	return &story, nil
}

// SetReaction upserts the user's single reaction on a story: an
// existing entry is replaced in place, otherwise one is pushed. The
// $ne guard on the push keeps a concurrent pair of calls from creating
// two entries for the same user.
func (r *StoryRepository) SetReaction(ctx context.Context, storyID, userID primitive.ObjectID, reaction string) (*models.Story, error) {
	now := time.Now()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": storyID, "reactions.user_id": userID},
		bson.M{"$set": bson.M{
			"reactions.$.reaction":   reaction,
			"reactions.$.created_at": now,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update reaction: %v", err)
	}

	if result.MatchedCount == 0 {
		entry := models.StoryReaction{UserID: userID, Reaction: reaction, CreatedAt: now}
		result, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": storyID, "reactions.user_id": bson.M{"$ne": userID}},
			bson.M{"$push": bson.M{"reactions": entry}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to add reaction: %v", err)
		}
		if result.MatchedCount == 0 {
			// Lost the race to our own $set path or the story is gone.
			if _, lookupErr := r.GetStoryByID(ctx, storyID); lookupErr != nil {
				return nil, apperrors.ErrNotFound
			}
		}
	}

	return r.GetStoryByID(ctx, storyID)
}

func (r *StoryRepository) DeleteStory(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete story: %v", err)
	}
	return nil
}

// DeleteExpired reclaims stories whose expiry has passed. Safe to run
// concurrently with reads; reads filter on expires_at independently.
func (r *StoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired stories: %v", err)
	}
	if result.DeletedCount > 0 {
		logrus.Infof("Deleted %d expired stories", result.DeletedCount)
	}
	return result.DeletedCount, nil
}
