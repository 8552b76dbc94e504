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

type FriendRepository struct {
	collection *mongo.Collection
}

func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		collection: db.Collection("friend_requests"),
	}
}

// CreateRequest inserts a new pending friend request. The unique index
// on (sender_id, receiver_id) rejects a duplicate for the same ordering.
func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.CreatedAt = time.Now()
	req.Status = models.RequestStatusPending

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrDuplicateRequest
		}
		return nil, fmt.Errorf("failed to send friend request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

// GetRequestsByReceiver returns all pending requests addressed to a user.
func (r *FriendRepository) GetRequestsByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{"receiver_id": receiverID, "status": models.RequestStatusPending}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode friend requests: %v", err)
	}
	return requests, nil
}

// FindBetween returns the request involving the two users in either
// direction, regardless of status, or ErrNotFound.
func (r *FriendRepository) FindBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userA, "receiver_id": userB},
			{"sender_id": userB, "receiver_id": userA},
		},
	}
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}

// GetPendingInvolving returns all pending requests where the user is
// either side. Used to exclude candidates from suggestions.
func (r *FriendRepository) GetPendingInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{
		"status": models.RequestStatusPending,
		"$or": []bson.M{
			{"sender_id": userID},
			{"receiver_id": userID},
		},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode pending requests: %v", err)
	}
	return requests, nil
}

// ResolveRequest flips a still-pending request to the given terminal
// status and returns the resolved document. The status filter makes the
// check-then-set a single atomic update: a concurrent second resolve
// matches nothing and reports ErrAlreadyProcessed.
func (r *FriendRepository) ResolveRequest(ctx context.Context, id primitive.ObjectID, status string) (*models.FriendRequest, error) {
	filter := bson.M{"_id": id, "status": models.RequestStatusPending}
	update := bson.M{"$set": bson.M{"status": status}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var request models.FriendRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the request never existed or it was already resolved.
			if _, lookupErr := r.GetRequestByID(ctx, id); lookupErr == nil {
				return nil, apperrors.ErrAlreadyProcessed
			}
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve friend request: %v", err)
	}
	return &request, nil
}

func (r *FriendRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}
