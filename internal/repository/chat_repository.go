package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository struct {
	collection *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{collection: db.Collection("messages")}
}

// InsertMessage persists a new message. Ordering within a conversation
// is determined by the created_at we assign here, not arrival order.
func (r *ChatRepository) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.CreatedAt = time.Now()
	msg.Status = models.MessageStatusSent

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %v", err)
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)
	return msg, nil
}

func betweenFilter(userID, friendID primitive.ObjectID) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"sender_id": userID, "receiver_id": friendID},
			{"sender_id": friendID, "receiver_id": userID},
		},
	}
}

// GetHistory returns the most recent limit messages between two users,
// presented oldest-first.
func (r *ChatRepository) GetHistory(ctx context.Context, userID, friendID primitive.ObjectID, limit int64) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, betweenFilter(userID, friendID), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat history: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}

	// Took the latest limit entries; flip to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetLatestBetween returns the newest message between two users, or nil
// when the pair has never exchanged one.
func (r *ChatRepository) GetLatestBetween(ctx context.Context, userID, friendID primitive.ObjectID) (*models.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var msg models.Message
	err := r.collection.FindOne(ctx, betweenFilter(userID, friendID), opts).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest message: %v", err)
	}
	return &msg, nil
}

// CountUnread counts messages from friendID to userID not yet read.
func (r *ChatRepository) CountUnread(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"sender_id":   friendID,
		"receiver_id": userID,
		"status":      bson.M{"$ne": models.MessageStatusRead},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %v", err)
	}
	return count, nil
}

// MarkRead bulk-transitions every unread message from friendID to
// userID to read. Returns how many messages changed.
func (r *ChatRepository) MarkRead(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"sender_id":   friendID,
		"receiver_id": userID,
		"status":      bson.M{"$ne": models.MessageStatusRead},
	}
	result, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.MessageStatusRead}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %v", err)
	}
	return result.ModifiedCount, nil
}
