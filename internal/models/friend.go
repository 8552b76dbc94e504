package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend request lifecycle statuses. A request is terminal once it
// leaves "pending".
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// Friendship statuses reported by the status lookup.
const (
	FriendshipFriends  = "friends"
	FriendshipSent     = "sent"
	FriendshipReceived = "received"
	FriendshipNone     = "none"
)

type FriendRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// FriendshipStatus is the answer to "what is my relation to this user".
type FriendshipStatus struct {
	Status    string              `json:"status"`
	RequestID *primitive.ObjectID `json:"request_id,omitempty"`
}
