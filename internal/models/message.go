package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message delivery statuses. Status only ever advances
// sent -> delivered -> read.
const (
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
)

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeFile  = "file"
)

type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID  primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	Content     string             `bson:"content" json:"content"`
	MessageType string             `bson:"message_type" json:"message_type"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// ValidMessageType reports whether t is an accepted message type.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile:
		return true
	}
	return false
}

// Conversation is a chat-list entry: one friend with the latest message
// between the two users and the count of messages not yet read.
type Conversation struct {
	Friend        PublicUser `json:"friend"`
	LatestMessage *Message   `json:"latest_message,omitempty"`
	UnreadCount   int64      `json:"unread_count"`
}
