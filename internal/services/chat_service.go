package services

import (
	"context"
	"sort"

	"github.com/Adilzhan2201/Special_Network/internal/hub"
	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryLimit caps how many messages a single history call returns.
const HistoryLimit = 100

// ChatService owns direct messages and their delivery/read status.
// Real-time pushes go through the notifier after the store write; they
// are best-effort and never part of the durability contract.
type ChatService struct {
	chatRepo MessageStore
	userRepo UserStore
	notifier Notifier
}

func NewChatService(chatRepo MessageStore, userRepo UserStore, notifier Notifier) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// SendMessage persists a message between two current friends and pushes
// new_message to the receiver plus a message_sent echo to the sender.
// Friendship is checked at send time only; an existing history is not
// re-validated if the friendship later ends.
func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, content, messageType string) (*models.Message, error) {
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if !models.ValidMessageType(messageType) {
		messageType = models.MessageTypeText
	}

	sender, err := s.userRepo.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if !sender.HasFriend(receiverID) {
		return nil, apperrors.ErrNotFriends
	}

	msg := &models.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		MessageType: messageType,
	}
	msg, err = s.chatRepo.InsertMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(receiverID.Hex(), hub.EventNewMessage, msg)
	s.notifier.Notify(senderID.Hex(), hub.EventMessageSent, msg)

	return msg, nil
}

// GetHistory returns the latest messages between two users in
// chronological order.
func (s *ChatService) GetHistory(ctx context.Context, userID, friendID primitive.ObjectID) ([]models.Message, error) {
	return s.chatRepo.GetHistory(ctx, userID, friendID, HistoryLimit)
}

// GetConversations builds the chat list: every friend with the latest
// message between the pair and the unread count, ordered by latest
// message time descending. Friends without any messages sort last.
func (s *ChatService) GetConversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Friends) == 0 {
		return []models.Conversation{}, nil
	}

	friends, err := s.userRepo.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, err
	}

	conversations := make([]models.Conversation, 0, len(friends))
	for _, friend := range friends {
		latest, err := s.chatRepo.GetLatestBetween(ctx, userID, friend.ID)
		if err != nil {
			return nil, err
		}
		unread, err := s.chatRepo.CountUnread(ctx, userID, friend.ID)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, models.Conversation{
			Friend:        friend.Public(),
			LatestMessage: latest,
			UnreadCount:   unread,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i].LatestMessage, conversations[j].LatestMessage
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return conversations, nil
}

// MarkRead bulk-transitions all unread messages from friendID to userID
// to read and notifies the counterparty.
func (s *ChatService) MarkRead(ctx context.Context, userID, friendID primitive.ObjectID) error {
	if _, err := s.chatRepo.MarkRead(ctx, userID, friendID); err != nil {
		return err
	}

	s.notifier.Notify(friendID.Hex(), hub.EventMessagesRead, hub.ReadReceiptPayload{
		ReadBy:      userID.Hex(),
		ChatPartner: friendID.Hex(),
	})
	return nil
}
