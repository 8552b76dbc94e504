package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Adilzhan2201/Special_Network/internal/services"
	"github.com/Adilzhan2201/Special_Network/pkg/logger"
	"github.com/Adilzhan2201/Special_Network/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler manages HTTP endpoints for direct messaging.
type ChatHandler struct {
	Service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: service}
}

// SendMessageHandler persists a message to a friend and triggers the
// real-time push.
func (h *ChatHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		ReceiverID  string `json:"receiver_id"`
		Content     string `json:"content"`
		MessageType string `json:"message_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	receiverID, err := primitive.ObjectIDFromHex(body.ReceiverID)
	if err != nil {
		http.Error(w, "Invalid receiver ID", http.StatusBadRequest)
		return
	}
	if body.Content == "" {
		http.Error(w, "Message content is required", http.StatusBadRequest)
		return
	}
	senderID, _ := primitive.ObjectIDFromHex(claims.UserID)

	msg, err := h.Service.SendMessage(r.Context(), senderID, receiverID, body.Content, body.MessageType)
	if err != nil {
		logger.Log.Warnf("Failed to send message: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// GetHistoryHandler returns the latest messages with a friend in
// chronological order.
func (h *ChatHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	friendID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	messages, err := h.Service.GetHistory(r.Context(), userID, friendID)
	if err != nil {
		logger.Log.Errorf("Failed to get chat history: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// GetConversationsHandler returns the chat list with unread counts.
func (h *ChatHandler) GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	conversations, err := h.Service.GetConversations(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get conversations: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conversations)
}

// MarkReadHandler marks all messages from a friend as read.
func (h *ChatHandler) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	friendID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.MarkRead(r.Context(), userID, friendID); err != nil {
		logger.Log.Errorf("Failed to mark messages read: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}
