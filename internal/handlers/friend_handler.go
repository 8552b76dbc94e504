package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Adilzhan2201/Special_Network/internal/services"
	"github.com/Adilzhan2201/Special_Network/pkg/logger"
	"github.com/Adilzhan2201/Special_Network/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultSuggestionLimit = 10

// FriendHandler manages HTTP endpoints related to friend requests.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// SendFriendRequestHandler allows a user to send a friend request.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	senderID, _ := primitive.ObjectIDFromHex(claims.UserID)

	request, err := h.Service.SendFriendRequest(r.Context(), senderID, receiverID)
	if err != nil {
		logger.Log.Warnf("Failed to send friend request: %v", err)
		writeError(w, err)
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", claims.UserID, receiverID.Hex())
	writeJSON(w, http.StatusCreated, request)
}

// GetPendingRequestsHandler shows all incoming friend requests.
func (h *FriendHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	requests, err := h.Service.GetPendingRequests(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get pending requests: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// RespondToFriendRequestHandler allows accepting or rejecting a friend request.
func (h *FriendHandler) RespondToFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requestID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	actingUser, _ := primitive.ObjectIDFromHex(claims.UserID)
	request, err := h.Service.RespondToRequest(r.Context(), requestID, actingUser, body.Accept)
	if err != nil {
		logger.Log.Warnf("Failed to respond to friend request %s: %v", requestID.Hex(), err)
		writeError(w, err)
		return
	}

	logger.Log.Infof("User %s responded to friend request %s (accepted: %v)", claims.UserID, requestID.Hex(), body.Accept)
	writeJSON(w, http.StatusOK, request)
}

// GetFriendsHandler returns a list of user's friends.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	friends, err := h.Service.GetFriends(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch friends for user %s: %v", claims.UserID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, friends)
}

// GetSuggestionsHandler returns ranked friend suggestions.
func (h *FriendHandler) GetSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	limit := defaultSuggestionLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	suggestions, err := h.Service.GetSuggestions(r.Context(), userID, limit)
	if err != nil {
		logger.Log.Errorf("Failed to get suggestions: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestions)
}

// GetNonFriendsHandler returns the unranked fallback list of users the
// caller is not friends with.
func (h *FriendHandler) GetNonFriendsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	nonFriends, err := h.Service.GetNonFriends(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get non-friends: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nonFriends)
}

// GetStatusHandler reports the friendship status with another user.
func (h *FriendHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	status, err := h.Service.GetFriendshipStatus(r.Context(), userID, otherID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// RemoveFriendHandler removes the symmetric friendship with another user.
func (h *FriendHandler) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Service.RemoveFriend(r.Context(), userID, friendID); err != nil {
		logger.Log.Errorf("Failed to remove friend: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}
