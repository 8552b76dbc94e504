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

// PostHandler manages HTTP endpoints for the permanent feed.
type PostHandler struct {
	Service *services.PostService
}

func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{Service: service}
}

// CreatePostHandler publishes a new post. Image posts carry a storage
// path previously produced by the upload endpoint.
func (h *PostHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	authorID, _ := primitive.ObjectIDFromHex(claims.UserID)
	post, err := h.Service.CreatePost(r.Context(), authorID, body.Content, body.Image)
	if err != nil {
		logger.Log.Warnf("Failed to create post: %v", err)
		writeError(w, err)
		return
	}

	logger.Log.Infof("User %s created post %s", claims.UserID, post.ID.Hex())
	writeJSON(w, http.StatusCreated, post)
}

// GetPostsHandler returns the latest posts, newest first.
func (h *PostHandler) GetPostsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	posts, err := h.Service.GetFeed(r.Context())
	if err != nil {
		logger.Log.Errorf("Failed to fetch posts: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// LikePostHandler toggles the caller's like on a post.
func (h *PostHandler) LikePostHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	post, err := h.Service.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		logger.Log.Warnf("Failed to toggle like on post %s: %v", postID.Hex(), err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// CommentPostHandler adds the caller's comment to a post.
func (h *PostHandler) CommentPostHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	post, err := h.Service.AddComment(r.Context(), userID, postID, body.Content)
	if err != nil {
		logger.Log.Warnf("Failed to comment on post %s: %v", postID.Hex(), err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}
