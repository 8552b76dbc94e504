package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/internal/services"
	"github.com/Adilzhan2201/Special_Network/pkg/logger"
	"github.com/Adilzhan2201/Special_Network/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryHandler manages HTTP endpoints for ephemeral stories.
type StoryHandler struct {
	Service *services.StoryService
}

func NewStoryHandler(service *services.StoryService) *StoryHandler {
	return &StoryHandler{Service: service}
}

// storyResponse augments a story with its derived counts.
type storyResponse struct {
	models.Story
	ViewCount       int            `json:"view_count"`
	ReactionSummary map[string]int `json:"reaction_summary"`
}

func toStoryResponse(s models.Story) storyResponse {
	return storyResponse{
		Story:           s,
		ViewCount:       s.ViewCount(),
		ReactionSummary: s.ReactionSummary(),
	}
}

// CreateStoryHandler posts a new story. Image stories carry a storage
// path previously produced by the upload endpoint.
func (h *StoryHandler) CreateStoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		StoryType       string `json:"story_type"`
		Text            string `json:"text"`
		Image           string `json:"image"`
		BackgroundColor string `json:"background_color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	story, err := h.Service.CreateStory(r.Context(), userID, body.StoryType, body.Text, body.Image, body.BackgroundColor)
	if err != nil {
		logger.Log.Warnf("Failed to create story: %v", err)
		writeError(w, err)
		return
	}

	logger.Log.Infof("User %s created story %s", claims.UserID, story.ID.Hex())
	writeJSON(w, http.StatusCreated, toStoryResponse(*story))
}

// GetFeedHandler returns active stories from the user and their
// friends, grouped by author.
func (h *StoryHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	groups, err := h.Service.GetFeed(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch story feed: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

// GetUserStoriesHandler returns one author's active stories in viewing
// order.
func (h *StoryHandler) GetUserStoriesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	viewerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	stories, err := h.Service.GetUserStories(r.Context(), viewerID, targetID)
	if err != nil {
		logger.Log.Warnf("Failed to fetch user stories: %v", err)
		writeError(w, err)
		return
	}

	responses := make([]storyResponse, 0, len(stories))
	for _, s := range stories {
		responses = append(responses, toStoryResponse(s))
	}
	writeJSON(w, http.StatusOK, responses)
}

// ViewStoryHandler records the caller as a viewer; repeated calls do
// not change the count.
func (h *StoryHandler) ViewStoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	storyID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}
	viewerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	count, err := h.Service.RecordView(r.Context(), viewerID, storyID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"view_count": count})
}

// ReactStoryHandler sets or replaces the caller's reaction.
func (h *StoryHandler) ReactStoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	storyID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Reaction string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	story, err := h.Service.React(r.Context(), userID, storyID, body.Reaction)
	if err != nil {
		logger.Log.Warnf("Failed to react to story: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStoryResponse(*story))
}

// DeleteStoryHandler removes the caller's own story.
func (h *StoryHandler) DeleteStoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	storyID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.DeleteStory(r.Context(), userID, storyID); err != nil {
		logger.Log.Warnf("Failed to delete story: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Story deleted"})
}
