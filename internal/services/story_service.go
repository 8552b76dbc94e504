package services

import (
	"context"
	"time"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryService owns ephemeral posts: fixed 24h expiry, per-viewer view
// sets and single-reaction-per-user semantics. Expiry is enforced
// logically on every read; the scheduled sweep only reclaims space.
type StoryService struct {
	storyRepo StoryStore
	userRepo  UserStore
}

func NewStoryService(storyRepo StoryStore, userRepo UserStore) *StoryService {
	return &StoryService{
		storyRepo: storyRepo,
		userRepo:  userRepo,
	}
}

// CreateStory validates the content for the story type and persists it.
func (s *StoryService) CreateStory(ctx context.Context, userID primitive.ObjectID, storyType, text, image, backgroundColor string) (*models.Story, error) {
	if storyType == "" {
		storyType = models.StoryTypeText
	}
	switch storyType {
	case models.StoryTypeText:
		if text == "" {
			return nil, apperrors.ErrMissingContent
		}
	case models.StoryTypeImage:
		if image == "" {
			return nil, apperrors.ErrMissingContent
		}
	default:
		return nil, apperrors.ErrMissingContent
	}

	if backgroundColor == "" {
		backgroundColor = models.DefaultStoryBackground
	}

	story := &models.Story{
		UserID:          userID,
		StoryType:       storyType,
		Text:            text,
		Image:           image,
		BackgroundColor: backgroundColor,
	}
	return s.storyRepo.CreateStory(ctx, story)
}

// GetFeed returns active stories from the user and their friends,
// grouped by author. Groups are ordered by each author's most recent
// story; the store already returns stories newest-first, so the first
// appearance of each author fixes the group order.
func (s *StoryService) GetFeed(ctx context.Context, userID primitive.ObjectID) ([]models.StoryGroup, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	authorIDs := append([]primitive.ObjectID{userID}, user.Friends...)
	stories, err := s.storyRepo.GetActiveForUsers(ctx, authorIDs, time.Now())
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		return []models.StoryGroup{}, nil
	}

	authors, err := s.userRepo.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authorByID := make(map[primitive.ObjectID]models.User, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	groupIndex := make(map[primitive.ObjectID]int)
	groups := make([]models.StoryGroup, 0)
	for _, story := range stories {
		idx, ok := groupIndex[story.UserID]
		if !ok {
			author := authorByID[story.UserID]
			groups = append(groups, models.StoryGroup{User: author.Public()})
			idx = len(groups) - 1
			groupIndex[story.UserID] = idx
		}
		groups[idx].Stories = append(groups[idx].Stories, story)
	}
	return groups, nil
}

// GetUserStories returns one author's active stories oldest-first. Only
// the author themselves or a friend may view them.
func (s *StoryService) GetUserStories(ctx context.Context, viewerID, targetID primitive.ObjectID) ([]models.Story, error) {
	if _, err := s.userRepo.GetUserByID(ctx, targetID); err != nil {
		return nil, err
	}

	if viewerID != targetID {
		viewer, err := s.userRepo.GetUserByID(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if !viewer.HasFriend(targetID) {
			return nil, apperrors.ErrForbidden
		}
	}

	return s.storyRepo.GetActiveForUser(ctx, targetID, time.Now())
}

// RecordView adds the viewer to the story's view set if absent and
// returns the resulting view count. Calling it again is a no-op.
func (s *StoryService) RecordView(ctx context.Context, viewerID, storyID primitive.ObjectID) (int, error) {
	story, err := s.storyRepo.GetStoryByID(ctx, storyID)
	if err != nil {
		return 0, err
	}
	if story.Expired(time.Now()) {
		return 0, apperrors.ErrNotFound
	}

	story, err = s.storyRepo.AddView(ctx, storyID, viewerID)
	if err != nil {
		return 0, err
	}
	return story.ViewCount(), nil
}

// React upserts the user's single reaction on a story.
func (s *StoryService) React(ctx context.Context, userID, storyID primitive.ObjectID, reaction string) (*models.Story, error) {
	if !models.ValidReaction(reaction) {
		return nil, apperrors.ErrInvalidReaction
	}

	story, err := s.storyRepo.GetStoryByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.Expired(time.Now()) {
		return nil, apperrors.ErrNotFound
	}

	return s.storyRepo.SetReaction(ctx, storyID, userID, reaction)
}

// DeleteStory removes a story; only its author may do so.
func (s *StoryService) DeleteStory(ctx context.Context, requesterID, storyID primitive.ObjectID) error {
	story, err := s.storyRepo.GetStoryByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != requesterID {
		return apperrors.ErrForbidden
	}
	return s.storyRepo.DeleteStory(ctx, storyID)
}

// SweepExpired physically deletes stories past their expiry. Reads
// filter by expires_at themselves, so sweep cadence never affects what
// callers observe.
func (s *StoryService) SweepExpired(ctx context.Context) (int64, error) {
	return s.storyRepo.DeleteExpired(ctx, time.Now())
}
