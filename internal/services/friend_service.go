package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Points added to a suggestion candidate sharing the user's declared
// disability trait.
const sharedTraitBonus = 5

// suggestionPoolSize is how many candidates are fetched before ranking.
const suggestionPoolSize = 20

// nonFriendsLimit caps the unranked fallback list.
const nonFriendsLimit = 10

// FriendService handles business logic for managing friendships.
type FriendService struct {
	friendRepo FriendRequestStore
	userRepo   UserStore
}

// NewFriendService creates a new FriendService.
func NewFriendService(friendRepo FriendRequestStore, userRepo UserStore) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendFriendRequest creates a new pending friend request after checking
// the pair is eligible: not the same user, not already friends, and no
// request in either direction.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, apperrors.ErrSelfReference
	}

	if _, err := s.userRepo.GetUserByID(ctx, receiverID); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender.HasFriend(receiverID) {
		return nil, apperrors.ErrAlreadyFriends
	}

	// Reverse-pair check; the unique index only covers one ordering.
	if _, err := s.friendRepo.FindBetween(ctx, senderID, receiverID); err == nil {
		return nil, apperrors.ErrDuplicateRequest
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
	return s.friendRepo.CreateRequest(ctx, request)
}

// GetPendingRequests fetches all pending requests for the receiver.
func (s *FriendService) GetPendingRequests(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.friendRepo.GetRequestsByReceiver(ctx, receiverID)
}

// RespondToRequest resolves a pending request. Only the receiver may
// respond, and only once: the conditional update inside ResolveRequest
// rejects a concurrent second accept with ErrAlreadyProcessed. On
// accept, both friend sets are updated; the $addToSet writes are
// idempotent, so a crash between them is repaired by retrying.
func (s *FriendService) RespondToRequest(ctx context.Context, requestID, actingUser primitive.ObjectID, accept bool) (*models.FriendRequest, error) {
	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ReceiverID != actingUser {
		return nil, apperrors.ErrForbidden
	}

	status := models.RequestStatusRejected
	if accept {
		status = models.RequestStatusAccepted
	}

	resolved, err := s.friendRepo.ResolveRequest(ctx, requestID, status)
	if err != nil {
		return nil, err
	}

	if accept {
		err := withRetry(ctx, 3, func() error {
			if err := s.userRepo.AddFriend(ctx, resolved.SenderID, resolved.ReceiverID); err != nil {
				return err
			}
			return s.userRepo.AddFriend(ctx, resolved.ReceiverID, resolved.SenderID)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update friend lists: %w", err)
		}
	}

	return resolved, nil
}

// GetFriends returns the user's friends as public profiles.
func (s *FriendService) GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Friends) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	publicFriends := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		publicFriends = append(publicFriends, u.Public())
	}
	return publicFriends, nil
}

// GetFriendshipStatus reports the relation between two users. The
// friends set wins over the request table: an accepted request with the
// friendship already materialized reports "friends".
func (s *FriendService) GetFriendshipStatus(ctx context.Context, userID, otherID primitive.ObjectID) (*models.FriendshipStatus, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasFriend(otherID) {
		return &models.FriendshipStatus{Status: models.FriendshipFriends}, nil
	}

	request, err := s.friendRepo.FindBetween(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &models.FriendshipStatus{Status: models.FriendshipNone}, nil
		}
		return nil, err
	}

	status := models.FriendshipReceived
	if request.SenderID == userID {
		status = models.FriendshipSent
	}
	return &models.FriendshipStatus{Status: status, RequestID: &request.ID}, nil
}

// GetSuggestions ranks users the requester might befriend. Candidates
// exclude self, existing friends and anyone in a pending request with
// the user; sharing the declared disability trait earns a fixed bonus,
// ties keep the store's stable order.
func (s *FriendService) GetSuggestions(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.friendRepo.GetPendingInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	excluded := make([]primitive.ObjectID, 0, len(user.Friends)+len(pending)+1)
	excluded = append(excluded, userID)
	excluded = append(excluded, user.Friends...)
	for _, req := range pending {
		if req.SenderID == userID {
			excluded = append(excluded, req.ReceiverID)
		} else {
			excluded = append(excluded, req.SenderID)
		}
	}

	candidates, err := s.userRepo.FindUsersExcluding(ctx, excluded, suggestionPoolSize)
	if err != nil {
		return nil, err
	}

	score := func(c models.User) int {
		if user.Disability != "" && c.Disability == user.Disability {
			return sharedTraitBonus
		}
		return 0
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i]) > score(candidates[j])
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	suggestions := make([]models.PublicUser, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.Public())
	}
	return suggestions, nil
}

// GetNonFriends returns up to ten users who are neither the requester
// nor already a friend, unranked. Fallback for when suggestions come
// back empty; unlike GetSuggestions it does not exclude users with a
// pending request.
func (s *FriendService) GetNonFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	excluded := append([]primitive.ObjectID{userID}, user.Friends...)
	candidates, err := s.userRepo.FindUsersExcluding(ctx, excluded, nonFriendsLimit)
	if err != nil {
		return nil, err
	}

	nonFriends := make([]models.PublicUser, 0, len(candidates))
	for _, c := range candidates {
		nonFriends = append(nonFriends, c.Public())
	}
	return nonFriends, nil
}

// RemoveFriend drops the symmetric relation between two users.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	return s.userRepo.RemoveFriend(ctx, userID, friendID)
}
