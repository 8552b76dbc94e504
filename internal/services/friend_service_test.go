package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFriendFixture() (*FriendService, *fakeUserStore, *fakeRequestStore) {
	users := newFakeUserStore()
	requests := newFakeRequestStore()
	return NewFriendService(requests, users), users, requests
}

func TestSendFriendRequest(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")

	req, err := svc.SendFriendRequest(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Equal(t, alice, req.SenderID)
	assert.Equal(t, bob, req.ReceiverID)
}

func TestSendFriendRequestToSelf(t *testing.T) {
	svc, users, _ := newFriendFixture()
	alice := users.addUser("alice", "")

	_, err := svc.SendFriendRequest(context.Background(), alice, alice)
	assert.ErrorIs(t, err, apperrors.ErrSelfReference)
}

func TestSendFriendRequestUnknownReceiver(t *testing.T) {
	svc, users, _ := newFriendFixture()
	alice := users.addUser("alice", "")

	_, err := svc.SendFriendRequest(context.Background(), alice, primitive.NewObjectID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSendFriendRequestDuplicate(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")

	_, err := svc.SendFriendRequest(ctx, alice, bob)
	require.NoError(t, err)

	_, err = svc.SendFriendRequest(ctx, alice, bob)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)

	// Reverse direction is blocked too.
	_, err = svc.SendFriendRequest(ctx, bob, alice)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
}

func TestSendFriendRequestAlreadyFriends(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")
	require.NoError(t, users.AddFriend(ctx, alice, bob))
	require.NoError(t, users.AddFriend(ctx, bob, alice))

	_, err := svc.SendFriendRequest(ctx, alice, bob)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyFriends)
}

func TestRespondToRequestAccept(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")

	req, err := svc.SendFriendRequest(ctx, alice, bob)
	require.NoError(t, err)

	resolved, err := svc.RespondToRequest(ctx, req.ID, bob, true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, resolved.Status)

	// Both friend sets gained exactly one entry.
	aliceUser, err := users.GetUserByID(ctx, alice)
	require.NoError(t, err)
	bobUser, err := users.GetUserByID(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob}, aliceUser.Friends)
	assert.Equal(t, []primitive.ObjectID{alice}, bobUser.Friends)
}

func TestRespondToRequestReject(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")

	req, err := svc.SendFriendRequest(ctx, alice, bob)
	require.NoError(t, err)

	resolved, err := svc.RespondToRequest(ctx, req.ID, bob, false)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, resolved.Status)

	aliceUser, err := users.GetUserByID(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceUser.Friends)
}

func TestRespondToRequestOnlyReceiver(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")
	carol := users.addUser("carol", "")

	req, err := svc.SendFriendRequest(ctx, alice, bob)
	require.NoError(t, err)

	// Neither the sender nor a bystander may resolve it.
	_, err = svc.RespondToRequest(ctx, req.ID, alice, true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.RespondToRequest(ctx, req.ID, carol, true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRespondToRequestTwice(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")

	req, err := svc.SendFriendRequest(ctx, alice, bob)
	require.NoError(t, err)

	_, err = svc.RespondToRequest(ctx, req.ID, bob, true)
	require.NoError(t, err)

	_, err = svc.RespondToRequest(ctx, req.ID, bob, false)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)
}

func TestRespondToRequestConcurrentAccept(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")

	req, err := svc.SendFriendRequest(ctx, alice, bob)
	require.NoError(t, err)

	const attempts = 8
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.RespondToRequest(ctx, req.ID, bob, true)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, apperrors.ErrAlreadyProcessed))
		}
	}
	assert.Equal(t, 1, succeeded)

	// Friend sets stay deduplicated regardless of how the race played out.
	bobUser, err := users.GetUserByID(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{alice}, bobUser.Friends)
}

func TestGetFriendshipStatus(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")
	carol := users.addUser("carol", "")

	status, err := svc.GetFriendshipStatus(ctx, alice, carol)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipNone, status.Status)

	req, err := svc.SendFriendRequest(ctx, alice, bob)
	require.NoError(t, err)

	status, err = svc.GetFriendshipStatus(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipSent, status.Status)
	require.NotNil(t, status.RequestID)
	assert.Equal(t, req.ID, *status.RequestID)

	status, err = svc.GetFriendshipStatus(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipReceived, status.Status)

	_, err = svc.RespondToRequest(ctx, req.ID, bob, true)
	require.NoError(t, err)

	status, err = svc.GetFriendshipStatus(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipFriends, status.Status)
}

func TestGetSuggestionsRanking(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "visual")
	users.addUser("bob", "hearing")
	users.addUser("carol", "visual")
	users.addUser("dave", "")

	suggestions, err := svc.GetSuggestions(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	// Shared trait first, remaining candidates keep store order.
	assert.Equal(t, "carol", suggestions[0].Name)
	assert.Equal(t, "bob", suggestions[1].Name)
	assert.Equal(t, "dave", suggestions[2].Name)
}

func TestGetSuggestionsExclusions(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")
	carol := users.addUser("carol", "")
	dave := users.addUser("dave", "")
	eve := users.addUser("eve", "")

	// bob is already a friend, carol has a pending request from alice,
	// dave has a pending request to alice.
	require.NoError(t, users.AddFriend(ctx, alice, bob))
	_, err := svc.SendFriendRequest(ctx, alice, carol)
	require.NoError(t, err)
	_, err = svc.SendFriendRequest(ctx, dave, alice)
	require.NoError(t, err)

	suggestions, err := svc.GetSuggestions(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, eve, suggestions[0].ID)
}

func TestGetSuggestionsLimit(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	for i := 0; i < 15; i++ {
		users.addUser("user"+string(rune('a'+i)), "")
	}

	suggestions, err := svc.GetSuggestions(ctx, alice, 10)
	require.NoError(t, err)
	assert.Len(t, suggestions, 10)
}

func TestGetNonFriends(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")
	carol := users.addUser("carol", "")
	dave := users.addUser("dave", "")
	require.NoError(t, users.AddFriend(ctx, alice, bob))

	// Pending requests do not exclude anyone from the fallback list.
	_, err := svc.SendFriendRequest(ctx, alice, carol)
	require.NoError(t, err)

	nonFriends, err := svc.GetNonFriends(ctx, alice)
	require.NoError(t, err)
	require.Len(t, nonFriends, 2)
	assert.Equal(t, carol, nonFriends[0].ID)
	assert.Equal(t, dave, nonFriends[1].ID)
}

func TestGetNonFriendsLimit(t *testing.T) {
	svc, users, _ := newFriendFixture()
	alice := users.addUser("alice", "")
	for i := 0; i < 14; i++ {
		users.addUser("user"+string(rune('a'+i)), "")
	}

	nonFriends, err := svc.GetNonFriends(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, nonFriends, 10)
}

func TestRemoveFriend(t *testing.T) {
	svc, users, _ := newFriendFixture()
	ctx := context.Background()
	alice := users.addUser("alice", "")
	bob := users.addUser("bob", "")
	require.NoError(t, users.AddFriend(ctx, alice, bob))
	require.NoError(t, users.AddFriend(ctx, bob, alice))

	require.NoError(t, svc.RemoveFriend(ctx, alice, bob))

	aliceUser, err := users.GetUserByID(ctx, alice)
	require.NoError(t, err)
	bobUser, err := users.GetUserByID(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, aliceUser.Friends)
	assert.Empty(t, bobUser.Friends)
}
