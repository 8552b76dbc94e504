package services

import (
	"context"
	"time"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the services. The mongo repositories
// implement them; tests substitute in-memory fakes.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID1, userID2 primitive.ObjectID) error
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindUsersExcluding(ctx context.Context, excluded []primitive.ObjectID, limit int64) ([]models.User, error)
}

type FriendRequestStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	GetRequestsByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error)
	FindBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error)
	GetPendingInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error)
	ResolveRequest(ctx context.Context, id primitive.ObjectID, status string) (*models.FriendRequest, error)
}

type MessageStore interface {
	InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetHistory(ctx context.Context, userID, friendID primitive.ObjectID, limit int64) ([]models.Message, error)
	GetLatestBetween(ctx context.Context, userID, friendID primitive.ObjectID) (*models.Message, error)
	CountUnread(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error)
}

type StoryStore interface {
	CreateStory(ctx context.Context, story *models.Story) (*models.Story, error)
	GetStoryByID(ctx context.Context, id primitive.ObjectID) (*models.Story, error)
	GetActiveForUsers(ctx context.Context, userIDs []primitive.ObjectID, now time.Time) ([]models.Story, error)
	GetActiveForUser(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]models.Story, error)
	AddView(ctx context.Context, storyID, viewerID primitive.ObjectID) (*models.Story, error)
	SetReaction(ctx context.Context, storyID, userID primitive.ObjectID, reaction string) (*models.Story, error)
	DeleteStory(ctx context.Context, id primitive.ObjectID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetAll(ctx context.Context, limit int64) ([]models.Post, error)
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	AddComment(ctx context.Context, postID primitive.ObjectID, comment models.PostComment) (*models.Post, error)
}

// Notifier is the hub surface the services push through. Delivery is
// best-effort; a false return means the user was not reachable.
type Notifier interface {
	Notify(userID, event string, data interface{}) bool
}
