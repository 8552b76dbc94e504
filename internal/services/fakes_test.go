package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the mongo repositories. They mirror the
// repositories' concurrency behavior where it matters: ResolveRequest
// is an atomic check-then-set, AddFriend and AddView are idempotent.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
	order []primitive.ObjectID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) addUser(name, disability string) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	f.users[id] = &models.User{
		ID:         id,
		Name:       name,
		Email:      name + "@example.com",
		Disability: disability,
		Privacy:    "public",
		CreatedAt:  time.Now(),
	}
	f.order = append(f.order, id)
	return id
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, apperrors.ErrEmailTaken
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	f.order = append(f.order, user.ID)
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	cp.Friends = append([]primitive.ObjectID(nil), u.Friends...)
	return &cp, nil
}

func (f *fakeUserStore) UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	f.mu.Lock()
	u, ok := f.users[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["bio"].(string); ok {
		u.Bio = v
	}
	if v, ok := fields["disability"].(string); ok {
		u.Disability = v
	}
	if v, ok := fields["privacy"].(string); ok {
		u.Privacy = v
	}
	if v, ok := fields["profile_picture"].(string); ok {
		u.ProfilePicture = v
	}
	f.mu.Unlock()
	return f.GetUserByID(ctx, id)
}

func (f *fakeUserStore) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, existing := range u.Friends {
		if existing == friendID {
			return nil
		}
	}
	u.Friends = append(u.Friends, friendID)
	return nil
}

func (f *fakeUserStore) RemoveFriend(ctx context.Context, userID1, userID2 primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	remove := func(id, friend primitive.ObjectID) {
		u, ok := f.users[id]
		if !ok {
			return
		}
		kept := u.Friends[:0]
		for _, existing := range u.Friends {
			if existing != friend {
				kept = append(kept, existing)
			}
		}
		u.Friends = kept
	}
	remove(userID1, userID2)
	remove(userID2, userID1)
	return nil
}

func (f *fakeUserStore) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (f *fakeUserStore) FindUsersExcluding(ctx context.Context, excluded []primitive.ObjectID, limit int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	skip := make(map[primitive.ObjectID]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	var users []models.User
	for _, id := range f.order {
		if skip[id] {
			continue
		}
		users = append(users, *f.users[id])
		if int64(len(users)) == limit {
			break
		}
	}
	return users, nil
}

type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.FriendRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[primitive.ObjectID]*models.FriendRequest)}
}

func (f *fakeRequestStore) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.requests {
		if existing.SenderID == req.SenderID && existing.ReceiverID == req.ReceiverID {
			return nil, apperrors.ErrDuplicateRequest
		}
	}
	req.ID = primitive.NewObjectID()
	req.Status = models.RequestStatusPending
	req.CreatedAt = time.Now()
	cp := *req
	f.requests[req.ID] = &cp
	return req, nil
}

func (f *fakeRequestStore) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRequestStore) GetRequestsByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FriendRequest
	for _, req := range f.requests {
		if req.ReceiverID == receiverID && req.Status == models.RequestStatusPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) FindBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if (req.SenderID == userA && req.ReceiverID == userB) ||
			(req.SenderID == userB && req.ReceiverID == userA) {
			cp := *req
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeRequestStore) GetPendingInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FriendRequest
	for _, req := range f.requests {
		if req.Status == models.RequestStatusPending && (req.SenderID == userID || req.ReceiverID == userID) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) ResolveRequest(ctx context.Context, id primitive.ObjectID, status string) (*models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if req.Status != models.RequestStatusPending {
		return nil, apperrors.ErrAlreadyProcessed
	}
	req.Status = status
	cp := *req
	return &cp, nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []models.Message
	seq      int
	base     time.Time
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{base: time.Now()}
}

func (f *fakeMessageStore) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	msg.ID = primitive.NewObjectID()
	msg.Status = models.MessageStatusSent
	msg.CreatedAt = f.base.Add(time.Duration(f.seq) * time.Millisecond)
	f.messages = append(f.messages, *msg)
	return msg, nil
}

func (f *fakeMessageStore) between(userID, friendID primitive.ObjectID) []models.Message {
	var out []models.Message
	for _, m := range f.messages {
		if (m.SenderID == userID && m.ReceiverID == friendID) ||
			(m.SenderID == friendID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessageStore) GetHistory(ctx context.Context, userID, friendID primitive.ObjectID, limit int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.between(userID, friendID)
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	if int64(len(msgs)) > limit {
		msgs = msgs[int64(len(msgs))-limit:]
	}
	return msgs, nil
}

func (f *fakeMessageStore) GetLatestBetween(ctx context.Context, userID, friendID primitive.ObjectID) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.between(userID, friendID)
	if len(msgs) == 0 {
		return nil, nil
	}
	latest := msgs[0]
	for _, m := range msgs[1:] {
		if m.CreatedAt.After(latest.CreatedAt) {
			latest = m
		}
	}
	return &latest, nil
}

func (f *fakeMessageStore) CountUnread(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, m := range f.messages {
		if m.SenderID == friendID && m.ReceiverID == userID && m.Status != models.MessageStatusRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageStore) MarkRead(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for i := range f.messages {
		m := &f.messages[i]
		if m.SenderID == friendID && m.ReceiverID == userID && m.Status != models.MessageStatusRead {
			m.Status = models.MessageStatusRead
			count++
		}
	}
	return count, nil
}

type fakeStoryStore struct {
	mu      sync.Mutex
	stories map[primitive.ObjectID]*models.Story
	seq     int
	base    time.Time
}

func newFakeStoryStore() *fakeStoryStore {
	return &fakeStoryStore{stories: make(map[primitive.ObjectID]*models.Story), base: time.Now()}
}

// put inserts a story as-is, letting tests control expiry directly.
func (f *fakeStoryStore) put(story models.Story) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if story.ID.IsZero() {
		story.ID = primitive.NewObjectID()
	}
	f.stories[story.ID] = &story
	return story.ID
}

func (f *fakeStoryStore) CreateStory(ctx context.Context, story *models.Story) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	story.ID = primitive.NewObjectID()
	story.CreatedAt = f.base.Add(time.Duration(f.seq) * time.Millisecond)
	story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	cp := *story
	f.stories[story.ID] = &cp
	return story, nil
}

func (f *fakeStoryStore) GetStoryByID(ctx context.Context, id primitive.ObjectID) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stories[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStoryStore) GetActiveForUsers(ctx context.Context, userIDs []primitive.ObjectID, now time.Time) ([]models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var out []models.Story
	for _, s := range f.stories {
		if want[s.UserID] && s.ExpiresAt.After(now) {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStoryStore) GetActiveForUser(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Story
	for _, s := range f.stories {
		if s.UserID == userID && s.ExpiresAt.After(now) {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStoryStore) AddView(ctx context.Context, storyID, viewerID primitive.ObjectID) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stories[storyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	seen := false
	for _, v := range s.Views {
		if v == viewerID {
			seen = true
			break
		}
	}
	if !seen {
		s.Views = append(s.Views, viewerID)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStoryStore) SetReaction(ctx context.Context, storyID, userID primitive.ObjectID, reaction string) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stories[storyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	for i := range s.Reactions {
		if s.Reactions[i].UserID == userID {
			s.Reactions[i].Reaction = reaction
			s.Reactions[i].CreatedAt = time.Now()
			cp := *s
			return &cp, nil
		}
	}
	s.Reactions = append(s.Reactions, models.StoryReaction{UserID: userID, Reaction: reaction, CreatedAt: time.Now()})
	cp := *s
	return &cp, nil
}

func (f *fakeStoryStore) DeleteStory(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stories, id)
	return nil
}

func (f *fakeStoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, s := range f.stories {
		if s.ExpiresAt.Before(now) {
			delete(f.stories, id)
			count++
		}
	}
	return count, nil
}

type fakePostStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
	seq   int
	base  time.Time
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[primitive.ObjectID]*models.Post), base: time.Now()}
}

func (f *fakePostStore) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	post.ID = primitive.NewObjectID()
	post.CreatedAt = f.base.Add(time.Duration(f.seq) * time.Millisecond)
	cp := *post
	f.posts[post.ID] = &cp
	return post, nil
}

func (f *fakePostStore) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	cp.Likes = append([]primitive.ObjectID(nil), p.Likes...)
	cp.Comments = append([]models.PostComment(nil), p.Comments...)
	return &cp, nil
}

func (f *fakePostStore) GetAll(ctx context.Context, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var posts []models.Post
	for _, p := range f.posts {
		posts = append(posts, *p)
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakePostStore) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	p, ok := f.posts[postID]
	if !ok {
		f.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}
	removed := false
	kept := p.Likes[:0]
	for _, l := range p.Likes {
		if l == userID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	p.Likes = kept
	if !removed {
		p.Likes = append(p.Likes, userID)
	}
	f.mu.Unlock()
	return f.GetPostByID(ctx, postID)
}

func (f *fakePostStore) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.PostComment) (*models.Post, error) {
	f.mu.Lock()
	p, ok := f.posts[postID]
	if !ok {
		f.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	p.Comments = append(p.Comments, comment)
	f.mu.Unlock()
	return f.GetPostByID(ctx, postID)
}

type notification struct {
	UserID string
	Event  string
	Data   interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	online map[string]bool
	sent   []notification
}

func newFakeNotifier(onlineUsers ...string) *fakeNotifier {
	online := make(map[string]bool, len(onlineUsers))
	for _, u := range onlineUsers {
		online[u] = true
	}
	return &fakeNotifier{online: online}
}

func (f *fakeNotifier) Notify(userID, event string, data interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online[userID] {
		return false
	}
	f.sent = append(f.sent, notification{UserID: userID, Event: event, Data: data})
	return true
}

func (f *fakeNotifier) sentTo(userID, event string) []notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification
	for _, n := range f.sent {
		if n.UserID == userID && n.Event == event {
			out = append(out, n)
		}
	}
	return out
}
