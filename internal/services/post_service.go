package services

import (
	"context"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostFeedLimit caps how many posts a single feed call returns.
const PostFeedLimit = 100

// PostService owns the permanent feed: image or text posts visible to
// every authenticated user, with a toggleable like set and embedded
// comments.
type PostService struct {
	postRepo PostStore
	userRepo UserStore
}

func NewPostService(postRepo PostStore, userRepo UserStore) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// CreatePost persists a post; at least one of content or image is
// required. Image is a storage-relative path from the upload endpoint.
func (s *PostService) CreatePost(ctx context.Context, authorID primitive.ObjectID, content, image string) (*models.PostView, error) {
	if content == "" && image == "" {
		return nil, apperrors.ErrMissingContent
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  content,
		Image:    image,
	}
	post, err := s.postRepo.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

// GetFeed returns the latest posts newest-first with authors resolved.
func (s *PostService) GetFeed(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.postRepo.GetAll(ctx, PostFeedLimit)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []models.PostView{}, nil
	}

	authorByID, err := s.resolveAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, assembleView(&posts[i], authorByID))
	}
	return views, nil
}

// ToggleLike flips the user's like on the post: liked becomes unliked
// and vice versa.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID primitive.ObjectID) (*models.PostView, error) {
	post, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

// AddComment appends the user's comment to the post.
func (s *PostService) AddComment(ctx context.Context, userID, postID primitive.ObjectID, content string) (*models.PostView, error) {
	if content == "" {
		return nil, apperrors.ErrMissingContent
	}

	post, err := s.postRepo.AddComment(ctx, postID, models.PostComment{
		AuthorID: userID,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

func (s *PostService) buildView(ctx context.Context, post *models.Post) (*models.PostView, error) {
	authorByID, err := s.resolveAuthors(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	view := assembleView(post, authorByID)
	return &view, nil
}

// resolveAuthors batch-loads the public profiles of every post and
// comment author involved.
func (s *PostService) resolveAuthors(ctx context.Context, posts []models.Post) (map[primitive.ObjectID]models.PublicUser, error) {
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0, len(posts))
	add := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		add(p.AuthorID)
		for _, c := range p.Comments {
			add(c.AuthorID)
		}
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	authorByID := make(map[primitive.ObjectID]models.PublicUser, len(users))
	for _, u := range users {
		authorByID[u.ID] = u.Public()
	}
	return authorByID, nil
}

func assembleView(post *models.Post, authorByID map[primitive.ObjectID]models.PublicUser) models.PostView {
	comments := make([]models.CommentView, 0, len(post.Comments))
	for _, c := range post.Comments {
		comments = append(comments, models.CommentView{
			PostComment: c,
			Author:      authorByID[c.AuthorID],
		})
	}
	return models.PostView{
		Post:      *post,
		Author:    authorByID[post.AuthorID],
		Comments:  comments,
		LikeCount: post.LikeCount(),
	}
}
