package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostComment is a single comment embedded in a post document.
type PostComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID  primitive.ObjectID `bson:"author_id" json:"author_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Post is a permanent feed entry, unlike stories it never expires.
// Likes is a deduplicated user set toggled with $pull / $addToSet.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID  primitive.ObjectID   `bson:"author_id" json:"author_id"`
	Content   string               `bson:"content,omitempty" json:"content,omitempty"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments  []PostComment        `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// LikeCount returns how many distinct users liked the post.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// LikedBy reports whether the user is in the likes set.
func (p *Post) LikedBy(id primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l == id {
			return true
		}
	}
	return false
}

// CommentView is a comment with its author resolved to a public profile.
type CommentView struct {
	PostComment
	Author PublicUser `json:"author"`
}

// PostView is the feed shape: the post with author and comment authors
// resolved.
type PostView struct {
	Post
	Author    PublicUser    `json:"author"`
	Comments  []CommentView `json:"comments"`
	LikeCount int           `json:"like_count"`
}
