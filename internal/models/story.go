package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StoryTypeText  = "text"
	StoryTypeImage = "image"
)

// StoryTTL is the fixed lifetime of a story, set once at creation and
// never extended.
const StoryTTL = 24 * time.Hour

// DefaultStoryBackground is used for text stories without an explicit color.
const DefaultStoryBackground = "#1877f2"

// storyReactions is the closed set of accepted reactions.
var storyReactions = map[string]struct{}{
	"❤️": {},
	"😂": {},
	"😮": {},
	"😢": {},
	"😡": {},
	"👍": {},
}

// ValidReaction reports whether r is one of the accepted reactions.
func ValidReaction(r string) bool {
	_, ok := storyReactions[r]
	return ok
}

type StoryReaction struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Reaction  string             `bson:"reaction" json:"reaction"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type Story struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID   `bson:"user_id" json:"user_id"`
	StoryType       string               `bson:"story_type" json:"story_type"`
	Text            string               `bson:"text,omitempty" json:"text,omitempty"`
	Image           string               `bson:"image,omitempty" json:"image,omitempty"`
	BackgroundColor string               `bson:"background_color" json:"background_color"`
	Views           []primitive.ObjectID `bson:"views,omitempty" json:"views,omitempty"`
	Reactions       []StoryReaction      `bson:"reactions,omitempty" json:"reactions,omitempty"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
	ExpiresAt       time.Time            `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the story is logically destroyed, regardless
// of whether the sweep has physically deleted it yet.
func (s *Story) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ViewCount returns how many distinct users viewed the story.
func (s *Story) ViewCount() int {
	return len(s.Views)
}

// ReactionSummary counts reactions by kind.
func (s *Story) ReactionSummary() map[string]int {
	summary := make(map[string]int)
	for _, r := range s.Reactions {
		summary[r.Reaction]++
	}
	return summary
}

// StoryGroup is one author's active stories, as presented in the feed.
type StoryGroup struct {
	User    PublicUser `json:"user"`
	Stories []Story    `json:"stories"`
}
