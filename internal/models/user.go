package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a member of the network. Friends is a symmetric,
// deduplicated set maintained with $addToSet on both sides.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string               `bson:"name" json:"name"`
	Email          string               `bson:"email" json:"email"`
	HashedPassword string               `bson:"hashed_password" json:"-"`
	Disability     string               `bson:"disability,omitempty" json:"disability,omitempty"`
	Bio            string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Privacy        string               `bson:"privacy" json:"privacy"` // "public", "friends", "private"
	ProfilePicture string               `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	Friends        []primitive.ObjectID `bson:"friends,omitempty" json:"friends,omitempty"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the profile shape returned to other users.
type PublicUser struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	Disability     string             `json:"disability,omitempty"`
	ProfilePicture string             `json:"profile_picture,omitempty"`
}

// HasFriend reports whether the given user is in the friends set.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// Public strips the user down to the fields visible to others.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Disability:     u.Disability,
		ProfilePicture: u.ProfilePicture,
	}
}
