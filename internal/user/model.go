// File: internal/user/model.go
package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is a user-named, ordered group of comics. It is embedded in the
// owning user document and has no lifecycle of its own; its generated id stays
// stable across user saves.
type Collection struct {
	ID             primitive.ObjectID   `bson:"_id" json:"id"`
	CollectionName string               `bson:"collectionName" json:"collectionName"`
	Comics         []primitive.ObjectID `bson:"comics" json:"comics"`
}

// Contains reports whether the collection already references the given comic.
func (c *Collection) Contains(comicID primitive.ObjectID) bool {
	for _, id := range c.Comics {
		if id == comicID {
			return true
		}
	}
	return false
}

// User represents the user document.
type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	GoogleID    string               `bson:"googleId" json:"googleId"`
	Name        string               `bson:"name" json:"name"`
	Username    string               `bson:"username" json:"username"`
	Email       string               `bson:"email" json:"email"`
	ProfilePic  string               `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	Collections []Collection         `bson:"collections" json:"collections"`
	Favorites   []primitive.ObjectID `bson:"favorites" json:"favorites"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CollectionByID returns the embedded collection with the given id, or nil.
func (u *User) CollectionByID(id primitive.ObjectID) *Collection {
	for i := range u.Collections {
		if u.Collections[i].ID == id {
			return &u.Collections[i]
		}
	}
	return nil
}

// HasFavorite reports whether the comic is in the user's favorites.
func (u *User) HasFavorite(comicID primitive.ObjectID) bool {
	for _, id := range u.Favorites {
		if id == comicID {
			return true
		}
	}
	return false
}

// --- DTOs for API requests ---

// RegisterRequest defines the payload for explicit user registration.
type RegisterRequest struct {
	GoogleID   string `json:"googleId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Username   string `json:"username" binding:"required,min=1,max=64"`
	ProfilePic string `json:"profilePic,omitempty" binding:"omitempty"`
}

// UpdateProfileRequest carries the multipart form fields of a profile update.
// The profile picture itself arrives as a file part and is handled separately.
type UpdateProfileRequest struct {
	Name       string `form:"name" binding:"required"`
	Email      string `form:"email" binding:"required,email"`
	Username   string `form:"username" binding:"required,min=1,max=64"`
	ProfilePic string `form:"profilePic"`
}
