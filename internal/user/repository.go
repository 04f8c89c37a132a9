// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"marvel_nexus_backend/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileUpdate holds the mutable profile fields.
type ProfileUpdate struct {
	Name       string
	Email      string
	Username   string
	ProfilePic string
}

// Repository defines the interface for user data operations. Array mutations
// are expressed as per-field atomic updates scoped to the matched embedded
// collection, never as whole-document overwrites, so concurrent edits on the
// same user do not clobber each other.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	FindByCollectionID(ctx context.Context, collectionID primitive.ObjectID) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, googleID string, update ProfileUpdate) (*User, error)
	PushCollection(ctx context.Context, userID primitive.ObjectID, coll Collection) error
	PullCollection(ctx context.Context, userID, collectionID primitive.ObjectID) error
	AddComicToCollection(ctx context.Context, userID, collectionID, comicID primitive.ObjectID) error
	RemoveComicFromCollection(ctx context.Context, userID, collectionID, comicID primitive.ObjectID) error
	AddFavorite(ctx context.Context, userID, comicID primitive.ObjectID) error
	RemoveFavorite(ctx context.Context, userID, comicID primitive.ObjectID) error
	CountComicReferences(ctx context.Context, comicID, excludeCollectionID primitive.ObjectID) (int64, error)
}

type mongoRepository struct {
	users *mongo.Collection
}

// NewMongoRepository creates a new MongoDB-backed user repository.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{users: db.Collection("users")}
}

// Create inserts a new user document.
func (r *mongoRepository) Create(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Collections == nil {
		user.Collections = []Collection{}
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			switch {
			case strings.Contains(err.Error(), "googleId"):
				return common.ErrConflict.WithDetails("User with this Google account already exists.")
			case strings.Contains(err.Error(), "email"):
				return common.ErrConflict.WithDetails("User with this email already exists.")
			case strings.Contains(err.Error(), "username"):
				return common.ErrConflict.WithDetails("Username is already taken.")
			}
			return common.ErrConflict.WithDetails("User already exists.")
		}
		return err
	}
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var u User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoRepository) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	var u User
	err := r.users.FindOne(ctx, bson.M{"googleId": googleID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("User not found with this Google ID.")
		}
		return nil, err
	}
	return &u, nil
}

// FindByCollectionID locates the user owning the embedded collection.
func (r *mongoRepository) FindByCollectionID(ctx context.Context, collectionID primitive.ObjectID) (*User, error) {
	var u User
	err := r.users.FindOne(ctx, bson.M{"collections._id": collectionID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Collection not found.")
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile updates the mutable profile fields and returns the new document.
func (r *mongoRepository) UpdateProfile(ctx context.Context, googleID string, update ProfileUpdate) (*User, error) {
	set := bson.M{
		"name":      update.Name,
		"email":     strings.ToLower(strings.TrimSpace(update.Email)),
		"username":  update.Username,
		"updatedAt": time.Now().UTC(),
	}
	if update.ProfilePic != "" {
		set["profilePic"] = update.ProfilePic
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"googleId": googleID}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrConflict.WithDetails("Email or username is already taken.")
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoRepository) PushCollection(ctx context.Context, userID primitive.ObjectID, coll Collection) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"collections": coll},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("User not found.")
	}
	return nil
}

func (r *mongoRepository) PullCollection(ctx context.Context, userID, collectionID primitive.ObjectID) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"collections": bson.M{"_id": collectionID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("User not found.")
	}
	if res.ModifiedCount == 0 {
		return common.ErrNotFound.WithDetails("Collection not found.")
	}
	return nil
}

// AddComicToCollection appends the comic to the matched embedded collection
// unless it is already a member.
func (r *mongoRepository) AddComicToCollection(ctx context.Context, userID, collectionID, comicID primitive.ObjectID) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID, "collections._id": collectionID},
		bson.M{
			"$addToSet": bson.M{"collections.$.comics": comicID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing user from a missing collection for the caller.
		if _, findErr := r.FindByID(ctx, userID); findErr != nil {
			return findErr
		}
		return common.ErrNotFound.WithDetails("Collection not found.")
	}
	return nil
}

func (r *mongoRepository) RemoveComicFromCollection(ctx context.Context, userID, collectionID, comicID primitive.ObjectID) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID, "collections._id": collectionID},
		bson.M{
			"$pull": bson.M{"collections.$.comics": comicID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("Collection not found.")
	}
	if res.ModifiedCount == 0 {
		return common.ErrNotFound.WithDetails("Comic not found in collection.")
	}
	return nil
}

func (r *mongoRepository) AddFavorite(ctx context.Context, userID, comicID primitive.ObjectID) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"favorites": comicID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("User not found.")
	}
	return nil
}

func (r *mongoRepository) RemoveFavorite(ctx context.Context, userID, comicID primitive.ObjectID) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"favorites": comicID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("User not found.")
	}
	return nil
}

// CountComicReferences counts how many places still reference the comic,
// ignoring the collection identified by excludeCollectionID. Favorites of any
// user count as references.
func (r *mongoRepository) CountComicReferences(ctx context.Context, comicID, excludeCollectionID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"favorites": comicID},
			bson.M{"collections": bson.M{
				"$elemMatch": bson.M{
					"_id":    bson.M{"$ne": excludeCollectionID},
					"comics": comicID,
				},
			}},
		},
	}
	return r.users.CountDocuments(ctx, filter)
}
