// File: internal/session/repository.go
package session

import (
	"context"
	"errors"
	"time"

	"marvel_nexus_backend/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository defines the interface for session data operations.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type mongoRepository struct {
	sessions *mongo.Collection
}

// NewMongoRepository creates a new MongoDB-backed session repository.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{sessions: db.Collection("sessions")}
}

func (r *mongoRepository) Create(ctx context.Context, s *Session) error {
	_, err := r.sessions.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrConflict.WithDetails("Session token collision.")
		}
		return err
	}
	return nil
}

func (r *mongoRepository) FindByToken(ctx context.Context, token string) (*Session, error) {
	var s Session
	err := r.sessions.FindOne(ctx, bson.M{"token": token}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Session not found.")
		}
		return nil, err
	}
	return &s, nil
}

func (r *mongoRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.sessions.DeleteOne(ctx, bson.M{"token": token})
	return err
}

func (r *mongoRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.sessions.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
