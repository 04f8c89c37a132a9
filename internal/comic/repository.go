// File: internal/comic/repository.go
package comic

import (
	"context"
	"errors"

	"marvel_nexus_backend/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines the interface for comic data operations.
type Repository interface {
	// Upsert stores the comic unless an equivalent one already exists, and
	// returns the stored document either way. Identity is the upstream
	// catalog id when present, title+issueNumber otherwise.
	Upsert(ctx context.Context, c *Comic) (*Comic, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Comic, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Comic, error)
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

type mongoRepository struct {
	comics *mongo.Collection
}

// NewMongoRepository creates a new MongoDB-backed comic repository.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{comics: db.Collection("comics")}
}

func (r *mongoRepository) Upsert(ctx context.Context, c *Comic) (*Comic, error) {
	var filter bson.M
	if c.ExternalID > 0 {
		filter = bson.M{"externalId": c.ExternalID}
	} else {
		filter = bson.M{"title": c.Title, "issueNumber": c.IssueNumber}
	}

	doc := *c
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored Comic
	err := r.comics.FindOneAndUpdate(ctx, filter, bson.M{"$setOnInsert": doc}, opts).Decode(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Comic, error) {
	var c Comic
	err := r.comics.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Comic not found.")
		}
		return nil, err
	}
	return &c, nil
}

// FindByIDs fetches the given comics preserving the order of ids. Ids with no
// matching document are silently skipped.
func (r *mongoRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Comic, error) {
	if len(ids) == 0 {
		return []Comic{}, nil
	}

	cursor, err := r.comics.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var found []Comic
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]Comic, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	ordered := make([]Comic, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (r *mongoRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.comics.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
