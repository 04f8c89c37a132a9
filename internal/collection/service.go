// File: internal/collection/service.go
package collection

import (
	"context"
	"encoding/json"
	"fmt"

	"marvel_nexus_backend/internal/comic"
	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateCollectionRequest is the payload for creating a collection.
type CreateCollectionRequest struct {
	CollectionName string `json:"collectionName" binding:"required,min=1,max=128"`
}

// AddComicRequest carries either a reference to an already-stored comic or a
// raw upstream payload tagged with its source schema.
type AddComicRequest struct {
	ComicID string          `json:"comicId,omitempty"`
	Source  string          `json:"source,omitempty" binding:"omitempty,oneof=marvel comicvine"`
	Comic   json.RawMessage `json:"comic,omitempty"`
}

// AddToCollectionsRequest adds one comic to several collections at once.
type AddToCollectionsRequest struct {
	AddComicRequest
	CollectionIDs []string `json:"collectionIds" binding:"required,min=1"`
}

// Detail is a collection expanded with its comic documents.
type Detail struct {
	ID             primitive.ObjectID `json:"id"`
	CollectionName string             `json:"collectionName"`
	UserID         primitive.ObjectID `json:"userId"`
	Comics         []comic.Comic      `json:"comics"`
}

// Service implements collection and favorite management for a user.
type Service struct {
	users  user.Repository
	comics comic.Repository
	logger *zap.Logger
}

// NewService creates a new collection service.
func NewService(users user.Repository, comics comic.Repository, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		comics: comics,
		logger: logger.Named("CollectionService"),
	}
}

// CreateCollection appends a new empty collection to the user. Names are not
// required to be unique within a user.
func (s *Service) CreateCollection(ctx context.Context, userID primitive.ObjectID, name string) (*user.Collection, error) {
	coll := user.Collection{
		ID:             primitive.NewObjectID(),
		CollectionName: name,
		Comics:         []primitive.ObjectID{},
	}
	if err := s.users.PushCollection(ctx, userID, coll); err != nil {
		return nil, err
	}
	s.logger.Info("Collection created",
		zap.String("userID", userID.Hex()),
		zap.String("collectionID", coll.ID.Hex()),
	)
	return &coll, nil
}

// GetCollection returns the collection with its comics expanded.
func (s *Service) GetCollection(ctx context.Context, collectionID primitive.ObjectID) (*Detail, error) {
	owner, err := s.users.FindByCollectionID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	coll := owner.CollectionByID(collectionID)
	if coll == nil {
		return nil, common.ErrNotFound.WithDetails("Collection not found.")
	}

	comics, err := s.comics.FindByIDs(ctx, coll.Comics)
	if err != nil {
		return nil, fmt.Errorf("failed to expand collection comics: %w", err)
	}

	return &Detail{
		ID:             coll.ID,
		CollectionName: coll.CollectionName,
		UserID:         owner.ID,
		Comics:         comics,
	}, nil
}

// AddComic stores the comic (deduplicated) and appends it to the collection
// unless already a member.
func (s *Service) AddComic(ctx context.Context, userID, collectionID primitive.ObjectID, req AddComicRequest) (*Detail, error) {
	stored, err := s.resolveComic(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddComicToCollection(ctx, userID, collectionID, stored.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Comic added to collection",
		zap.String("comicID", stored.ID.Hex()),
		zap.String("collectionID", collectionID.Hex()),
	)
	return s.GetCollection(ctx, collectionID)
}

// AddToCollections adds one comic to every requested collection the user owns,
// skipping collections where it is already a member. It returns the names of
// the collections actually updated.
func (s *Service) AddToCollections(ctx context.Context, userID primitive.ObjectID, req AddToCollectionsRequest) ([]string, error) {
	ids := make([]primitive.ObjectID, 0, len(req.CollectionIDs))
	for _, raw := range req.CollectionIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Invalid collection ID format: %s", raw))
		}
		ids = append(ids, id)
	}

	stored, err := s.resolveComic(ctx, req.AddComicRequest)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, len(ids))
	for _, collID := range ids {
		coll := owner.CollectionByID(collID)
		if coll == nil || coll.Contains(stored.ID) {
			continue
		}
		if err := s.users.AddComicToCollection(ctx, userID, collID, stored.ID); err != nil {
			return nil, err
		}
		updated = append(updated, coll.CollectionName)
	}

	s.logger.Info("Comic added to collections",
		zap.String("comicID", stored.ID.Hex()),
		zap.Strings("collections", updated),
	)
	return updated, nil
}

// RemoveComic removes the comic from the collection. Removing a comic that is
// not a member is an error and leaves the collection unchanged.
func (s *Service) RemoveComic(ctx context.Context, collectionID, comicID primitive.ObjectID) error {
	owner, err := s.users.FindByCollectionID(ctx, collectionID)
	if err != nil {
		return err
	}
	coll := owner.CollectionByID(collectionID)
	if coll == nil {
		return common.ErrNotFound.WithDetails("Collection not found.")
	}
	if !coll.Contains(comicID) {
		return common.ErrNotFound.WithDetails("Comic not found in collection.")
	}
	return s.users.RemoveComicFromCollection(ctx, owner.ID, collectionID, comicID)
}

// DeleteCollection removes the collection from its owner and deletes every
// referenced comic document that no other collection or favorites list still
// points to.
func (s *Service) DeleteCollection(ctx context.Context, collectionID primitive.ObjectID) error {
	owner, err := s.users.FindByCollectionID(ctx, collectionID)
	if err != nil {
		return err
	}
	coll := owner.CollectionByID(collectionID)
	if coll == nil {
		return common.ErrNotFound.WithDetails("Collection not found.")
	}

	var orphaned []primitive.ObjectID
	for _, comicID := range coll.Comics {
		refs, err := s.users.CountComicReferences(ctx, comicID, collectionID)
		if err != nil {
			return fmt.Errorf("failed to count comic references: %w", err)
		}
		if refs == 0 {
			orphaned = append(orphaned, comicID)
		}
	}

	if len(orphaned) > 0 {
		deleted, err := s.comics.DeleteByIDs(ctx, orphaned)
		if err != nil {
			return fmt.Errorf("failed to delete collection comics: %w", err)
		}
		s.logger.Info("Deleted orphaned comics with collection",
			zap.String("collectionID", collectionID.Hex()),
			zap.Int64("deleted", deleted),
		)
	}

	return s.users.PullCollection(ctx, owner.ID, collectionID)
}

// ToggleFavorite flips membership of the comic in the user's favorites and
// returns the updated, expanded favorites list. An unknown comic id with an
// inline payload upserts the comic first.
func (s *Service) ToggleFavorite(ctx context.Context, userID, comicID primitive.ObjectID, inline *AddComicRequest) ([]comic.Comic, error) {
	stored, err := s.comics.FindByID(ctx, comicID)
	if err != nil {
		if !common.IsStatus(err, 404) {
			return nil, err
		}
		if inline == nil || len(inline.Comic) == 0 {
			return nil, err
		}
		stored, err = s.resolveComic(ctx, *inline)
		if err != nil {
			return nil, err
		}
	}

	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if owner.HasFavorite(stored.ID) {
		err = s.users.RemoveFavorite(ctx, userID, stored.ID)
	} else {
		err = s.users.AddFavorite(ctx, userID, stored.ID)
	}
	if err != nil {
		return nil, err
	}

	return s.ListFavorites(ctx, userID)
}

// ListFavorites returns the user's favorites with comic documents expanded.
func (s *Service) ListFavorites(ctx context.Context, userID primitive.ObjectID) ([]comic.Comic, error) {
	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.comics.FindByIDs(ctx, owner.Favorites)
}

// resolveComic turns an AddComicRequest into a stored comic document: either
// by looking up the referenced document, or by adapting the tagged upstream
// payload and upserting it.
func (s *Service) resolveComic(ctx context.Context, req AddComicRequest) (*comic.Comic, error) {
	if req.ComicID != "" {
		id, err := primitive.ObjectIDFromHex(req.ComicID)
		if err != nil {
			return nil, common.ErrBadRequest.WithDetails("Invalid comicId format.")
		}
		return s.comics.FindByID(ctx, id)
	}

	if len(req.Comic) == 0 {
		return nil, common.ErrBadRequest.WithDetails("Either comicId or an inline comic payload is required.")
	}

	var canonical *comic.Comic
	switch req.Source {
	case comic.SourceComicVine:
		var issue comic.ComicVineIssue
		if err := json.Unmarshal(req.Comic, &issue); err != nil {
			return nil, common.ErrBadRequest.WithDetails("Malformed Comic Vine payload.")
		}
		canonical = comic.FromComicVine(&issue)
	case comic.SourceMarvel, "":
		var mc comic.MarvelComic
		if err := json.Unmarshal(req.Comic, &mc); err != nil {
			return nil, common.ErrBadRequest.WithDetails("Malformed comic payload.")
		}
		canonical = comic.FromMarvel(&mc)
	default:
		return nil, common.ErrBadRequest.WithDetails("Unknown comic source.")
	}

	if canonical.Title == "" {
		return nil, common.ErrBadRequest.WithDetails("Comic title is required.")
	}
	return s.comics.Upsert(ctx, canonical)
}
