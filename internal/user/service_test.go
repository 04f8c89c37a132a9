// File: internal/user/service_test.go
package user

import (
	"context"
	"errors"
	"testing"

	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MockRepository is a mock type for user.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByCollectionID(ctx context.Context, collectionID primitive.ObjectID) (*User, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, googleID string, update ProfileUpdate) (*User, error) {
	args := m.Called(ctx, googleID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) PushCollection(ctx context.Context, userID primitive.ObjectID, coll Collection) error {
	args := m.Called(ctx, userID, coll)
	return args.Error(0)
}

func (m *MockRepository) PullCollection(ctx context.Context, userID, collectionID primitive.ObjectID) error {
	args := m.Called(ctx, userID, collectionID)
	return args.Error(0)
}

func (m *MockRepository) AddComicToCollection(ctx context.Context, userID, collectionID, comicID primitive.ObjectID) error {
	args := m.Called(ctx, userID, collectionID, comicID)
	return args.Error(0)
}

func (m *MockRepository) RemoveComicFromCollection(ctx context.Context, userID, collectionID, comicID primitive.ObjectID) error {
	args := m.Called(ctx, userID, collectionID, comicID)
	return args.Error(0)
}

func (m *MockRepository) AddFavorite(ctx context.Context, userID, comicID primitive.ObjectID) error {
	args := m.Called(ctx, userID, comicID)
	return args.Error(0)
}

func (m *MockRepository) RemoveFavorite(ctx context.Context, userID, comicID primitive.ObjectID) error {
	args := m.Called(ctx, userID, comicID)
	return args.Error(0)
}

func (m *MockRepository) CountComicReferences(ctx context.Context, comicID, excludeCollectionID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, comicID, excludeCollectionID)
	return args.Get(0).(int64), args.Error(1)
}

func setupUserService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()
	repo := new(MockRepository)
	cfg := &config.Config{DefaultProfilePic: "/default-avatar.png"}
	return NewService(repo, cfg, zap.NewNop()), repo
}

func TestService_Register_Success(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	repo.On("FindByGoogleID", ctx, "g-123").Return(nil, common.ErrNotFound.WithDetails("User not found with this Google ID."))
	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

	created, err := svc.Register(ctx, RegisterRequest{
		GoogleID: "g-123",
		Name:     "Peter Parker",
		Email:    "peter@example.com",
		Username: "spidey",
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "g-123", created.GoogleID)
	assert.Equal(t, "spidey", created.Username)
	assert.Equal(t, "/default-avatar.png", created.ProfilePic)
	assert.NotNil(t, created.Collections)
	assert.NotNil(t, created.Favorites)
	repo.AssertExpectations(t)
}

func TestService_Register_AlreadyExists(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	existing := &User{ID: primitive.NewObjectID(), GoogleID: "g-123"}
	repo.On("FindByGoogleID", ctx, "g-123").Return(existing, nil)

	created, err := svc.Register(ctx, RegisterRequest{
		GoogleID: "g-123",
		Name:     "Peter Parker",
		Email:    "peter@example.com",
		Username: "spidey",
	})

	assert.Nil(t, created)
	assert.Error(t, err)
	apiErr, ok := err.(*common.APIError)
	assert.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_LookupError(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	repo.On("FindByGoogleID", ctx, "g-123").Return(nil, errors.New("connection reset"))

	created, err := svc.Register(ctx, RegisterRequest{GoogleID: "g-123", Name: "P", Email: "p@x.com", Username: "p"})

	assert.Nil(t, created)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_FindOrCreateByGoogle_ExistingUser(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	existing := &User{ID: primitive.NewObjectID(), GoogleID: "g-9", Username: "tony"}
	repo.On("FindByGoogleID", ctx, "g-9").Return(existing, nil)

	u, err := svc.FindOrCreateByGoogle(ctx, "g-9", "Tony Stark", "tony@stark.io", "")

	assert.NoError(t, err)
	assert.Equal(t, existing, u)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_FindOrCreateByGoogle_NewUserUsernameCollision(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	repo.On("FindByGoogleID", ctx, "g-9").Return(nil, common.ErrNotFound.WithDetails("User not found with this Google ID."))
	// The email local part slugs to "tony-stark"; the first two candidates are taken.
	repo.On("UsernameExists", ctx, "tony-stark").Return(true, nil)
	repo.On("UsernameExists", ctx, "tony-stark1").Return(true, nil)
	repo.On("UsernameExists", ctx, "tony-stark2").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

	u, err := svc.FindOrCreateByGoogle(ctx, "g-9", "Tony Stark", "Tony.Stark@stark.io", "https://pics/tony.png")

	assert.NoError(t, err)
	assert.Equal(t, "tony-stark2", u.Username)
	assert.Equal(t, "https://pics/tony.png", u.ProfilePic)
	repo.AssertExpectations(t)
}

func TestService_UpdateProfile_PreferUploadedPicture(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	repo.On("UpdateProfile", ctx, "g-1", ProfileUpdate{
		Name:       "New Name",
		Email:      "new@example.com",
		Username:   "newname",
		ProfilePic: "https://host/uploads/avatars/x.png",
	}).Return(&User{GoogleID: "g-1", Name: "New Name"}, nil)

	u, err := svc.UpdateProfile(ctx, "g-1", UpdateProfileRequest{
		Name:       "New Name",
		Email:      "new@example.com",
		Username:   "newname",
		ProfilePic: "https://old/pic.png",
	}, "https://host/uploads/avatars/x.png")

	assert.NoError(t, err)
	assert.Equal(t, "New Name", u.Name)
	repo.AssertExpectations(t)
}

func TestService_UpdateProfile_NotFound(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	repo.On("UpdateProfile", ctx, "missing", mock.AnythingOfType("user.ProfileUpdate")).
		Return(nil, common.ErrNotFound.WithDetails("User not found."))

	u, err := svc.UpdateProfile(ctx, "missing", UpdateProfileRequest{Name: "X", Email: "x@x.com", Username: "x"}, "")

	assert.Nil(t, u)
	assert.True(t, common.IsStatus(err, 404))
}
