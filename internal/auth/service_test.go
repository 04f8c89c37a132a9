// File: internal/auth/service_test.go
package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"
	"marvel_nexus_backend/internal/session"
	"marvel_nexus_backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeUserRepository is an in-memory user.Repository for login-flow tests.
type fakeUserRepository struct {
	byGoogleID map[string]*user.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byGoogleID: map[string]*user.User{}}
}

func (f *fakeUserRepository) Create(_ context.Context, u *user.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.byGoogleID[u.GoogleID] = u
	return nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*user.User, error) {
	for _, u := range f.byGoogleID {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
}

func (f *fakeUserRepository) FindByGoogleID(_ context.Context, googleID string) (*user.User, error) {
	if u, ok := f.byGoogleID[googleID]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound.WithDetails("User not found with this Google ID.")
}

func (f *fakeUserRepository) FindByCollectionID(context.Context, primitive.ObjectID) (*user.User, error) {
	return nil, common.ErrNotFound.WithDetails("Collection not found.")
}

func (f *fakeUserRepository) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range f.byGoogleID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepository) UpdateProfile(context.Context, string, user.ProfileUpdate) (*user.User, error) {
	return nil, common.ErrNotFound.WithDetails("User not found.")
}

func (f *fakeUserRepository) PushCollection(context.Context, primitive.ObjectID, user.Collection) error {
	return nil
}

func (f *fakeUserRepository) PullCollection(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func (f *fakeUserRepository) AddComicToCollection(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func (f *fakeUserRepository) RemoveComicFromCollection(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func (f *fakeUserRepository) AddFavorite(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func (f *fakeUserRepository) RemoveFavorite(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func (f *fakeUserRepository) CountComicReferences(context.Context, primitive.ObjectID, primitive.ObjectID) (int64, error) {
	return 0, nil
}

// fakeSessionRepository is an in-memory session.Repository.
type fakeSessionRepository struct {
	byToken map[string]*session.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{byToken: map[string]*session.Session{}}
}

func (f *fakeSessionRepository) Create(_ context.Context, s *session.Session) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	f.byToken[s.Token] = s
	return nil
}

func (f *fakeSessionRepository) FindByToken(_ context.Context, token string) (*session.Session, error) {
	if s, ok := f.byToken[token]; ok {
		return s, nil
	}
	return nil, common.ErrUnauthorized.WithDetails("Invalid session.")
}

func (f *fakeSessionRepository) DeleteByToken(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

func (f *fakeSessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	for token, s := range f.byToken {
		if s.Expired(now) {
			delete(f.byToken, token)
			removed++
		}
	}
	return removed, nil
}

func setupAuthService(t *testing.T) (*Service, *fakeUserRepository, *fakeSessionRepository) {
	t.Helper()
	cfg := &config.Config{
		AuthMode:          "static",
		DefaultProfilePic: "/default-avatar.png",
		SessionTTL:        time.Hour,
	}
	logger := zap.NewNop()
	userRepo := newFakeUserRepository()
	sessionRepo := newFakeSessionRepository()
	users := user.NewService(userRepo, cfg, logger)
	sessions := session.NewService(sessionRepo, cfg, logger)
	svc := NewService(cfg, NewVerifier(cfg), users, sessions, logger)
	return svc, userRepo, sessionRepo
}

func TestService_BeginLogin_StateAndURL(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	state, loginURL, err := svc.BeginLogin()

	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.True(t, strings.Contains(loginURL, state))
}

func TestService_CompleteLogin_CreatesUserAndSession(t *testing.T) {
	svc, userRepo, sessionRepo := setupAuthService(t)
	ctx := context.Background()

	usr, sess, err := svc.CompleteLogin(ctx, "any-code")

	require.NoError(t, err)
	require.NotNil(t, usr)
	assert.Equal(t, "test123", usr.GoogleID)
	assert.Equal(t, "testuser", usr.Username)
	assert.Equal(t, "testuser@example.com", usr.Email)

	require.NotNil(t, sess)
	assert.Equal(t, usr.ID, sess.UserID)
	assert.Len(t, sess.Token, 64)
	assert.Len(t, userRepo.byGoogleID, 1)
	assert.Len(t, sessionRepo.byToken, 1)
}

func TestService_CompleteLogin_SecondLoginReusesUser(t *testing.T) {
	svc, userRepo, sessionRepo := setupAuthService(t)
	ctx := context.Background()

	first, firstSess, err := svc.CompleteLogin(ctx, "code-1")
	require.NoError(t, err)
	second, secondSess, err := svc.CompleteLogin(ctx, "code-2")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, userRepo.byGoogleID, 1)
	assert.Len(t, sessionRepo.byToken, 2)
	assert.NotEqual(t, firstSess.Token, secondSess.Token)
}

func TestService_CompleteLogin_EmptyCode(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	usr, sess, err := svc.CompleteLogin(context.Background(), "")

	assert.Nil(t, usr)
	assert.Nil(t, sess)
	assert.True(t, common.IsStatus(err, 400))
}

func TestService_Logout(t *testing.T) {
	svc, _, sessionRepo := setupAuthService(t)
	ctx := context.Background()

	_, sess, err := svc.CompleteLogin(ctx, "code")
	require.NoError(t, err)

	assert.NoError(t, svc.Logout(ctx, sess.Token))
	assert.Empty(t, sessionRepo.byToken)

	// Logging out without a session cookie is a no-op.
	assert.NoError(t, svc.Logout(ctx, ""))
}
