// File: internal/session/service.go
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const tokenBytes = 32

// Service issues, resolves and revokes sessions.
type Service struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

// NewService creates a new session service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("SessionService"),
	}
}

// Issue creates a session for the user and returns it.
func (s *Service) Issue(ctx context.Context, userID primitive.ObjectID) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now().UTC()
	sess := &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		s.logger.Error("Failed to persist session", zap.Error(err), zap.String("userID", userID.Hex()))
		return nil, err
	}
	return sess, nil
}

// Resolve looks up a session by its token. Expired sessions resolve as
// not found and are removed opportunistically.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	sess, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.Expired(time.Now().UTC()) {
		if delErr := s.repo.DeleteByToken(ctx, token); delErr != nil {
			s.logger.Warn("Failed to delete expired session", zap.Error(delErr))
		}
		return nil, common.ErrUnauthorized.WithDetails("Session has expired.")
	}
	return sess, nil
}

// Revoke deletes the session holding the given token.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.repo.DeleteByToken(ctx, token)
}

// PurgeExpired removes all sessions past their expiry, returning the count.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now().UTC())
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
