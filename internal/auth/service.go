// File: internal/auth/service.go
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"
	"marvel_nexus_backend/internal/session"
	"marvel_nexus_backend/internal/user"

	"go.uber.org/zap"
)

// Service ties the verifier, the user store and the session store together
// into the login flow.
type Service struct {
	cfg      *config.Config
	verifier Verifier
	users    *user.Service
	sessions *session.Service
	logger   *zap.Logger
}

// NewService creates a new auth service.
func NewService(
	cfg *config.Config,
	verifier Verifier,
	users *user.Service,
	sessions *session.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		cfg:      cfg,
		verifier: verifier,
		users:    users,
		sessions: sessions,
		logger:   logger.Named("AuthService"),
	}
}

// BeginLogin generates a fresh CSRF state and the provider login URL.
func (s *Service) BeginLogin() (state, loginURL string, err error) {
	state, err = generateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate OAuth state: %w", err)
	}
	return state, s.verifier.LoginURL(state), nil
}

// CompleteLogin exchanges the authorization code, finds or creates the user
// and issues a session. The caller is responsible for the cookies.
func (s *Service) CompleteLogin(ctx context.Context, code string) (*user.User, *session.Session, error) {
	profile, err := s.verifier.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("OAuth code exchange failed", zap.Error(err))
		return nil, nil, err
	}

	usr, err := s.users.FindOrCreateByGoogle(ctx, profile.ProviderID, profile.Name, profile.Email, profile.PictureURL)
	if err != nil {
		s.logger.Error("Failed to resolve user after OAuth login", zap.Error(err))
		if _, ok := common.IsAPIError(err); ok {
			return nil, nil, err
		}
		return nil, nil, common.ErrInternalServer.WithDetails("Failed to process user account after login.")
	}

	sess, err := s.sessions.Issue(ctx, usr.ID)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, nil, err
		}
		return nil, nil, common.ErrInternalServer.WithDetails("Failed to establish session.")
	}

	s.logger.Info("Login successful",
		zap.String("userID", usr.ID.Hex()),
		zap.String("username", usr.Username),
	)
	return usr, sess, nil
}

// Logout revokes the session behind the given token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

func generateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
