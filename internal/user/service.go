// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service implements user registration, lookup and profile maintenance.
type Service struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("UserService"),
	}
}

// Register creates a user from an explicit registration request. A request
// carrying an already-registered googleId is rejected.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	_, err := s.repo.FindByGoogleID(ctx, req.GoogleID)
	if err == nil {
		return nil, common.ErrBadRequest.WithDetails("User already exists.")
	}
	if !common.IsStatus(err, 404) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	profilePic := req.ProfilePic
	if profilePic == "" {
		profilePic = s.cfg.DefaultProfilePic
	}

	newUser := &User{
		GoogleID:    req.GoogleID,
		Name:        req.Name,
		Email:       req.Email,
		Username:    req.Username,
		ProfilePic:  profilePic,
		Collections: []Collection{},
		Favorites:   []primitive.ObjectID{},
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, err
	}

	s.logger.Info("User registered", zap.String("userID", newUser.ID.Hex()), zap.String("username", newUser.Username))
	return newUser, nil
}

// FindOrCreateByGoogle looks up a user by provider id and creates one from the
// provider profile if none exists. New users get a unique username derived
// from the email's local part.
func (s *Service) FindOrCreateByGoogle(ctx context.Context, googleID, name, email, pictureURL string) (*User, error) {
	existing, err := s.repo.FindByGoogleID(ctx, googleID)
	if err == nil {
		return existing, nil
	}
	if !common.IsStatus(err, 404) {
		return nil, fmt.Errorf("failed to look up user by Google ID: %w", err)
	}

	username, err := s.generateUniqueUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	profilePic := pictureURL
	if profilePic == "" {
		profilePic = s.cfg.DefaultProfilePic
	}

	newUser := &User{
		GoogleID:    googleID,
		Name:        name,
		Email:       email,
		Username:    username,
		ProfilePic:  profilePic,
		Collections: []Collection{},
		Favorites:   []primitive.ObjectID{},
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		s.logger.Error("Failed to create user from Google profile", zap.Error(err), zap.String("googleID", googleID))
		return nil, err
	}

	s.logger.Info("User created from Google profile",
		zap.String("userID", newUser.ID.Hex()),
		zap.String("username", newUser.Username),
	)
	return newUser, nil
}

// generateUniqueUsername slugs the email local part and appends an
// incrementing numeric suffix until no collision exists.
func (s *Service) generateUniqueUsername(ctx context.Context, email string) (string, error) {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	base := slug.Make(local)
	if base == "" {
		base = "user"
	}

	candidate := base
	for count := 1; ; count++ {
		taken, err := s.repo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username availability: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, count)
	}
}

// GetByID fetches a user by document id.
func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByGoogleID fetches a user by provider id.
func (s *Service) GetByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return s.repo.FindByGoogleID(ctx, googleID)
}

// UpdateProfile applies a profile update for the user owning the session.
func (s *Service) UpdateProfile(ctx context.Context, googleID string, req UpdateProfileRequest, uploadedPicURL string) (*User, error) {
	profilePic := uploadedPicURL
	if profilePic == "" {
		profilePic = req.ProfilePic
	}
	if profilePic == "" {
		profilePic = s.cfg.DefaultProfilePic
	}

	updated, err := s.repo.UpdateProfile(ctx, googleID, ProfileUpdate{
		Name:       req.Name,
		Email:      req.Email,
		Username:   req.Username,
		ProfilePic: profilePic,
	})
	if err != nil {
		var apiErr *common.APIError
		if !errors.As(err, &apiErr) {
			s.logger.Error("Failed to update profile", zap.Error(err), zap.String("googleID", googleID))
		}
		return nil, err
	}
	return updated, nil
}
