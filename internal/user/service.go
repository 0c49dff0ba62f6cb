package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"
	"dormview_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.User, error) {
	dbUser, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	return DBToShared(dbUser), nil
}

// GetOrCreateUserFromFirebaseClaims looks up the local user for a verified
// Firebase token, creating one on first sight and refreshing profile fields
// that changed upstream.
func (s *ServiceImplementation) GetOrCreateUserFromFirebaseClaims(
	ctx context.Context,
	firebaseToken *firebaseauth.Token,
) (*shared.User, bool, error) {
	if firebaseToken == nil || firebaseToken.UID == "" {
		return nil, false, common.ErrUnauthorized.WithDetails("Invalid Firebase token.")
	}

	email, emailVerified := claimString(firebaseToken.Claims, "email"), claimBool(firebaseToken.Claims, "email_verified")
	displayName := claimString(firebaseToken.Claims, "name")
	pictureURL := claimString(firebaseToken.Claims, "picture")

	dbUser, err := s.repo.FindByFirebaseUID(ctx, firebaseToken.UID)
	if err == nil {
		changed := false
		if email != "" {
			normalized := strings.ToLower(strings.TrimSpace(email))
			if dbUser.Email == nil || *dbUser.Email != normalized {
				dbUser.Email = &normalized
				changed = true
			}
		}
		if displayName != "" && (dbUser.DisplayName == nil || *dbUser.DisplayName != displayName) {
			nameCopy := displayName
			dbUser.DisplayName = &nameCopy
			changed = true
		}
		if pictureURL != "" && (dbUser.ProfilePictureURL == nil || *dbUser.ProfilePictureURL != pictureURL) {
			pictureCopy := pictureURL
			dbUser.ProfilePictureURL = &pictureCopy
			changed = true
		}
		if dbUser.IsEmailVerified != emailVerified {
			dbUser.IsEmailVerified = emailVerified
			changed = true
		}

		now := time.Now()
		dbUser.LastLoginAt = &now

		if err := s.repo.Update(ctx, dbUser); err != nil {
			// Losing a last-login update is not worth failing the request.
			s.logger.Error("Failed to update user from Firebase claims", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		} else if changed {
			s.logger.Info("User profile refreshed from Firebase claims", zap.String("userID", dbUser.ID.String()))
		}
		return DBToShared(dbUser), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error finding user by Firebase UID", zap.Error(err), zap.String("firebaseUID", firebaseToken.UID))
		return nil, false, err
	}

	// First sight of this Firebase identity: create a local user.
	now := time.Now()
	newUser := &User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirebaseUID:     firebaseToken.UID,
		IsEmailVerified: emailVerified,
		Role:            common.RoleUser,
		LastLoginAt:     &now,
	}
	if email != "" {
		emailCopy := strings.ToLower(strings.TrimSpace(email))
		newUser.Email = &emailCopy
	}
	if displayName != "" {
		nameCopy := displayName
		newUser.DisplayName = &nameCopy
	}
	if pictureURL != "" {
		pictureCopy := pictureURL
		newUser.ProfilePictureURL = &pictureCopy
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		s.logger.Error("Failed to create user from Firebase claims", zap.Error(err), zap.String("firebaseUID", firebaseToken.UID))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, false, apiErr
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("New user created from Firebase claims",
		zap.String("userID", newUser.ID.String()),
		zap.String("firebaseUID", firebaseToken.UID),
	)
	return DBToShared(newUser), true, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func claimBool(claims map[string]interface{}, key string) bool {
	if v, ok := claims[key].(bool); ok {
		return v
	}
	return false
}
