package push

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Upsert(ctx context.Context, token *DeviceToken) error
	DeleteByToken(ctx context.Context, userID uuid.UUID, token string) error
	FindTokensByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// GORMRepository implements the Repository interface using GORM.
type GORMRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM device token repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &GORMRepository{db: db}
}

// Upsert inserts a device token, reassigning it to the given user if the
// token is already registered. A token moves between users when a device
// changes accounts.
func (r *GORMRepository) Upsert(ctx context.Context, token *DeviceToken) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
	}).Create(token).Error
	if err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

// DeleteByToken removes a device token owned by the given user.
func (r *GORMRepository) DeleteByToken(ctx context.Context, userID uuid.UUID, token string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&DeviceToken{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete device token: %w", result.Error)
	}
	return nil
}

// FindTokensByUserID returns the raw token strings registered for a user.
func (r *GORMRepository) FindTokensByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&DeviceToken{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error
	if err != nil {
		return nil, fmt.Errorf("fetching device tokens for user %s failed: %w", userID, err)
	}
	return tokens, nil
}
