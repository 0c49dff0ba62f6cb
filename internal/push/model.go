package push

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken represents a registered device that can receive push notifications.
type DeviceToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_device_tokens_user" json:"user_id"`
	Token     string    `gorm:"type:text;not null;uniqueIndex:idx_device_tokens_token" json:"token"`
	Platform  string    `gorm:"type:varchar(20);not null;default:'unknown'" json:"platform"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (DeviceToken) TableName() string {
	return "device_tokens"
}

// RegisterDeviceRequest is the body for registering a device token.
type RegisterDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"omitempty,oneof=ios android web"`
}
