// File: internal/user/model.go
package user

import (
	"time"

	"dormview_backend/internal/common"
	"dormview_backend/internal/shared"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel          // Embeds ID, CreatedAt, UpdatedAt
	FirebaseUID       string  `gorm:"type:varchar(128);not null;uniqueIndex"`
	Email             *string `gorm:"type:varchar(255);uniqueIndex"` // Pointer to allow NULL
	DisplayName       *string `gorm:"type:varchar(150)"`
	ProfilePictureURL *string `gorm:"type:text"`
	IsEmailVerified   bool    `gorm:"not null;default:false"`
	Role              string  `gorm:"type:varchar(50);not null;default:'user'"` // "user" or "admin"
	LastLoginAt       *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID                uuid.UUID  `json:"id"`
	Email             *string    `json:"email,omitempty"`
	DisplayName       *string    `json:"display_name,omitempty"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty"`
	IsEmailVerified   bool       `json:"is_email_verified"`
	Role              string     `json:"role"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(u *shared.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		ProfilePictureURL: u.ProfilePictureURL,
		IsEmailVerified:   u.IsEmailVerified,
		Role:              u.Role,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		LastLoginAt:       u.LastLoginAt,
	}
}

// DBToShared converts a GORM User model to the shared.User type.
func DBToShared(u *User) *shared.User {
	return &shared.User{
		ID:                u.ID,
		FirebaseUID:       u.FirebaseUID,
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		ProfilePictureURL: u.ProfilePictureURL,
		Role:              u.Role,
		IsEmailVerified:   u.IsEmailVerified,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		LastLoginAt:       u.LastLoginAt,
	}
}
