// File: internal/photo/model.go
package photo

import (
	"strings"
	"time"

	"dormview_backend/internal/common"

	"github.com/google/uuid"
)

// Photo is a user-submitted room photo. Each photo stores two files, the
// full-size image and a thumbnail, both as paths relative to the photo
// storage root.
type Photo struct {
	common.BaseModel
	Description *string   `gorm:"type:text"`
	RoomNumber  *string   `gorm:"type:varchar(50)"`
	SchoolID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DormID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Pending     bool      `gorm:"not null;default:true"`
	FullPath    string    `gorm:"type:text;not null"`
	ThumbPath   string    `gorm:"type:text;not null"`
}

func (Photo) TableName() string {
	return "photos"
}

// SavedPhoto links a user to a photo they bookmarked.
type SavedPhoto struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	PhotoID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SavedPhoto) TableName() string {
	return "saved_photos"
}

// --- DTOs for API ---

// CreatePhotoRequest carries the form fields of a photo upload. The image
// files ride alongside in the multipart body.
type CreatePhotoRequest struct {
	DormID      uuid.UUID `form:"dorm_id" binding:"required"`
	Description *string   `form:"description" binding:"omitempty,max=1000"`
	RoomNumber  *string   `form:"room_number" binding:"omitempty,max=50"`
}

// ApprovePhotoRequest carries optional corrections an admin applies while
// approving. Nil fields keep the submitted values.
type ApprovePhotoRequest struct {
	Description *string `json:"description,omitempty" binding:"omitempty,max=1000"`
	RoomNumber  *string `json:"room_number,omitempty" binding:"omitempty,max=50"`
}

type RejectPhotoRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

type ListDormPhotosQuery struct {
	common.PaginationQuery
	Room string `form:"room"`
}

type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	Description *string   `json:"description,omitempty"`
	RoomNumber  *string   `json:"room_number,omitempty"`
	SchoolID    uuid.UUID `json:"school_id"`
	DormID      uuid.UUID `json:"dorm_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Pending     bool      `json:"pending"`
	FullURL     string    `json:"full_url"`
	ThumbURL    string    `json:"thumb_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToPhotoResponse converts a Photo to its API shape, deriving public URLs
// from the configured base URL.
func ToPhotoResponse(p *Photo, baseURL string) PhotoResponse {
	return PhotoResponse{
		ID:          p.ID,
		Description: p.Description,
		RoomNumber:  p.RoomNumber,
		SchoolID:    p.SchoolID,
		DormID:      p.DormID,
		OwnerID:     p.OwnerID,
		Pending:     p.Pending,
		FullURL:     publicURL(baseURL, p.FullPath),
		ThumbURL:    publicURL(baseURL, p.ThumbPath),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToPhotoResponses(photos []Photo, baseURL string) []PhotoResponse {
	responses := make([]PhotoResponse, len(photos))
	for i := range photos {
		responses[i] = ToPhotoResponse(&photos[i], baseURL)
	}
	return responses
}

func publicURL(baseURL, relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(relativePath, "/")
}
