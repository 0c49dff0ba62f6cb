// File: internal/school/model.go
package school

import (
	"time"

	"dormview_backend/internal/common"

	"github.com/google/uuid"
)

// School is the top level directory entry. New submissions start out
// pending and are hidden from public listings until an admin approves them.
type School struct {
	common.BaseModel
	Name    string    `gorm:"type:varchar(255);not null"`
	Slug    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	City    *string   `gorm:"type:varchar(100)"`
	State   *string   `gorm:"type:varchar(50)"`
	ZipCode *string   `gorm:"type:varchar(20)"`
	Pending bool      `gorm:"not null;default:true"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (School) TableName() string {
	return "schools"
}

// Favorite links a user to a school they bookmarked.
type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SchoolID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "school_favorites"
}

// --- DTOs for API ---

type CreateSchoolRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	City    *string `json:"city,omitempty" binding:"omitempty,max=100"`
	State   *string `json:"state,omitempty" binding:"omitempty,max=50"`
	ZipCode *string `json:"zip_code,omitempty" binding:"omitempty,max=20"`
}

// ApproveSchoolRequest carries optional corrections an admin applies while
// approving. Nil fields keep the submitted values.
type ApproveSchoolRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,min=2,max=255"`
	City    *string `json:"city,omitempty" binding:"omitempty,max=100"`
	State   *string `json:"state,omitempty" binding:"omitempty,max=50"`
	ZipCode *string `json:"zip_code,omitempty" binding:"omitempty,max=20"`
}

type RejectSchoolRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

const (
	SortByName   = "name"
	SortByNewest = "newest"
)

type ListSchoolsQuery struct {
	common.PaginationQuery
	Sort string `form:"sort"`
}

type SchoolResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	City      *string   `json:"city,omitempty"`
	State     *string   `json:"state,omitempty"`
	ZipCode   *string   `json:"zip_code,omitempty"`
	Pending   bool      `json:"pending"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Favorited bool      `json:"favorited,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToSchoolResponse(s *School) SchoolResponse {
	return SchoolResponse{
		ID:        s.ID,
		Name:      s.Name,
		Slug:      s.Slug,
		City:      s.City,
		State:     s.State,
		ZipCode:   s.ZipCode,
		Pending:   s.Pending,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToSchoolResponses(schools []School) []SchoolResponse {
	responses := make([]SchoolResponse, len(schools))
	for i := range schools {
		responses[i] = ToSchoolResponse(&schools[i])
	}
	return responses
}
