// File: internal/dorm/model.go
package dorm

import (
	"time"

	"dormview_backend/internal/common"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Dorm is a residence hall inside a school. Like schools, submissions are
// pending until approved.
type Dorm struct {
	common.BaseModel
	Name     string         `gorm:"type:varchar(255);not null"`
	SchoolID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Styles   pq.StringArray `gorm:"type:text[]"`
	Pending  bool           `gorm:"not null;default:true"`
	OwnerID  uuid.UUID      `gorm:"type:uuid;not null;index"`
}

func (Dorm) TableName() string {
	return "dorms"
}

// Favorite links a user to a dorm they bookmarked.
type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	DormID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "dorm_favorites"
}

// --- DTOs for API ---

type CreateDormRequest struct {
	Name     string    `json:"name" binding:"required,min=2,max=255"`
	SchoolID uuid.UUID `json:"school_id" binding:"required"`
	Styles   []string  `json:"styles,omitempty" binding:"omitempty,dive,max=50"`
}

// ApproveDormRequest carries optional corrections an admin applies while
// approving. Nil fields keep the submitted values.
type ApproveDormRequest struct {
	Name   *string  `json:"name,omitempty" binding:"omitempty,min=2,max=255"`
	Styles []string `json:"styles,omitempty" binding:"omitempty,dive,max=50"`
}

type RejectDormRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

type DormResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SchoolID  uuid.UUID `json:"school_id"`
	Styles    []string  `json:"styles,omitempty"`
	Pending   bool      `json:"pending"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDormResponse(d *Dorm) DormResponse {
	return DormResponse{
		ID:        d.ID,
		Name:      d.Name,
		SchoolID:  d.SchoolID,
		Styles:    d.Styles,
		Pending:   d.Pending,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToDormResponses(dorms []Dorm) []DormResponse {
	responses := make([]DormResponse, len(dorms))
	for i := range dorms {
		responses[i] = ToDormResponse(&dorms[i])
	}
	return responses
}
