// File: internal/feedback/model.go
package feedback

import (
	"time"

	"dormview_backend/internal/common"

	"github.com/google/uuid"
)

// Feedback is a free-form message a user sends to the admins.
type Feedback struct {
	common.BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Message string    `gorm:"type:text;not null"`
}

func (Feedback) TableName() string {
	return "feedback"
}

type CreateFeedbackRequest struct {
	Message string `json:"message" binding:"required,min=3,max=2000"`
}

type FeedbackResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func ToFeedbackResponse(f *Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Message:   f.Message,
		CreatedAt: f.CreatedAt,
	}
}

func ToFeedbackResponses(items []Feedback) []FeedbackResponse {
	responses := make([]FeedbackResponse, len(items))
	for i := range items {
		responses[i] = ToFeedbackResponse(&items[i])
	}
	return responses
}
