// File: internal/feedback/service.go
package feedback

import (
	"context"
	"strings"

	"dormview_backend/internal/common"
	"dormview_backend/internal/push"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for feedback business logic.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateFeedbackRequest) (*Feedback, error)
	List(ctx context.Context, page, pageSize int) ([]Feedback, *common.Pagination, error)
}

// ServiceImplementation implements the feedback Service interface.
type ServiceImplementation struct {
	repo     Repository
	notifier push.Notifier
	logger   *zap.Logger
}

// NewService creates a new feedback service.
func NewService(repo Repository, notifier push.Notifier, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:     repo,
		notifier: notifier,
		logger:   logger.Named("FeedbackService"),
	}
}

// Create stores the feedback and forwards it to the admin push topic.
func (s *ServiceImplementation) Create(ctx context.Context, userID uuid.UUID, req CreateFeedbackRequest) (*Feedback, error) {
	newFeedback := &Feedback{
		UserID:  userID,
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.repo.Create(ctx, newFeedback); err != nil {
		s.logger.Error("Failed to create feedback", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}

	s.logger.Info("Feedback received", zap.String("feedbackID", newFeedback.ID.String()))

	if err := s.notifier.NotifyFeedback(ctx, newFeedback.Message); err != nil {
		s.logger.Error("Failed to push feedback notification", zap.Error(err), zap.String("feedbackID", newFeedback.ID.String()))
	}
	return newFeedback, nil
}

func (s *ServiceImplementation) List(ctx context.Context, page, pageSize int) ([]Feedback, *common.Pagination, error) {
	return s.repo.List(ctx, page, pageSize)
}
