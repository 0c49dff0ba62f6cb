// File: internal/moderation/service.go
package moderation

import (
	"context"

	"dormview_backend/internal/dorm"
	"dormview_backend/internal/photo"
	"dormview_backend/internal/school"

	"go.uber.org/zap"
)

// Summary tells the admin dashboard which review queues have work waiting.
type Summary struct {
	HasPendingSchools bool `json:"has_pending_schools"`
	HasPendingDorms   bool `json:"has_pending_dorms"`
	HasPendingPhotos  bool `json:"has_pending_photos"`
}

// Service rolls up the pending state of the three moderated content kinds.
type Service interface {
	PendingSummary(ctx context.Context) (*Summary, error)
}

// ServiceImplementation implements the moderation Service interface.
type ServiceImplementation struct {
	schoolService school.Service
	dormService   dorm.Service
	photoService  photo.Service
	logger        *zap.Logger
}

// NewService creates a new moderation summary service.
func NewService(
	schoolService school.Service,
	dormService dorm.Service,
	photoService photo.Service,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		schoolService: schoolService,
		dormService:   dormService,
		photoService:  photoService,
		logger:        logger.Named("ModerationService"),
	}
}

func (s *ServiceImplementation) PendingSummary(ctx context.Context) (*Summary, error) {
	hasSchools, err := s.schoolService.HasPending(ctx)
	if err != nil {
		return nil, err
	}
	hasDorms, err := s.dormService.HasPending(ctx)
	if err != nil {
		return nil, err
	}
	hasPhotos, err := s.photoService.HasPending(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{
		HasPendingSchools: hasSchools,
		HasPendingDorms:   hasDorms,
		HasPendingPhotos:  hasPhotos,
	}, nil
}
