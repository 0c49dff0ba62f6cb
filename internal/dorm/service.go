// File: internal/dorm/service.go
package dorm

import (
	"context"
	"strings"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"
	"dormview_backend/internal/push"
	"dormview_backend/internal/school"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for dorm-related business logic.
type Service interface {
	ListBySchool(ctx context.Context, schoolID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Dorm, error)
	Create(ctx context.Context, ownerID uuid.UUID, isAdmin bool, req CreateDormRequest) (*Dorm, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, isAdmin bool) error
	ToggleFavorite(ctx context.Context, userID, dormID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error)
	ListPending(ctx context.Context, userID uuid.UUID, isAdmin bool, page, pageSize int) ([]Dorm, *common.Pagination, error)
	HasPending(ctx context.Context) (bool, error)
	Approve(ctx context.Context, id uuid.UUID, req ApproveDormRequest) (*Dorm, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) error
}

// ServiceImplementation implements the dorm Service interface.
type ServiceImplementation struct {
	repo          Repository
	schoolService school.Service
	notifier      push.Notifier
	cfg           *config.Config
	logger        *zap.Logger
}

// NewService creates a new dorm service.
func NewService(
	repo Repository,
	schoolService school.Service,
	notifier push.Notifier,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		repo:          repo,
		schoolService: schoolService,
		notifier:      notifier,
		cfg:           cfg,
		logger:        logger.Named("DormService"),
	}
}

func (s *ServiceImplementation) ListBySchool(ctx context.Context, schoolID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	return s.repo.ListBySchool(ctx, schoolID, page, pageSize)
}

func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*Dorm, error) {
	return s.repo.FindByID(ctx, id)
}

// Create submits a new dorm under an existing, approved school.
func (s *ServiceImplementation) Create(ctx context.Context, ownerID uuid.UUID, isAdmin bool, req CreateDormRequest) (*Dorm, error) {
	parent, err := s.schoolService.GetByID(ctx, req.SchoolID)
	if err != nil {
		s.logger.Warn("Invalid school ID during dorm creation", zap.String("schoolID", req.SchoolID.String()), zap.Error(err))
		return nil, common.ErrBadRequest.WithDetails("Invalid school ID provided.")
	}
	if parent.Pending {
		return nil, common.ErrBadRequest.WithDetails("Dorms can only be added to approved schools.")
	}

	newDorm := &Dorm{
		Name:     strings.TrimSpace(req.Name),
		SchoolID: req.SchoolID,
		Styles:   req.Styles,
		Pending:  !isAdmin,
		OwnerID:  ownerID,
	}
	if err := s.repo.Create(ctx, newDorm); err != nil {
		s.logger.Error("Failed to create dorm", zap.Error(err), zap.String("name", newDorm.Name))
		return nil, err
	}

	s.logger.Info("Dorm created",
		zap.String("dormID", newDorm.ID.String()),
		zap.String("schoolID", newDorm.SchoolID.String()),
		zap.Bool("pending", newDorm.Pending),
	)

	if newDorm.Pending {
		if err := s.notifier.NotifySubmissionPending(ctx, push.TypeDorm); err != nil {
			s.logger.Error("Failed to push pending dorm notification", zap.Error(err), zap.String("dormID", newDorm.ID.String()))
		}
	}
	return newDorm, nil
}

// Delete removes a dorm. Owners may only remove their own still-pending
// submissions, admins may remove anything.
func (s *ServiceImplementation) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin {
		if existing.OwnerID != userID {
			return common.ErrForbidden.WithDetails("You can only delete your own submissions.")
		}
		if !existing.Pending {
			return common.ErrForbidden.WithDetails("Approved dorms can only be removed by an admin.")
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImplementation) ToggleFavorite(ctx context.Context, userID, dormID uuid.UUID) (bool, error) {
	if _, err := s.repo.FindByID(ctx, dormID); err != nil {
		return false, err
	}
	return s.repo.ToggleFavorite(ctx, userID, dormID)
}

func (s *ServiceImplementation) ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	return s.repo.ListFavorites(ctx, userID, page, pageSize)
}

func (s *ServiceImplementation) ListPending(ctx context.Context, userID uuid.UUID, isAdmin bool, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	if isAdmin {
		return s.repo.ListPending(ctx, nil, page, pageSize)
	}
	return s.repo.ListPending(ctx, &userID, page, pageSize)
}

func (s *ServiceImplementation) HasPending(ctx context.Context) (bool, error) {
	count, err := s.repo.CountPending(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Approve clears the pending flag, applying any admin corrections, and
// notifies the owner.
func (s *ServiceImplementation) Approve(ctx context.Context, id uuid.UUID, req ApproveDormRequest) (*Dorm, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Pending {
		return nil, common.ErrConflict.WithDetails("Dorm is already approved.")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Styles != nil {
		existing.Styles = req.Styles
	}
	existing.Pending = false

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("Failed to approve dorm", zap.Error(err), zap.String("dormID", id.String()))
		return nil, err
	}

	s.logger.Info("Dorm approved", zap.String("dormID", id.String()))

	if err := s.notifier.NotifyApproved(ctx, existing.OwnerID, push.TypeDorm, existing.ID); err != nil {
		s.logger.Error("Failed to push dorm approval notification", zap.Error(err), zap.String("dormID", id.String()))
	}
	return existing, nil
}

// Reject deletes a pending dorm and tells the owner why.
func (s *ServiceImplementation) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Pending {
		return common.ErrConflict.WithDetails("Only pending dorms can be rejected.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Dorm rejected", zap.String("dormID", id.String()))

	if err := s.notifier.NotifyRejected(ctx, existing.OwnerID, push.TypeDorm, reason); err != nil {
		s.logger.Error("Failed to push dorm rejection notification", zap.Error(err), zap.String("dormID", id.String()))
	}
	return nil
}
