// File: internal/school/service.go
package school

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"
	"dormview_backend/internal/platform/elasticsearch"
	"dormview_backend/internal/push"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the interface for school-related business logic.
type Service interface {
	List(ctx context.Context, query ListSchoolsQuery) ([]School, *common.Pagination, error)
	GetByID(ctx context.Context, id uuid.UUID) (*School, error)
	Search(ctx context.Context, term string, size int) ([]SchoolResponse, error)
	Create(ctx context.Context, ownerID uuid.UUID, isAdmin bool, req CreateSchoolRequest) (*School, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, isAdmin bool) error
	ToggleFavorite(ctx context.Context, userID, schoolID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]School, *common.Pagination, error)
	ListPending(ctx context.Context, userID uuid.UUID, isAdmin bool, page, pageSize int) ([]School, *common.Pagination, error)
	HasPending(ctx context.Context) (bool, error)
	Approve(ctx context.Context, id uuid.UUID, req ApproveSchoolRequest) (*School, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) error
}

// ServiceImplementation implements the school Service interface.
type ServiceImplementation struct {
	repo     Repository
	notifier push.Notifier
	esClient *elasticsearch.ESClientWrapper
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new school service.
func NewService(
	repo Repository,
	notifier push.Notifier,
	esClient *elasticsearch.ESClientWrapper,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		repo:     repo,
		notifier: notifier,
		esClient: esClient,
		cfg:      cfg,
		logger:   logger.Named("SchoolService"),
	}
}

func (s *ServiceImplementation) List(ctx context.Context, query ListSchoolsQuery) ([]School, *common.Pagination, error) {
	return s.repo.List(ctx, query)
}

func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*School, error) {
	return s.repo.FindByID(ctx, id)
}

// Search runs a full text query against the schools index. Only approved
// schools are indexed as searchable.
func (s *ServiceImplementation) Search(ctx context.Context, term string, size int) ([]SchoolResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []SchoolResponse{}, nil
	}
	if s.esClient == nil {
		return nil, common.ErrServiceUnavailable.WithDetails("Search is not available right now.")
	}
	if size <= 0 || size > common.MaxPageSize {
		size = common.DefaultPageSize
	}
	results, err := searchSchools(ctx, s.esClient, term, size)
	if err != nil {
		s.logger.Error("School search failed", zap.Error(err), zap.String("term", term))
		return nil, common.ErrServiceUnavailable.WithDetails("Search is not available right now.")
	}
	return results, nil
}

// Create submits a new school. Regular users go through moderation, admin
// submissions are live immediately.
func (s *ServiceImplementation) Create(ctx context.Context, ownerID uuid.UUID, isAdmin bool, req CreateSchoolRequest) (*School, error) {
	newSchool := &School{
		Name:    strings.TrimSpace(req.Name),
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Pending: !isAdmin,
		OwnerID: ownerID,
	}
	newSchool.Slug = s.uniqueSlug(ctx, newSchool.Name)

	if err := s.repo.Create(ctx, newSchool); err != nil {
		s.logger.Error("Failed to create school", zap.Error(err), zap.String("name", newSchool.Name))
		return nil, err
	}

	s.logger.Info("School created",
		zap.String("schoolID", newSchool.ID.String()),
		zap.Bool("pending", newSchool.Pending),
	)

	if newSchool.Pending {
		if err := s.notifier.NotifySubmissionPending(ctx, push.TypeSchool); err != nil {
			s.logger.Error("Failed to push pending school notification", zap.Error(err), zap.String("schoolID", newSchool.ID.String()))
		}
	} else {
		s.indexBestEffort(ctx, newSchool)
	}
	return newSchool, nil
}

// Delete removes a school. Owners may only remove their own still-pending
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
			return common.ErrForbidden.WithDetails("Approved schools can only be removed by an admin.")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.esClient != nil {
		if err := deleteSchoolFromIndex(ctx, s.esClient, id); err != nil {
			s.logger.Error("Failed to remove school from search index", zap.Error(err), zap.String("schoolID", id.String()))
		}
	}
	return nil
}

func (s *ServiceImplementation) ToggleFavorite(ctx context.Context, userID, schoolID uuid.UUID) (bool, error) {
	if _, err := s.repo.FindByID(ctx, schoolID); err != nil {
		return false, err
	}
	return s.repo.ToggleFavorite(ctx, userID, schoolID)
}

func (s *ServiceImplementation) ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]School, *common.Pagination, error) {
	return s.repo.ListFavorites(ctx, userID, page, pageSize)
}

func (s *ServiceImplementation) ListPending(ctx context.Context, userID uuid.UUID, isAdmin bool, page, pageSize int) ([]School, *common.Pagination, error) {
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

// Approve clears the pending flag, applying any field corrections the admin
// supplied, then indexes the school and notifies the owner.
func (s *ServiceImplementation) Approve(ctx context.Context, id uuid.UUID, req ApproveSchoolRequest) (*School, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Pending {
		return nil, common.ErrConflict.WithDetails("School is already approved.")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" && *req.Name != existing.Name {
		existing.Name = strings.TrimSpace(*req.Name)
		existing.Slug = s.uniqueSlug(ctx, existing.Name)
	}
	if req.City != nil {
		existing.City = req.City
	}
	if req.State != nil {
		existing.State = req.State
	}
	if req.ZipCode != nil {
		existing.ZipCode = req.ZipCode
	}
	existing.Pending = false

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("Failed to approve school", zap.Error(err), zap.String("schoolID", id.String()))
		return nil, err
	}

	s.logger.Info("School approved", zap.String("schoolID", id.String()))
	s.indexBestEffort(ctx, existing)

	if err := s.notifier.NotifyApproved(ctx, existing.OwnerID, push.TypeSchool, existing.ID); err != nil {
		s.logger.Error("Failed to push school approval notification", zap.Error(err), zap.String("schoolID", id.String()))
	}
	return existing, nil
}

// Reject deletes a pending school and tells the owner why.
func (s *ServiceImplementation) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Pending {
		return common.ErrConflict.WithDetails("Only pending schools can be rejected.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("School rejected", zap.String("schoolID", id.String()))

	if err := s.notifier.NotifyRejected(ctx, existing.OwnerID, push.TypeSchool, reason); err != nil {
		s.logger.Error("Failed to push school rejection notification", zap.Error(err), zap.String("schoolID", id.String()))
	}
	return nil
}

// uniqueSlug derives a URL slug from the name, suffixing it when the plain
// form is already taken.
func (s *ServiceImplementation) uniqueSlug(ctx context.Context, name string) string {
	base := slug.Make(name)
	if _, err := s.repo.FindBySlug(ctx, base); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return base
		}
		// On lookup failure fall through to the suffixed form, the unique
		// index still protects against collisions.
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

func (s *ServiceImplementation) indexBestEffort(ctx context.Context, school *School) {
	if s.esClient == nil {
		return
	}
	if err := indexSchool(ctx, s.esClient, school); err != nil {
		s.logger.Error("Failed to index school", zap.Error(err), zap.String("schoolID", school.ID.String()))
	}
}
