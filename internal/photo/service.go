// File: internal/photo/service.go
package photo

import (
	"context"
	"mime/multipart"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"
	"dormview_backend/internal/dorm"
	"dormview_backend/internal/push"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	fullSubDir  = "full"
	thumbSubDir = "thumbs"
)

// Storage abstracts the photo file store. Satisfied by
// filestorage.FileStorageService.
type Storage interface {
	SaveUploadedFile(fileHeader *multipart.FileHeader, subDir string) (string, error)
	DeleteFile(relativePath string) error
}

// Service defines the interface for photo-related business logic.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	ListByDorm(ctx context.Context, dormID uuid.UUID, query ListDormPhotosQuery) ([]Photo, *common.Pagination, error)
	RoomsForDorm(ctx context.Context, dormID uuid.UUID) ([]string, error)
	Create(ctx context.Context, ownerID uuid.UUID, isAdmin bool, req CreatePhotoRequest, full, thumb *multipart.FileHeader) (*Photo, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, isAdmin bool) error
	ToggleSaved(ctx context.Context, userID, photoID uuid.UUID) (bool, error)
	ListSaved(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error)
	ListMine(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error)
	ListPending(ctx context.Context, userID uuid.UUID, isAdmin bool, page, pageSize int) ([]Photo, *common.Pagination, error)
	HasPending(ctx context.Context) (bool, error)
	Approve(ctx context.Context, id uuid.UUID, req ApprovePhotoRequest) (*Photo, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) error
}

// ServiceImplementation implements the photo Service interface.
type ServiceImplementation struct {
	repo        Repository
	dormService dorm.Service
	storage     Storage
	notifier    push.Notifier
	cfg         *config.Config
	logger      *zap.Logger
}

// NewService creates a new photo service.
func NewService(
	repo Repository,
	dormService dorm.Service,
	storage Storage,
	notifier push.Notifier,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		repo:        repo,
		dormService: dormService,
		storage:     storage,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger.Named("PhotoService"),
	}
}

func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ServiceImplementation) ListByDorm(ctx context.Context, dormID uuid.UUID, query ListDormPhotosQuery) ([]Photo, *common.Pagination, error) {
	return s.repo.ListByDorm(ctx, dormID, query)
}

func (s *ServiceImplementation) RoomsForDorm(ctx context.Context, dormID uuid.UUID) ([]string, error) {
	return s.repo.RoomsForDorm(ctx, dormID)
}

// Create stores a new photo: the database record first, then the full image,
// then the thumbnail. If either file store fails the record and any file
// already written are rolled back, and the storage error is surfaced.
func (s *ServiceImplementation) Create(ctx context.Context, ownerID uuid.UUID, isAdmin bool, req CreatePhotoRequest, full, thumb *multipart.FileHeader) (*Photo, error) {
	if full == nil || thumb == nil {
		return nil, common.ErrBadRequest.WithDetails("Both the photo and its thumbnail are required.")
	}

	parent, err := s.dormService.GetByID(ctx, req.DormID)
	if err != nil {
		s.logger.Warn("Invalid dorm ID during photo creation", zap.String("dormID", req.DormID.String()), zap.Error(err))
		return nil, common.ErrBadRequest.WithDetails("Invalid dorm ID provided.")
	}
	if parent.Pending {
		return nil, common.ErrBadRequest.WithDetails("Photos can only be added to approved dorms.")
	}

	newPhoto := &Photo{
		Description: req.Description,
		RoomNumber:  req.RoomNumber,
		SchoolID:    parent.SchoolID,
		DormID:      parent.ID,
		OwnerID:     ownerID,
		Pending:     !isAdmin,
	}
	if err := s.repo.Create(ctx, newPhoto); err != nil {
		s.logger.Error("Failed to create photo record", zap.Error(err))
		return nil, err
	}

	fullPath, err := s.storage.SaveUploadedFile(full, fullSubDir)
	if err != nil {
		s.compensate(ctx, newPhoto.ID, "")
		s.logger.Error("Failed to store full-size photo, record rolled back",
			zap.Error(err), zap.String("photoID", newPhoto.ID.String()))
		return nil, common.ErrInternalServer.WithDetails(err.Error())
	}

	thumbPath, err := s.storage.SaveUploadedFile(thumb, thumbSubDir)
	if err != nil {
		s.compensate(ctx, newPhoto.ID, fullPath)
		s.logger.Error("Failed to store thumbnail, record and full image rolled back",
			zap.Error(err), zap.String("photoID", newPhoto.ID.String()))
		return nil, common.ErrInternalServer.WithDetails(err.Error())
	}

	newPhoto.FullPath = fullPath
	newPhoto.ThumbPath = thumbPath
	if err := s.repo.Update(ctx, newPhoto); err != nil {
		s.compensate(ctx, newPhoto.ID, fullPath)
		if delErr := s.storage.DeleteFile(thumbPath); delErr != nil {
			s.logger.Error("Failed to clean up thumbnail after record update failure", zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Photo created",
		zap.String("photoID", newPhoto.ID.String()),
		zap.String("dormID", newPhoto.DormID.String()),
		zap.Bool("pending", newPhoto.Pending),
	)

	if newPhoto.Pending {
		if err := s.notifier.NotifySubmissionPending(ctx, push.TypePhoto); err != nil {
			s.logger.Error("Failed to push pending photo notification", zap.Error(err), zap.String("photoID", newPhoto.ID.String()))
		}
	}
	return newPhoto, nil
}

// compensate undoes a partially completed upload. Cleanup failures are
// logged, there is nothing further to roll back to.
func (s *ServiceImplementation) compensate(ctx context.Context, photoID uuid.UUID, storedPath string) {
	if err := s.repo.Delete(ctx, photoID); err != nil {
		s.logger.Error("Failed to delete photo record during upload rollback",
			zap.Error(err), zap.String("photoID", photoID.String()))
	}
	if storedPath != "" {
		if err := s.storage.DeleteFile(storedPath); err != nil {
			s.logger.Error("Failed to delete stored file during upload rollback",
				zap.Error(err), zap.String("path", storedPath))
		}
	}
}

// Delete removes a photo and its files. Owners may only remove their own
// still-pending submissions, admins may remove anything.
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
			return common.ErrForbidden.WithDetails("Approved photos can only be removed by an admin.")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteFiles(existing)
	return nil
}

func (s *ServiceImplementation) deleteFiles(p *Photo) {
	if p.FullPath != "" {
		if err := s.storage.DeleteFile(p.FullPath); err != nil {
			s.logger.Error("Failed to delete full-size photo file", zap.Error(err), zap.String("photoID", p.ID.String()))
		}
	}
	if p.ThumbPath != "" {
		if err := s.storage.DeleteFile(p.ThumbPath); err != nil {
			s.logger.Error("Failed to delete thumbnail file", zap.Error(err), zap.String("photoID", p.ID.String()))
		}
	}
}

func (s *ServiceImplementation) ToggleSaved(ctx context.Context, userID, photoID uuid.UUID) (bool, error) {
	if _, err := s.repo.FindByID(ctx, photoID); err != nil {
		return false, err
	}
	return s.repo.ToggleSaved(ctx, userID, photoID)
}

func (s *ServiceImplementation) ListSaved(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error) {
	return s.repo.ListSaved(ctx, userID, page, pageSize)
}

func (s *ServiceImplementation) ListMine(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error) {
	return s.repo.ListByOwner(ctx, ownerID, page, pageSize)
}

func (s *ServiceImplementation) ListPending(ctx context.Context, userID uuid.UUID, isAdmin bool, page, pageSize int) ([]Photo, *common.Pagination, error) {
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
func (s *ServiceImplementation) Approve(ctx context.Context, id uuid.UUID, req ApprovePhotoRequest) (*Photo, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Pending {
		return nil, common.ErrConflict.WithDetails("Photo is already approved.")
	}

	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.RoomNumber != nil {
		existing.RoomNumber = req.RoomNumber
	}
	existing.Pending = false

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("Failed to approve photo", zap.Error(err), zap.String("photoID", id.String()))
		return nil, err
	}

	s.logger.Info("Photo approved", zap.String("photoID", id.String()))

	if err := s.notifier.NotifyApproved(ctx, existing.OwnerID, push.TypePhoto, existing.ID); err != nil {
		s.logger.Error("Failed to push photo approval notification", zap.Error(err), zap.String("photoID", id.String()))
	}
	return existing, nil
}

// Reject deletes a pending photo, removes its files and tells the owner why.
func (s *ServiceImplementation) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Pending {
		return common.ErrConflict.WithDetails("Only pending photos can be rejected.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteFiles(existing)
	s.logger.Info("Photo rejected", zap.String("photoID", id.String()))

	if err := s.notifier.NotifyRejected(ctx, existing.OwnerID, push.TypePhoto, reason); err != nil {
		s.logger.Error("Failed to push photo rejection notification", zap.Error(err), zap.String("photoID", id.String()))
	}
	return nil
}
