// File: internal/photo/repository.go
package photo

import (
	"context"
	"errors"
	"fmt"

	"dormview_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for photo data operations.
type Repository interface {
	Create(ctx context.Context, photo *Photo) error
	FindByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	Update(ctx context.Context, photo *Photo) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDorm(ctx context.Context, dormID uuid.UUID, query ListDormPhotosQuery) ([]Photo, *common.Pagination, error)
	RoomsForDorm(ctx context.Context, dormID uuid.UUID) ([]string, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error)
	ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error)
	CountPending(ctx context.Context) (int64, error)
	ToggleSaved(ctx context.Context, userID, photoID uuid.UUID) (bool, error)
	ListSaved(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM photo repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, photo *Photo) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	var photo Photo
	err := r.db.WithContext(ctx).First(&photo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Photo not found.")
		}
		return nil, err
	}
	return &photo, nil
}

func (r *gormRepository) Update(ctx context.Context, photo *Photo) error {
	if err := r.db.WithContext(ctx).Save(photo).Error; err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Photo{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Photo not found or already deleted.")
	}
	return nil
}

// ListByDorm returns approved photos for one dorm, newest first, optionally
// filtered to a room number.
func (r *gormRepository) ListByDorm(ctx context.Context, dormID uuid.UUID, query ListDormPhotosQuery) ([]Photo, *common.Pagination, error) {
	var photos []Photo
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Photo{}).
		Where("dorm_id = ? AND pending = ?", dormID, false)
	if query.Room != "" {
		dbQuery = dbQuery.Where("room_number = ?", query.Room)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count dorm photos: %w", err)
	}

	pagination := common.NewPagination(totalItems, query.Page, query.PageSize)
	err := dbQuery.Order("created_at DESC").Offset(query.Offset()).Limit(query.Limit()).Find(&photos).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list dorm photos: %w", err)
	}
	return photos, pagination, nil
}

// RoomsForDorm returns the distinct room numbers that have approved photos.
func (r *gormRepository) RoomsForDorm(ctx context.Context, dormID uuid.UUID) ([]string, error) {
	var rooms []string
	err := r.db.WithContext(ctx).Model(&Photo{}).
		Where("dorm_id = ? AND pending = ? AND room_number IS NOT NULL", dormID, false).
		Distinct("room_number").
		Order("room_number ASC").
		Pluck("room_number", &rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms for dorm: %w", err)
	}
	return rooms, nil
}

func (r *gormRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error) {
	var photos []Photo
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Photo{}).Where("owner_id = ?", ownerID)

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count owner photos: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("created_at DESC").Offset(pq.Offset()).Limit(pq.Limit()).Find(&photos).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list owner photos: %w", err)
	}
	return photos, pagination, nil
}

func (r *gormRepository) ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error) {
	var photos []Photo
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Photo{}).Where("pending = ?", true)
	if ownerID != nil {
		dbQuery = dbQuery.Where("owner_id = ?", *ownerID)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count pending photos: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("created_at ASC").Offset(pq.Offset()).Limit(pq.Limit()).Find(&photos).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pending photos: %w", err)
	}
	return photos, pagination, nil
}

func (r *gormRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Photo{}).Where("pending = ?", true).Count(&count).Error
	return count, err
}

// ToggleSaved flips the saved state and returns the new state.
func (r *gormRepository) ToggleSaved(ctx context.Context, userID, photoID uuid.UUID) (bool, error) {
	var saved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SavedPhoto
		err := tx.First(&existing, "user_id = ? AND photo_id = ?", userID, photoID).Error
		if err == nil {
			saved = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		saved = true
		return tx.Create(&SavedPhoto{UserID: userID, PhotoID: photoID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle saved photo: %w", err)
	}
	return saved, nil
}

func (r *gormRepository) ListSaved(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error) {
	var photos []Photo
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Photo{}).
		Joins("JOIN saved_photos ON saved_photos.photo_id = photos.id").
		Where("saved_photos.user_id = ?", userID)

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count saved photos: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("saved_photos.created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).Find(&photos).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list saved photos: %w", err)
	}
	return photos, pagination, nil
}
