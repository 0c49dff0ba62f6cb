// File: internal/dorm/repository.go
package dorm

import (
	"context"
	"errors"
	"fmt"

	"dormview_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for dorm data operations.
type Repository interface {
	Create(ctx context.Context, dorm *Dorm) error
	FindByID(ctx context.Context, id uuid.UUID) (*Dorm, error)
	Update(ctx context.Context, dorm *Dorm) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySchool(ctx context.Context, schoolID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error)
	ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error)
	CountPending(ctx context.Context) (int64, error)
	ToggleFavorite(ctx context.Context, userID, dormID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM dorm repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, dorm *Dorm) error {
	if err := r.db.WithContext(ctx).Create(dorm).Error; err != nil {
		return fmt.Errorf("failed to create dorm: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Dorm, error) {
	var dorm Dorm
	err := r.db.WithContext(ctx).First(&dorm, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Dorm not found.")
		}
		return nil, err
	}
	return &dorm, nil
}

func (r *gormRepository) Update(ctx context.Context, dorm *Dorm) error {
	if err := r.db.WithContext(ctx).Save(dorm).Error; err != nil {
		return fmt.Errorf("failed to update dorm: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Dorm{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Dorm not found or already deleted.")
	}
	return nil
}

// ListBySchool returns approved dorms for one school, alphabetically.
func (r *gormRepository) ListBySchool(ctx context.Context, schoolID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	var dorms []Dorm
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Dorm{}).
		Where("school_id = ? AND pending = ?", schoolID, false)

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count dorms: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("name ASC").Offset(pq.Offset()).Limit(pq.Limit()).Find(&dorms).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list dorms: %w", err)
	}
	return dorms, pagination, nil
}

func (r *gormRepository) ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	var dorms []Dorm
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Dorm{}).Where("pending = ?", true)
	if ownerID != nil {
		dbQuery = dbQuery.Where("owner_id = ?", *ownerID)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count pending dorms: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("created_at ASC").Offset(pq.Offset()).Limit(pq.Limit()).Find(&dorms).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pending dorms: %w", err)
	}
	return dorms, pagination, nil
}

func (r *gormRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Dorm{}).Where("pending = ?", true).Count(&count).Error
	return count, err
}

// ToggleFavorite flips the favorite state and returns the new state.
func (r *gormRepository) ToggleFavorite(ctx context.Context, userID, dormID uuid.UUID) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Favorite
		err := tx.First(&existing, "user_id = ? AND dorm_id = ?", userID, dormID).Error
		if err == nil {
			favorited = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		favorited = true
		return tx.Create(&Favorite{UserID: userID, DormID: dormID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle dorm favorite: %w", err)
	}
	return favorited, nil
}

func (r *gormRepository) ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	var dorms []Dorm
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Dorm{}).
		Joins("JOIN dorm_favorites ON dorm_favorites.dorm_id = dorms.id").
		Where("dorm_favorites.user_id = ?", userID)

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count favorite dorms: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("dorm_favorites.created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).Find(&dorms).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list favorite dorms: %w", err)
	}
	return dorms, pagination, nil
}
