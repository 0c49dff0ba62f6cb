// File: internal/school/repository.go
package school

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dormview_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for school data operations.
type Repository interface {
	Create(ctx context.Context, school *School) error
	FindByID(ctx context.Context, id uuid.UUID) (*School, error)
	FindBySlug(ctx context.Context, slug string) (*School, error)
	Update(ctx context.Context, school *School) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query ListSchoolsQuery) ([]School, *common.Pagination, error)
	ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]School, *common.Pagination, error)
	CountPending(ctx context.Context) (int64, error)
	ToggleFavorite(ctx context.Context, userID, schoolID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]School, *common.Pagination, error)
	FindAllForSync(ctx context.Context, offset, limit int) ([]School, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM school repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, school *School) error {
	if err := r.db.WithContext(ctx).Create(school).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A school with this name already exists.")
		}
		return fmt.Errorf("failed to create school: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*School, error) {
	var school School
	err := r.db.WithContext(ctx).First(&school, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("School not found.")
		}
		return nil, err
	}
	return &school, nil
}

func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*School, error) {
	var school School
	err := r.db.WithContext(ctx).First(&school, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("School not found.")
		}
		return nil, err
	}
	return &school, nil
}

func (r *gormRepository) Update(ctx context.Context, school *School) error {
	result := r.db.WithContext(ctx).Save(school)
	if result.Error != nil {
		return fmt.Errorf("failed to update school: %w", result.Error)
	}
	return nil
}

// Delete removes a school. Dependent dorms, photos and favorites are removed
// by the database's ON DELETE CASCADE constraints.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&School{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("School not found or already deleted.")
	}
	return nil
}

// List returns approved schools, sorted by name or by date added.
func (r *gormRepository) List(ctx context.Context, query ListSchoolsQuery) ([]School, *common.Pagination, error) {
	var schools []School
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&School{}).Where("pending = ?", false)

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count schools: %w", err)
	}

	switch query.Sort {
	case SortByNewest:
		dbQuery = dbQuery.Order("created_at DESC")
	default:
		dbQuery = dbQuery.Order("name ASC")
	}

	pagination := common.NewPagination(totalItems, query.Page, query.PageSize)
	err := dbQuery.Offset(query.Offset()).Limit(query.Limit()).Find(&schools).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, pagination, nil
}

// ListPending returns pending schools, restricted to one owner when ownerID
// is non-nil (admins pass nil to see the whole review queue).
func (r *gormRepository) ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]School, *common.Pagination, error) {
	var schools []School
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&School{}).Where("pending = ?", true)
	if ownerID != nil {
		dbQuery = dbQuery.Where("owner_id = ?", *ownerID)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count pending schools: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("created_at ASC").Offset(pq.Offset()).Limit(pq.Limit()).Find(&schools).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pending schools: %w", err)
	}
	return schools, pagination, nil
}

func (r *gormRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&School{}).Where("pending = ?", true).Count(&count).Error
	return count, err
}

// ToggleFavorite flips the favorite state for a user and school and returns
// the new state. The flip runs in a transaction so concurrent toggles cannot
// double-insert.
func (r *gormRepository) ToggleFavorite(ctx context.Context, userID, schoolID uuid.UUID) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Favorite
		err := tx.First(&existing, "user_id = ? AND school_id = ?", userID, schoolID).Error
		if err == nil {
			favorited = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		favorited = true
		return tx.Create(&Favorite{UserID: userID, SchoolID: schoolID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle school favorite: %w", err)
	}
	return favorited, nil
}

// FindAllForSync pages through every school in insertion order, pending ones
// included. Used by the bulk reindex command.
func (r *gormRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]School, error) {
	var schools []School
	err := r.db.WithContext(ctx).Order("created_at ASC").Offset(offset).Limit(limit).Find(&schools).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schools for sync: %w", err)
	}
	return schools, nil
}

func (r *gormRepository) ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]School, *common.Pagination, error) {
	var schools []School
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&School{}).
		Joins("JOIN school_favorites ON school_favorites.school_id = schools.id").
		Where("school_favorites.user_id = ?", userID)

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count favorite schools: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("school_favorites.created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).Find(&schools).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list favorite schools: %w", err)
	}
	return schools, pagination, nil
}
