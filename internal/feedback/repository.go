// File: internal/feedback/repository.go
package feedback

import (
	"context"
	"fmt"

	"dormview_backend/internal/common"

	"gorm.io/gorm"
)

// Repository defines the interface for feedback data operations.
type Repository interface {
	Create(ctx context.Context, feedback *Feedback) error
	List(ctx context.Context, page, pageSize int) ([]Feedback, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM feedback repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, feedback *Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, page, pageSize int) ([]Feedback, *common.Pagination, error) {
	var items []Feedback
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Feedback{})
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count feedback: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}
	err := dbQuery.Order("created_at DESC").Offset(pq.Offset()).Limit(pq.Limit()).Find(&items).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, pagination, nil
}
