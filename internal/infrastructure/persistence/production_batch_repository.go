package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
)

// GormProductionBatchRepository implements ProductionBatchRepository using GORM
type GormProductionBatchRepository struct {
	db *gorm.DB
}

// NewGormProductionBatchRepository creates a new GormProductionBatchRepository
func NewGormProductionBatchRepository(db *gorm.DB) *GormProductionBatchRepository {
	return &GormProductionBatchRepository{db: db}
}

// FindByID finds a batch with its consumption items
func (r *GormProductionBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionBatch, error) {
	var b production.ProductionBatch
	if err := r.db.WithContext(ctx).Preload("Items").First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindAll finds batches matching the filter
func (r *GormProductionBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionBatch, error) {
	var batches []production.ProductionBatch
	query := r.applyFilter(r.db.WithContext(ctx).Model(&production.ProductionBatch{}).Preload("Items"), filter)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Count counts batches matching the filter
func (r *GormProductionBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&production.ProductionBatch{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a batch together with its items
func (r *GormProductionBatchRepository) Create(ctx context.Context, b *production.ProductionBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// SaveWithLock saves status and reversal fields with optimistic locking
func (r *GormProductionBatchRepository) SaveWithLock(ctx context.Context, b *production.ProductionBatch) error {
	result := r.db.WithContext(ctx).
		Model(b).
		Where("id = ? AND version = ?", b.ID, b.Version-1).
		Updates(map[string]interface{}{
			"status":      b.Status,
			"notes":       b.Notes,
			"reversed_by": b.ReversedBy,
			"reversed_at": b.ReversedAt,
			"version":     b.Version,
			"updated_at":  b.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete physically removes the batch and its items
func (r *GormProductionBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&production.ProductionBatchItem{}, "batch_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&production.ProductionBatch{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options including pagination
func (r *GormProductionBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, BatchSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductionBatchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "recipe_id":
			query = query.Where("recipe_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "created_by":
			query = query.Where("created_by = ?", value)
		}
	}
	return query
}

// Ensure GormProductionBatchRepository implements ProductionBatchRepository
var _ production.ProductionBatchRepository = (*GormProductionBatchRepository)(nil)
