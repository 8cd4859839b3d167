package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/shared"
)

// GormRawMaterialRepository implements RawMaterialRepository using GORM
type GormRawMaterialRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialRepository creates a new GormRawMaterialRepository
func NewGormRawMaterialRepository(db *gorm.DB) *GormRawMaterialRepository {
	return &GormRawMaterialRepository{db: db}
}

// FindByID finds a raw material by its ID
func (r *GormRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.RawMaterial, error) {
	var m material.RawMaterial
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByIDs finds the raw materials with the given IDs
func (r *GormRawMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]material.RawMaterial, error) {
	if len(ids) == 0 {
		return []material.RawMaterial{}, nil
	}
	var materials []material.RawMaterial
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindAll finds all raw materials matching the filter
func (r *GormRawMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	var materials []material.RawMaterial
	query := r.applyFilter(r.db.WithContext(ctx).Model(&material.RawMaterial{}), filter)
	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindBelowMinimum finds materials whose balance is under their minimum stock
func (r *GormRawMaterialRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	var materials []material.RawMaterial
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&material.RawMaterial{}).
			Where("minimum_stock > 0 AND current_quantity < minimum_stock"),
		filter,
	)
	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Count counts the raw materials matching the filter
func (r *GormRawMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&material.RawMaterial{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new raw material
func (r *GormRawMaterialRepository) Create(ctx context.Context, m *material.RawMaterial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Save persists the raw material without a version check
func (r *GormRawMaterialRepository) Save(ctx context.Context, m *material.RawMaterial) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormRawMaterialRepository) SaveWithLock(ctx context.Context, m *material.RawMaterial) error {
	result := r.db.WithContext(ctx).
		Model(m).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(map[string]interface{}{
			"name":             m.Name,
			"category":         m.Category,
			"current_quantity": m.CurrentQuantity,
			"cost_per_unit":    m.CostPerUnit,
			"minimum_stock":    m.MinimumStock,
			"active":           m.Active,
			"version":          m.Version,
			"updated_at":       m.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilter applies filter options including pagination
func (r *GormRawMaterialRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, MaterialSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRawMaterialRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "unit":
			query = query.Where("unit = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("minimum_stock > 0 AND current_quantity < minimum_stock")
			}
		case "has_stock":
			if value == true {
				query = query.Where("current_quantity > 0")
			}
		}
	}
	return query
}

// Ensure GormRawMaterialRepository implements RawMaterialRepository
var _ material.RawMaterialRepository = (*GormRawMaterialRepository)(nil)
