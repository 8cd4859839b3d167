package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/shared"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// The ledger is append-only; there is deliberately no update or delete.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement to the ledger
func (r *GormStockMovementRepository) Create(ctx context.Context, mv *material.StockMovement) error {
	return r.db.WithContext(ctx).Create(mv).Error
}

// FindByID finds a movement by its ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.StockMovement, error) {
	var mv material.StockMovement
	if err := r.db.WithContext(ctx).First(&mv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mv, nil
}

// FindByMaterial finds the movements of one material, newest first
func (r *GormStockMovementRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]material.StockMovement, error) {
	var movements []material.StockMovement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&material.StockMovement{}).
			Where("material_id = ?", materialID),
		filter,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByMaterial counts the movements of one material
func (r *GormStockMovementRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&material.StockMovement{}).
			Where("material_id = ?", materialID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByBatch finds the movements caused by one production batch
func (r *GormStockMovementRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]material.StockMovement, error) {
	var movements []material.StockMovement
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("movement_date ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// applyFilter applies filter options including pagination
func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	query = query.Order("movement_date " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "batch_id":
			query = query.Where("batch_id = ?", value)
		case "from":
			query = query.Where("movement_date >= ?", value)
		case "to":
			query = query.Where("movement_date <= ?", value)
		}
	}
	return query
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ material.StockMovementRepository = (*GormStockMovementRepository)(nil)
