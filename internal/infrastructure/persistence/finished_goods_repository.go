package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atelier/backend/internal/domain/product"
	"github.com/atelier/backend/internal/domain/shared"
)

// GormFinishedGoodsRepository implements FinishedGoodsRepository using GORM
type GormFinishedGoodsRepository struct {
	db *gorm.DB
}

// NewGormFinishedGoodsRepository creates a new GormFinishedGoodsRepository
func NewGormFinishedGoodsRepository(db *gorm.DB) *GormFinishedGoodsRepository {
	return &GormFinishedGoodsRepository{db: db}
}

// FindByProduct finds the counter for a product
func (r *GormFinishedGoodsRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*product.FinishedGoodsStock, error) {
	var f product.FinishedGoodsStock
	if err := r.db.WithContext(ctx).First(&f, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetOrCreate returns the counter for the product, inserting a zero row when
// none exists. The insert ignores conflicts so concurrent first-writers both
// end up reading the same row.
func (r *GormFinishedGoodsRepository) GetOrCreate(ctx context.Context, productID uuid.UUID) (*product.FinishedGoodsStock, error) {
	f, err := r.FindByProduct(ctx, productID)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := product.NewFinishedGoodsStock(productID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "product_id"}}, DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}
	return r.FindByProduct(ctx, productID)
}

// SaveWithLock saves the counter with optimistic locking
func (r *GormFinishedGoodsRepository) SaveWithLock(ctx context.Context, f *product.FinishedGoodsStock) error {
	result := r.db.WithContext(ctx).
		Model(f).
		Where("id = ? AND version = ?", f.ID, f.Version-1).
		Updates(map[string]interface{}{
			"current_quantity": f.CurrentQuantity,
			"version":          f.Version,
			"updated_at":       f.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormFinishedGoodsRepository implements FinishedGoodsRepository
var _ product.FinishedGoodsRepository = (*GormFinishedGoodsRepository)(nil)
