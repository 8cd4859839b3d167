package product

import (
	"context"

	"github.com/google/uuid"
)

// FinishedGoodsRepository provides access to the FinishedGoodsStock aggregate
type FinishedGoodsRepository interface {
	FindByProduct(ctx context.Context, productID uuid.UUID) (*FinishedGoodsStock, error)
	// GetOrCreate returns the counter for the product, creating a zero row
	// when none exists yet.
	GetOrCreate(ctx context.Context, productID uuid.UUID) (*FinishedGoodsStock, error)
	// SaveWithLock persists the counter only when the stored version still
	// matches; a lost race surfaces as shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, f *FinishedGoodsStock) error
}
