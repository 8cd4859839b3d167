package material

import (
	"context"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RawMaterialRepository provides access to the RawMaterial aggregate
type RawMaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]RawMaterial, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RawMaterial, error)
	FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]RawMaterial, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, m *RawMaterial) error
	Save(ctx context.Context, m *RawMaterial) error
	// SaveWithLock persists the aggregate only when the stored version still
	// matches; a lost race surfaces as shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, m *RawMaterial) error
}

// StockMovementRepository is the append-only store for ledger records.
// Movements are never updated or deleted.
type StockMovementRepository interface {
	Create(ctx context.Context, mv *StockMovement) error
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (int64, error)
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]StockMovement, error)
}
