package production

import (
	"context"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductionBatchRepository provides access to the ProductionBatch aggregate.
// FindByID loads the batch together with its consumption items.
type ProductionBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionBatch, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionBatch, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, b *ProductionBatch) error
	// SaveWithLock persists status and reversal fields only when the stored
	// version still matches; a lost race surfaces as
	// shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, b *ProductionBatch) error
	// Delete physically removes the batch and its items. This destroys the
	// audit trail and is only reachable through the engine's delete path.
	Delete(ctx context.Context, id uuid.UUID) error
}
