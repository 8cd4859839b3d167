package recipe

import (
	"context"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecipeRepository provides access to the Recipe aggregate.
// FindByID and the product lookups load the recipe together with its items.
type RecipeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Recipe, error)
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) (*Recipe, error)
	FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]Recipe, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Recipe, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// MaxRevisionByProduct returns the highest stored revision for the
	// product, zero when the product has no recipe yet.
	MaxRevisionByProduct(ctx context.Context, productID uuid.UUID) (int, error)
	Create(ctx context.Context, r *Recipe) error
	Save(ctx context.Context, r *Recipe) error
	// DeactivateAllByProduct clears the active flag on every revision of the
	// product. Runs inside the same transaction as the activation that
	// follows so readers never observe zero or two active revisions.
	DeactivateAllByProduct(ctx context.Context, productID uuid.UUID) error
}
