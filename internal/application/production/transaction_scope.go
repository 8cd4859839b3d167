package production

import (
	"context"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/product"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/recipe"
)

// TransactionScope provides transactional access to everything a batch
// touches. Committing a batch writes material balances, ledger movements,
// the batch itself and the finished goods counter as one unit of work; any
// failure rolls the whole set back.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the batch engine repositories scoped to
// the current transaction.
type TransactionalRepositories interface {
	Materials() material.RawMaterialRepository
	Movements() material.StockMovementRepository
	Recipes() recipe.RecipeRepository
	Batches() production.ProductionBatchRepository
	FinishedGoods() product.FinishedGoodsRepository
}
