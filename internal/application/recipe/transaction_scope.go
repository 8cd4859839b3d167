package recipe

import (
	"context"

	"github.com/atelier/backend/internal/domain/recipe"
)

// TransactionScope provides transactional access to the recipe registry.
// Saving or activating a revision deactivates its siblings in the same
// transaction so the one-active-revision invariant holds at every instant.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the registry repositories scoped to the
// current transaction.
type TransactionalRepositories interface {
	Recipes() recipe.RecipeRepository
}
