package material

import (
	"context"

	"github.com/atelier/backend/internal/domain/material"
)

// TransactionScope provides transactional access to the ledger repositories.
// Everything executed inside one scope commits or rolls back together: the
// material's new balance and the appended movement are a single unit of work.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the ledger repositories scoped to the
// current transaction.
type TransactionalRepositories interface {
	Materials() material.RawMaterialRepository
	Movements() material.StockMovementRepository
}
