package persistence

import (
	"context"

	"gorm.io/gorm"

	appmaterial "github.com/atelier/backend/internal/application/material"
	appproduction "github.com/atelier/backend/internal/application/production"
	apprecipe "github.com/atelier/backend/internal/application/recipe"
	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/product"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/recipe"
)

// gormTransactionalRepositories hands out repositories bound to one
// transaction. It satisfies the transactional repository interfaces of every
// application service.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Materials returns the raw material repository scoped to the current transaction
func (r *gormTransactionalRepositories) Materials() material.RawMaterialRepository {
	return NewGormRawMaterialRepository(r.tx)
}

// Movements returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) Movements() material.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Recipes returns the recipe repository scoped to the current transaction
func (r *gormTransactionalRepositories) Recipes() recipe.RecipeRepository {
	return NewGormRecipeRepository(r.tx)
}

// Batches returns the production batch repository scoped to the current transaction
func (r *gormTransactionalRepositories) Batches() production.ProductionBatchRepository {
	return NewGormProductionBatchRepository(r.tx)
}

// FinishedGoods returns the finished goods repository scoped to the current transaction
func (r *gormTransactionalRepositories) FinishedGoods() product.FinishedGoodsRepository {
	return NewGormFinishedGoodsRepository(r.tx)
}

// GormMaterialTransactionScope implements the ledger's TransactionScope
// using GORM transactions.
type GormMaterialTransactionScope struct {
	db *gorm.DB
}

// NewGormMaterialTransactionScope creates a new GormMaterialTransactionScope
func NewGormMaterialTransactionScope(db *gorm.DB) *GormMaterialTransactionScope {
	return &GormMaterialTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormMaterialTransactionScope) Execute(ctx context.Context, fn func(repos appmaterial.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormRecipeTransactionScope implements the recipe registry's
// TransactionScope using GORM transactions.
type GormRecipeTransactionScope struct {
	db *gorm.DB
}

// NewGormRecipeTransactionScope creates a new GormRecipeTransactionScope
func NewGormRecipeTransactionScope(db *gorm.DB) *GormRecipeTransactionScope {
	return &GormRecipeTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormRecipeTransactionScope) Execute(ctx context.Context, fn func(repos apprecipe.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormProductionTransactionScope implements the batch engine's
// TransactionScope using GORM transactions.
type GormProductionTransactionScope struct {
	db *gorm.DB
}

// NewGormProductionTransactionScope creates a new GormProductionTransactionScope
func NewGormProductionTransactionScope(db *gorm.DB) *GormProductionTransactionScope {
	return &GormProductionTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormProductionTransactionScope) Execute(ctx context.Context, fn func(repos appproduction.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Interface guards
var (
	_ appmaterial.TransactionScope   = (*GormMaterialTransactionScope)(nil)
	_ apprecipe.TransactionScope     = (*GormRecipeTransactionScope)(nil)
	_ appproduction.TransactionScope = (*GormProductionTransactionScope)(nil)

	_ appmaterial.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ apprecipe.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ appproduction.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
