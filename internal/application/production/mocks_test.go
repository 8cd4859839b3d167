package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/product"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/recipe"
	"github.com/atelier/backend/internal/domain/shared"
)

// MockRawMaterialRepository is a mock implementation of material.RawMaterialRepository
type MockRawMaterialRepository struct {
	mock.Mock
}

func (m *MockRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.RawMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*material.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]material.RawMaterial, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRawMaterialRepository) Create(ctx context.Context, mat *material.RawMaterial) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}

func (m *MockRawMaterialRepository) Save(ctx context.Context, mat *material.RawMaterial) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}

func (m *MockRawMaterialRepository) SaveWithLock(ctx context.Context, mat *material.RawMaterial) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}

// MockStockMovementRepository is a mock implementation of material.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock

	recorded []*material.StockMovement
}

func (m *MockStockMovementRepository) Create(ctx context.Context, mv *material.StockMovement) error {
	args := m.Called(ctx, mv)
	if args.Error(0) == nil {
		m.recorded = append(m.recorded, mv)
	}
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.StockMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*material.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]material.StockMovement, error) {
	args := m.Called(ctx, materialID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, materialID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockMovementRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]material.StockMovement, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.StockMovement), args.Error(1)
}

// Recorded returns the movements created through this mock, in order
func (m *MockStockMovementRepository) Recorded() []*material.StockMovement {
	return m.recorded
}

// MockRecipeRepository is a mock implementation of recipe.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]recipe.Recipe, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]recipe.Recipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipeRepository) MaxRevisionByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipeRepository) Save(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipeRepository) DeactivateAllByProduct(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// MockProductionBatchRepository is a mock implementation of production.ProductionBatchRepository
type MockProductionBatchRepository struct {
	mock.Mock
}

func (m *MockProductionBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.ProductionBatch), args.Error(1)
}

func (m *MockProductionBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionBatch, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.ProductionBatch), args.Error(1)
}

func (m *MockProductionBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductionBatchRepository) Create(ctx context.Context, b *production.ProductionBatch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockProductionBatchRepository) SaveWithLock(ctx context.Context, b *production.ProductionBatch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockProductionBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFinishedGoodsRepository is a mock implementation of product.FinishedGoodsRepository
type MockFinishedGoodsRepository struct {
	mock.Mock
}

func (m *MockFinishedGoodsRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*product.FinishedGoodsStock, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.FinishedGoodsStock), args.Error(1)
}

func (m *MockFinishedGoodsRepository) GetOrCreate(ctx context.Context, productID uuid.UUID) (*product.FinishedGoodsStock, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.FinishedGoodsStock), args.Error(1)
}

func (m *MockFinishedGoodsRepository) SaveWithLock(ctx context.Context, f *product.FinishedGoodsStock) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

// MockTransactionScope runs the scoped function against the supplied mock
// repositories without a real transaction.
type MockTransactionScope struct {
	materials *MockRawMaterialRepository
	movements *MockStockMovementRepository
	recipes   *MockRecipeRepository
	batches   *MockProductionBatchRepository
	goods     *MockFinishedGoodsRepository
}

func (s *MockTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *MockTransactionScope) Materials() material.RawMaterialRepository  { return s.materials }
func (s *MockTransactionScope) Movements() material.StockMovementRepository {
	return s.movements
}
func (s *MockTransactionScope) Recipes() recipe.RecipeRepository { return s.recipes }
func (s *MockTransactionScope) Batches() production.ProductionBatchRepository {
	return s.batches
}
func (s *MockTransactionScope) FinishedGoods() product.FinishedGoodsRepository {
	return s.goods
}
