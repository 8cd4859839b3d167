package handler

import (
	"context"

	materialapp "github.com/atelier/backend/internal/application/material"
	productionapp "github.com/atelier/backend/internal/application/production"
	recipeapp "github.com/atelier/backend/internal/application/recipe"
	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/product"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/recipe"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Map-backed repository fakes shared by the handler tests. Handlers are
// exercised end to end through real application services wired to these.

type fakeMaterialRepository struct {
	materials map[uuid.UUID]*material.RawMaterial
	returnErr error
}

func newFakeMaterialRepository() *fakeMaterialRepository {
	return &fakeMaterialRepository{materials: make(map[uuid.UUID]*material.RawMaterial)}
}

func (f *fakeMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.RawMaterial, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	if m, ok := f.materials[id]; ok {
		return m, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]material.RawMaterial, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	var result []material.RawMaterial
	for _, id := range ids {
		if m, ok := f.materials[id]; ok {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (f *fakeMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	var result []material.RawMaterial
	for _, m := range f.materials {
		result = append(result, *m)
	}
	return result, nil
}

func (f *fakeMaterialRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	var result []material.RawMaterial
	for _, m := range f.materials {
		if m.Active && m.IsBelowMinimum() {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (f *fakeMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.materials)), nil
}

func (f *fakeMaterialRepository) Create(ctx context.Context, m *material.RawMaterial) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	f.materials[m.ID] = m
	return nil
}

func (f *fakeMaterialRepository) Save(ctx context.Context, m *material.RawMaterial) error {
	return f.Create(ctx, m)
}

func (f *fakeMaterialRepository) SaveWithLock(ctx context.Context, m *material.RawMaterial) error {
	return f.Create(ctx, m)
}

type fakeMovementRepository struct {
	movements []*material.StockMovement
}

func newFakeMovementRepository() *fakeMovementRepository {
	return &fakeMovementRepository{}
}

func (f *fakeMovementRepository) Create(ctx context.Context, mv *material.StockMovement) error {
	f.movements = append(f.movements, mv)
	return nil
}

func (f *fakeMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.StockMovement, error) {
	for _, mv := range f.movements {
		if mv.ID == id {
			return mv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMovementRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]material.StockMovement, error) {
	var result []material.StockMovement
	for _, mv := range f.movements {
		if mv.MaterialID == materialID {
			result = append(result, *mv)
		}
	}
	return result, nil
}

func (f *fakeMovementRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	for _, mv := range f.movements {
		if mv.MaterialID == materialID {
			count++
		}
	}
	return count, nil
}

func (f *fakeMovementRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]material.StockMovement, error) {
	var result []material.StockMovement
	for _, mv := range f.movements {
		if mv.BatchID != nil && *mv.BatchID == batchID {
			result = append(result, *mv)
		}
	}
	return result, nil
}

type fakeRecipeRepository struct {
	recipes map[uuid.UUID]*recipe.Recipe
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{recipes: make(map[uuid.UUID]*recipe.Recipe)}
}

func (f *fakeRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	if r, ok := f.recipes[id]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRecipeRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) (*recipe.Recipe, error) {
	for _, r := range f.recipes {
		if r.ProductID == productID && r.IsActive {
			return r, nil
		}
	}
	return nil, shared.ErrInvalidRecipe
}

func (f *fakeRecipeRepository) FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]recipe.Recipe, error) {
	var result []recipe.Recipe
	for _, r := range f.recipes {
		if r.ProductID == productID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeRecipeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]recipe.Recipe, error) {
	var result []recipe.Recipe
	for _, r := range f.recipes {
		result = append(result, *r)
	}
	return result, nil
}

func (f *fakeRecipeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.recipes)), nil
}

func (f *fakeRecipeRepository) MaxRevisionByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	highest := 0
	for _, r := range f.recipes {
		if r.ProductID == productID && r.Revision > highest {
			highest = r.Revision
		}
	}
	return highest, nil
}

func (f *fakeRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	f.recipes[r.ID] = r
	return nil
}

func (f *fakeRecipeRepository) Save(ctx context.Context, r *recipe.Recipe) error {
	f.recipes[r.ID] = r
	return nil
}

func (f *fakeRecipeRepository) DeactivateAllByProduct(ctx context.Context, productID uuid.UUID) error {
	for _, r := range f.recipes {
		if r.ProductID == productID {
			r.IsActive = false
		}
	}
	return nil
}

type fakeBatchRepository struct {
	batches map[uuid.UUID]*production.ProductionBatch
}

func newFakeBatchRepository() *fakeBatchRepository {
	return &fakeBatchRepository{batches: make(map[uuid.UUID]*production.ProductionBatch)}
}

func (f *fakeBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionBatch, error) {
	if b, ok := f.batches[id]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionBatch, error) {
	var result []production.ProductionBatch
	for _, b := range f.batches {
		result = append(result, *b)
	}
	return result, nil
}

func (f *fakeBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.batches)), nil
}

func (f *fakeBatchRepository) Create(ctx context.Context, b *production.ProductionBatch) error {
	f.batches[b.ID] = b
	return nil
}

func (f *fakeBatchRepository) SaveWithLock(ctx context.Context, b *production.ProductionBatch) error {
	f.batches[b.ID] = b
	return nil
}

func (f *fakeBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.batches[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.batches, id)
	return nil
}

type fakeGoodsRepository struct {
	goods map[uuid.UUID]*product.FinishedGoodsStock
}

func newFakeGoodsRepository() *fakeGoodsRepository {
	return &fakeGoodsRepository{goods: make(map[uuid.UUID]*product.FinishedGoodsStock)}
}

func (f *fakeGoodsRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*product.FinishedGoodsStock, error) {
	if g, ok := f.goods[productID]; ok {
		return g, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeGoodsRepository) GetOrCreate(ctx context.Context, productID uuid.UUID) (*product.FinishedGoodsStock, error) {
	if g, ok := f.goods[productID]; ok {
		return g, nil
	}
	g, err := product.NewFinishedGoodsStock(productID)
	if err != nil {
		return nil, err
	}
	f.goods[productID] = g
	return g, nil
}

func (f *fakeGoodsRepository) SaveWithLock(ctx context.Context, g *product.FinishedGoodsStock) error {
	f.goods[g.ProductID] = g
	return nil
}

// fakeRepositories bundles the fakes behind every transaction scope interface
type fakeRepositories struct {
	materials *fakeMaterialRepository
	movements *fakeMovementRepository
	recipes   *fakeRecipeRepository
	batches   *fakeBatchRepository
	goods     *fakeGoodsRepository
}

func newFakeRepositories() *fakeRepositories {
	return &fakeRepositories{
		materials: newFakeMaterialRepository(),
		movements: newFakeMovementRepository(),
		recipes:   newFakeRecipeRepository(),
		batches:   newFakeBatchRepository(),
		goods:     newFakeGoodsRepository(),
	}
}

func (f *fakeRepositories) Materials() material.RawMaterialRepository { return f.materials }

func (f *fakeRepositories) Movements() material.StockMovementRepository { return f.movements }

func (f *fakeRepositories) Recipes() recipe.RecipeRepository { return f.recipes }

func (f *fakeRepositories) Batches() production.ProductionBatchRepository { return f.batches }

func (f *fakeRepositories) FinishedGoods() product.FinishedGoodsRepository { return f.goods }

type fakeMaterialScope struct{ repos *fakeRepositories }

func (s *fakeMaterialScope) Execute(ctx context.Context, fn func(materialapp.TransactionalRepositories) error) error {
	return fn(s.repos)
}

type fakeRecipeScope struct{ repos *fakeRepositories }

func (s *fakeRecipeScope) Execute(ctx context.Context, fn func(recipeapp.TransactionalRepositories) error) error {
	return fn(s.repos)
}

type fakeProductionScope struct{ repos *fakeRepositories }

func (s *fakeProductionScope) Execute(ctx context.Context, fn func(productionapp.TransactionalRepositories) error) error {
	return fn(s.repos)
}
