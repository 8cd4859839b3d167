package recipe

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/recipe"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
)

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

// MockTransactionScope runs the scoped function directly against the mock
// recipe repository.
type MockTransactionScope struct {
	recipes recipe.RecipeRepository
}

func (s *MockTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *MockTransactionScope) Recipes() recipe.RecipeRepository {
	return s.recipes
}

func newTestService() (*RecipeService, *MockRecipeRepository, *MockRawMaterialRepository) {
	recipeRepo := new(MockRecipeRepository)
	materialRepo := new(MockRawMaterialRepository)
	txScope := &MockTransactionScope{recipes: recipeRepo}
	return NewRecipeService(recipeRepo, materialRepo, txScope), recipeRepo, materialRepo
}

func stockedMaterial(t *testing.T, name string, unit valueobject.MeasureUnit, qty, cost string) *material.RawMaterial {
	t.Helper()
	m, err := material.NewRawMaterial(name, "", unit, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, m.ReceiveStock(
		decimal.RequireFromString(qty),
		valueobject.NewMoneyBRL(decimal.RequireFromString(cost)),
	))
	m.ClearDomainEvents()
	return m
}

func TestSaveFirstRevision(t *testing.T) {
	svc, recipeRepo, materialRepo := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	essence := stockedMaterial(t, "Essencia", valueobject.UnitMilliliter, "1000", "0.05")
	wax := stockedMaterial(t, "Cera", valueobject.UnitGram, "5000", "0.02")

	recipeRepo.On("MaxRevisionByProduct", ctx, productID).Return(0, nil)
	materialRepo.On("FindByIDs", ctx, mock.Anything).Return([]material.RawMaterial{*essence, *wax}, nil)
	recipeRepo.On("DeactivateAllByProduct", ctx, productID).Return(nil)
	recipeRepo.On("Create", ctx, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

	resp, err := svc.Save(ctx, SaveRecipeRequest{
		ProductID: productID,
		Items: []ItemRequest{
			{MaterialID: essence.ID, Quantity: decimal.NewFromInt(50), Unit: "ml"},
			{MaterialID: wax.ID, Quantity: decimal.RequireFromString("0.2"), Unit: "kg"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Revision)
	assert.True(t, resp.IsActive)
	// 50ml * 0.05 + 200g * 0.02
	assert.True(t, resp.TotalCost.Equal(decimal.RequireFromString("6.5")))
	recipeRepo.AssertExpectations(t)
}

func TestSaveNextRevisionSupersedesActive(t *testing.T) {
	svc, recipeRepo, materialRepo := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	essence := stockedMaterial(t, "Essencia", valueobject.UnitMilliliter, "1000", "0.05")

	recipeRepo.On("MaxRevisionByProduct", ctx, productID).Return(3, nil)
	materialRepo.On("FindByIDs", ctx, mock.Anything).Return([]material.RawMaterial{*essence}, nil)
	recipeRepo.On("DeactivateAllByProduct", ctx, productID).Return(nil)
	recipeRepo.On("Create", ctx, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

	resp, err := svc.Save(ctx, SaveRecipeRequest{
		ProductID: productID,
		Items: []ItemRequest{
			{MaterialID: essence.ID, Quantity: decimal.NewFromInt(60), Unit: "ml"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Revision)
	recipeRepo.AssertCalled(t, "DeactivateAllByProduct", ctx, productID)
}

func TestSaveRejectsUnknownMaterial(t *testing.T) {
	svc, recipeRepo, materialRepo := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	recipeRepo.On("MaxRevisionByProduct", ctx, productID).Return(0, nil)
	materialRepo.On("FindByIDs", ctx, mock.Anything).Return([]material.RawMaterial{}, nil)

	_, err := svc.Save(ctx, SaveRecipeRequest{
		ProductID: productID,
		Items: []ItemRequest{
			{MaterialID: uuid.New(), Quantity: decimal.NewFromInt(10), Unit: "g"},
		},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	recipeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaveRejectsInactiveMaterial(t *testing.T) {
	svc, recipeRepo, materialRepo := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	essence := stockedMaterial(t, "Essencia", valueobject.UnitMilliliter, "1000", "0.05")
	essence.Deactivate()

	recipeRepo.On("MaxRevisionByProduct", ctx, productID).Return(0, nil)
	materialRepo.On("FindByIDs", ctx, mock.Anything).Return([]material.RawMaterial{*essence}, nil)

	_, err := svc.Save(ctx, SaveRecipeRequest{
		ProductID: productID,
		Items: []ItemRequest{
			{MaterialID: essence.ID, Quantity: decimal.NewFromInt(10), Unit: "ml"},
		},
	})
	require.Error(t, err)
}

func TestActivateSwitchesRevision(t *testing.T) {
	svc, recipeRepo, _ := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	r, err := recipe.NewRecipe(productID, 2, []recipe.ItemInput{
		{MaterialID: uuid.New(), Quantity: decimal.NewFromInt(10), Unit: valueobject.UnitGram},
	})
	require.NoError(t, err)

	recipeRepo.On("FindByID", ctx, r.ID).Return(r, nil)
	recipeRepo.On("DeactivateAllByProduct", ctx, productID).Return(nil)
	recipeRepo.On("Save", ctx, r).Return(nil)

	resp, err := svc.Activate(ctx, r.ID)
	require.NoError(t, err)

	assert.True(t, resp.IsActive)
	recipeRepo.AssertExpectations(t)
}

func TestLiveUnitCostTracksCurrentMaterialCost(t *testing.T) {
	svc, recipeRepo, materialRepo := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	essence := stockedMaterial(t, "Essencia", valueobject.UnitMilliliter, "1000", "0.05")

	r, err := recipe.NewRecipe(productID, 1, []recipe.ItemInput{
		{MaterialID: essence.ID, Quantity: decimal.NewFromInt(50), Unit: valueobject.UnitMilliliter},
	})
	require.NoError(t, err)
	require.NoError(t, r.SnapshotCost(map[uuid.UUID]decimal.Decimal{essence.ID: essence.CostPerUnit}))

	// Another receipt moves the weighted average from 0.05 to 0.06.
	require.NoError(t, essence.ReceiveStock(decimal.NewFromInt(1000), valueobject.NewMoneyBRL(decimal.RequireFromString("0.07"))))

	recipeRepo.On("FindByID", ctx, r.ID).Return(r, nil)
	materialRepo.On("FindByIDs", ctx, mock.Anything).Return([]material.RawMaterial{*essence}, nil)

	resp, err := svc.LiveUnitCost(ctx, r.ID)
	require.NoError(t, err)

	assert.True(t, resp.SnapshotCost.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, resp.TotalCost.Equal(decimal.RequireFromString("3")))
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].CostPerUnit.Equal(decimal.RequireFromString("0.06")))
}

func TestSaveConcurrentRevisionConflict(t *testing.T) {
	svc, recipeRepo, materialRepo := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	essence := stockedMaterial(t, "Essencia", valueobject.UnitMilliliter, "1000", "0.05")

	// A racing save stored the same revision first; the repository reports
	// the unique-index collision as a concurrency conflict.
	recipeRepo.On("MaxRevisionByProduct", ctx, productID).Return(1, nil)
	materialRepo.On("FindByIDs", ctx, mock.Anything).Return([]material.RawMaterial{*essence}, nil)
	recipeRepo.On("DeactivateAllByProduct", ctx, productID).Return(nil)
	recipeRepo.On("Create", ctx, mock.AnythingOfType("*recipe.Recipe")).Return(shared.ErrConcurrencyConflict)

	_, err := svc.Save(ctx, SaveRecipeRequest{
		ProductID: productID,
		Items: []ItemRequest{
			{MaterialID: essence.ID, Quantity: decimal.NewFromInt(10), Unit: "ml"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGetActiveRecipeMissing(t *testing.T) {
	svc, recipeRepo, _ := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	recipeRepo.On("FindActiveByProduct", ctx, productID).Return(nil, shared.ErrInvalidRecipe)

	_, err := svc.GetActiveRecipe(ctx, productID)
	assert.ErrorIs(t, err, shared.ErrInvalidRecipe)
}
