package recipe

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/recipe"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
)

// RecipeService manages versioned recipes. Saved revisions are immutable;
// editing a recipe means saving the next revision.
type RecipeService struct {
	recipeRepo   recipe.RecipeRepository
	materialRepo material.RawMaterialRepository
	txScope      TransactionScope
}

// NewRecipeService creates a new RecipeService
func NewRecipeService(
	recipeRepo recipe.RecipeRepository,
	materialRepo material.RawMaterialRepository,
	txScope TransactionScope,
) *RecipeService {
	return &RecipeService{
		recipeRepo:   recipeRepo,
		materialRepo: materialRepo,
		txScope:      txScope,
	}
}

// Save stores a new revision of the product's recipe and makes it the active
// one. The previous active revision is deactivated in the same transaction.
// The revision's TotalCost is snapshotted from the materials' current
// weighted-average costs.
func (s *RecipeService) Save(ctx context.Context, req SaveRecipeRequest) (*RecipeResponse, error) {
	items := make([]recipe.ItemInput, 0, len(req.Items))
	for _, in := range req.Items {
		unit, err := valueobject.ParseMeasureUnit(in.Unit)
		if err != nil {
			return nil, err
		}
		items = append(items, recipe.ItemInput{
			MaterialID: in.MaterialID,
			Quantity:   in.Quantity,
			Unit:       unit,
		})
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.MaterialID)
	}
	costs, err := s.materialCosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	// The revision number is read inside the transaction so two
	// concurrent saves cannot both build the same one. A race that
	// slips past READ COMMITTED is caught by the unique index on
	// (product_id, revision) and reported as a concurrency conflict.
	var r *recipe.Recipe
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		maxRevision, err := repos.Recipes().MaxRevisionByProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		r, err = recipe.NewRecipe(req.ProductID, maxRevision+1, items)
		if err != nil {
			return err
		}
		if err := r.SnapshotCost(costs); err != nil {
			return err
		}
		r.Activate()
		if err := repos.Recipes().DeactivateAllByProduct(ctx, req.ProductID); err != nil {
			return err
		}
		return repos.Recipes().Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	return ToRecipeResponse(r), nil
}

// Activate makes an already stored revision the active one for its product
func (s *RecipeService) Activate(ctx context.Context, recipeID uuid.UUID) (*RecipeResponse, error) {
	var result *recipe.Recipe

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Recipes().FindByID(ctx, recipeID)
		if err != nil {
			return err
		}
		if err := repos.Recipes().DeactivateAllByProduct(ctx, r.ProductID); err != nil {
			return err
		}
		r.Activate()
		if err := repos.Recipes().Save(ctx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToRecipeResponse(result), nil
}

// GetRecipe returns one revision with its items
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*RecipeResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRecipeResponse(r), nil
}

// GetActiveRecipe returns the product's active revision.
// shared.ErrInvalidRecipe when the product has none.
func (s *RecipeService) GetActiveRecipe(ctx context.Context, productID uuid.UUID) (*RecipeResponse, error) {
	r, err := s.recipeRepo.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToRecipeResponse(r), nil
}

// ListByProduct returns every stored revision of the product, newest first
func (s *RecipeService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]RecipeResponse, error) {
	recipes, err := s.recipeRepo.FindAllByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	responses := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		responses[i] = *ToRecipeResponse(&recipes[i])
	}
	return responses, nil
}

// LiveUnitCost prices one unit of the product against the materials' current
// weighted-average costs. The stored snapshot is returned alongside so the
// caller can see how far costs have drifted since the revision was saved.
func (s *RecipeService) LiveUnitCost(ctx context.Context, recipeID uuid.UUID) (*LiveCostResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	materials, err := s.materialRepo.FindByIDs(ctx, r.MaterialIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*material.RawMaterial, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}

	resp := &LiveCostResponse{
		RecipeID:     r.ID,
		ProductID:    r.ProductID,
		Revision:     r.Revision,
		Items:        make([]LiveCostItem, 0, len(r.Items)),
		TotalCost:    decimal.Zero,
		SnapshotCost: r.TotalCost,
	}

	for i := range r.Items {
		item := &r.Items[i]
		m, ok := byID[item.MaterialID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		baseQty, err := item.BaseQuantity()
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
		}
		lineCost := baseQty.Mul(m.CostPerUnit)
		resp.Items = append(resp.Items, LiveCostItem{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			Quantity:     item.Quantity,
			Unit:         item.Unit.String(),
			BaseQuantity: baseQty,
			CostPerUnit:  m.CostPerUnit,
			LineCost:     lineCost.Round(4),
		})
		resp.TotalCost = resp.TotalCost.Add(lineCost)
	}
	resp.TotalCost = resp.TotalCost.Round(4)

	return resp, nil
}

// materialCosts loads the referenced materials and validates that each one
// exists and is active, returning cost per base unit keyed by material.
func (s *RecipeService) materialCosts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	materials, err := s.materialRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	costs := make(map[uuid.UUID]decimal.Decimal, len(materials))
	for i := range materials {
		if !materials[i].Active {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipe references an inactive material")
		}
		costs[materials[i].ID] = materials[i].CostPerUnit
	}
	for _, id := range ids {
		if _, ok := costs[id]; !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Material referenced by recipe not found")
		}
	}
	return costs, nil
}
