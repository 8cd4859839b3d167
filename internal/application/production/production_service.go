package production

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/product"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/recipe"
	"github.com/atelier/backend/internal/domain/shared"
)

// ProductionService is the batch engine. Simulate is a pure dry-run;
// CreateBatch re-validates stock inside the transaction and commits the
// consumption, the ledger movements, the batch snapshot and the finished
// goods counter atomically.
type ProductionService struct {
	batchRepo      production.ProductionBatchRepository
	recipeRepo     recipe.RecipeRepository
	materialRepo   material.RawMaterialRepository
	goodsRepo      product.FinishedGoodsRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	batchRepo production.ProductionBatchRepository,
	recipeRepo recipe.RecipeRepository,
	materialRepo material.RawMaterialRepository,
	goodsRepo product.FinishedGoodsRepository,
	txScope TransactionScope,
) *ProductionService {
	return &ProductionService{
		batchRepo:    batchRepo,
		recipeRepo:   recipeRepo,
		materialRepo: materialRepo,
		goodsRepo:    goodsRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Simulate checks whether the requested quantity can be produced right now
// and projects its cost at current material costs. Nothing is written; a
// commit that follows re-checks everything because balances may have moved.
func (s *ProductionService) Simulate(ctx context.Context, req SimulateRequest) (*SimulationResult, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}

	r, err := s.recipeRepo.FindByID(ctx, req.RecipeID)
	if err != nil {
		return nil, err
	}

	materials, err := s.materialsByID(ctx, s.materialRepo, r.MaterialIDs())
	if err != nil {
		return nil, err
	}

	result := &SimulationResult{
		RecipeID:  r.ID,
		ProductID: r.ProductID,
		Quantity:  req.Quantity,
		Valid:     true,
		Items:     make([]SimulationItem, 0, len(r.Items)),
		TotalCost: decimal.Zero,
	}

	for i := range r.Items {
		item := &r.Items[i]
		m := materials[item.MaterialID]
		baseQty, err := item.BaseQuantity()
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
		}
		required := baseQty.Mul(req.Quantity)
		sufficient := m.CanFulfill(required)
		if !sufficient {
			result.Valid = false
		}
		lineCost := required.Mul(m.CostPerUnit).Round(4)
		result.Items = append(result.Items, SimulationItem{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			Required:     required,
			Available:    m.CurrentQuantity,
			Sufficient:   sufficient,
			CostPerUnit:  m.CostPerUnit,
			LineCost:     lineCost,
		})
		result.TotalCost = result.TotalCost.Add(lineCost)
	}

	result.TotalCost = result.TotalCost.Round(4)
	if !result.Quantity.IsZero() {
		result.UnitCost = result.TotalCost.Div(result.Quantity).Round(6)
	}
	return result, nil
}

// CreateBatch commits a production run. Stock is validated again inside the
// transaction; a shortfall on any line rolls everything back, so a batch
// never exists half-consumed. A batch born concluido credits the finished
// goods counter in the same transaction.
func (s *ProductionService) CreateBatch(ctx context.Context, req CreateBatchRequest) (*BatchResponse, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}

	initialStatus := production.StatusProduzindo
	if req.InitialStatus != "" {
		initialStatus = production.BatchStatus(req.InitialStatus)
	}

	var result *production.ProductionBatch
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Recipes().FindByID(ctx, req.RecipeID)
		if err != nil {
			return err
		}
		if !r.IsActive {
			return shared.ErrInvalidRecipe
		}

		materials, err := s.materialsByID(ctx, repos.Materials(), r.MaterialIDs())
		if err != nil {
			return err
		}

		// Snapshot the consumption lines at current costs before touching
		// any balance.
		lines := make([]production.ConsumedLine, 0, len(r.Items))
		for i := range r.Items {
			item := &r.Items[i]
			m := materials[item.MaterialID]
			baseQty, err := item.BaseQuantity()
			if err != nil {
				return shared.NewDomainError("VALIDATION_ERROR", err.Error())
			}
			lines = append(lines, production.ConsumedLine{
				MaterialID:       m.ID,
				QuantityConsumed: baseQty.Mul(req.Quantity),
				CostPerUnit:      m.CostPerUnit,
			})
		}

		b, err := production.NewProductionBatch(
			r.ID, r.ProductID, req.Quantity, initialStatus, lines, req.Notes, req.Actor,
		)
		if err != nil {
			return err
		}

		for _, line := range lines {
			m := materials[line.MaterialID]
			balanceBefore := m.CurrentQuantity
			if err := m.ConsumeStock(line.QuantityConsumed); err != nil {
				return err
			}
			mv, err := material.NewStockMovement(
				m.ID, material.MovementBaixaProducao, line.QuantityConsumed,
				balanceBefore, m.CurrentQuantity, line.CostPerUnit, req.Actor,
			)
			if err != nil {
				return err
			}
			mv.WithBatch(b.ID)
			if err := repos.Movements().Create(ctx, mv); err != nil {
				return err
			}
			if err := repos.Materials().SaveWithLock(ctx, m); err != nil {
				return err
			}
			events = append(events, m.GetDomainEvents()...)
			m.ClearDomainEvents()
		}

		if err := repos.Batches().Create(ctx, b); err != nil {
			return err
		}

		if initialStatus == production.StatusConcluido {
			if err := s.applyGoodsDelta(ctx, repos, b.ProductID, b.QuantityProduced); err != nil {
				return err
			}
		}

		result = b
		events = append(events, b.GetDomainEvents()...)
		b.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return ToBatchResponse(result), nil
}

// ChangeStatus moves a batch through the transition table and applies the
// transition's side effects in the same transaction: estorno returns every
// consumed line to stock, completion and loss adjust the finished goods
// counter.
func (s *ProductionService) ChangeStatus(ctx context.Context, batchID uuid.UUID, req ChangeStatusRequest) (*BatchResponse, error) {
	newStatus := production.BatchStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown batch status")
	}

	var result *production.ProductionBatch
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.Batches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}

		effects, err := b.TransitionTo(newStatus, req.Actor)
		if err != nil {
			return err
		}

		if err := s.applyEffects(ctx, repos, b, effects, req.Actor); err != nil {
			return err
		}
		if err := repos.Batches().SaveWithLock(ctx, b); err != nil {
			return err
		}

		result = b
		events = append(events, b.GetDomainEvents()...)
		b.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return ToBatchResponse(result), nil
}

// DeleteBatch removes a batch outright. The compensation depends on the
// current status: an in-progress batch returns its materials, a completed
// one gives back the finished goods it credited, reversed and lost batches
// need nothing. The ledger keeps the compensating estorno entries even
// though the batch rows are gone.
func (s *ProductionService) DeleteBatch(ctx context.Context, batchID uuid.UUID, actor string) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.Batches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}

		effects, err := production.DeletionEffectsFor(b.Status)
		if err != nil {
			return err
		}

		if err := s.applyEffects(ctx, repos, b, effects, actor); err != nil {
			return err
		}
		return repos.Batches().Delete(ctx, batchID)
	})
}

// GetBatch returns one batch with its consumption snapshot
func (s *ProductionService) GetBatch(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	b, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBatchResponse(b), nil
}

// ListBatches returns a page of batches
func (s *ProductionService) ListBatches(ctx context.Context, filter shared.Filter) (*shared.Paginated[BatchResponse], error) {
	batches, err := s.batchRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.batchRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = *ToBatchResponse(&batches[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetFinishedGoods returns the quantity-on-hand counter for a product.
// A product that never produced reads as a zero counter.
func (s *ProductionService) GetFinishedGoods(ctx context.Context, productID uuid.UUID) (*FinishedGoodsResponse, error) {
	f, err := s.goodsRepo.FindByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &FinishedGoodsResponse{
				ProductID:       productID,
				CurrentQuantity: decimal.Zero,
			}, nil
		}
		return nil, err
	}
	return &FinishedGoodsResponse{
		ProductID:       f.ProductID,
		CurrentQuantity: f.CurrentQuantity,
		UpdatedAt:       f.UpdatedAt,
	}, nil
}

// applyEffects executes the side effects of a transition or deletion inside
// the current transaction.
func (s *ProductionService) applyEffects(
	ctx context.Context,
	repos TransactionalRepositories,
	b *production.ProductionBatch,
	effects production.TransitionEffects,
	actor string,
) error {
	if effects.ReturnMaterials {
		for i := range b.Items {
			item := &b.Items[i]
			m, err := repos.Materials().FindByID(ctx, item.MaterialID)
			if err != nil {
				return err
			}
			balanceBefore := m.CurrentQuantity
			if err := m.ReturnStock(item.QuantityConsumed); err != nil {
				return err
			}
			mv, err := material.NewStockMovement(
				m.ID, material.MovementEstorno, item.QuantityConsumed,
				balanceBefore, m.CurrentQuantity, item.CostPerUnit, actor,
			)
			if err != nil {
				return err
			}
			mv.WithBatch(b.ID)
			if err := repos.Movements().Create(ctx, mv); err != nil {
				return err
			}
			if err := repos.Materials().SaveWithLock(ctx, m); err != nil {
				return err
			}
		}
	}

	change := b.FinishedGoodsChange(effects)
	if !change.IsZero() {
		return s.applyGoodsDelta(ctx, repos, b.ProductID, change)
	}
	return nil
}

// applyGoodsDelta adjusts the finished goods counter by a signed quantity
func (s *ProductionService) applyGoodsDelta(
	ctx context.Context,
	repos TransactionalRepositories,
	productID uuid.UUID,
	delta decimal.Decimal,
) error {
	f, err := repos.FinishedGoods().GetOrCreate(ctx, productID)
	if err != nil {
		return err
	}
	if delta.IsPositive() {
		if err := f.Increase(delta); err != nil {
			return err
		}
	} else {
		if err := f.Decrease(delta.Neg()); err != nil {
			return err
		}
	}
	return repos.FinishedGoods().SaveWithLock(ctx, f)
}

// materialsByID loads the given materials and indexes them, failing when any
// is missing or inactive.
func (s *ProductionService) materialsByID(
	ctx context.Context,
	repo material.RawMaterialRepository,
	ids []uuid.UUID,
) (map[uuid.UUID]*material.RawMaterial, error) {
	materials, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*material.RawMaterial, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Material referenced by recipe not found")
		}
		if !m.Active {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipe references an inactive material")
		}
	}
	return byID, nil
}

func (s *ProductionService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		// Event delivery is best effort; the transaction already committed.
		_ = s.eventPublisher.Publish(ctx, event)
	}
}
