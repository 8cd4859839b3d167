package material

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
)

// MaterialService handles raw-material registration and the stock ledger.
// Balance changes never happen through a plain update: every change flows
// through RecordMovement so the movement history stays complete.
type MaterialService struct {
	materialRepo   material.RawMaterialRepository
	movementRepo   material.StockMovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(
	materialRepo material.RawMaterialRepository,
	movementRepo material.StockMovementRepository,
	txScope TransactionScope,
) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *MaterialService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateMaterial registers a new raw material. A non-zero initial balance is
// not accepted here; stock enters through an entrada movement so that the
// first ledger entry records the acquisition cost.
func (s *MaterialService) CreateMaterial(ctx context.Context, req CreateMaterialRequest) (*MaterialResponse, error) {
	unit, err := valueobject.ParseMeasureUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	if req.MinimumStock.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Minimum stock cannot be negative")
	}

	m, err := material.NewRawMaterial(req.Name, req.Category, unit.BaseUnit(), req.MinimumStock)
	if err != nil {
		return nil, err
	}

	if err := s.materialRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	return ToMaterialResponse(m), nil
}

// UpdateMaterial changes name, category and minimum stock. Quantity, cost and
// unit are immutable here.
func (s *MaterialService) UpdateMaterial(ctx context.Context, id uuid.UUID, req UpdateMaterialRequest) (*MaterialResponse, error) {
	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := m.Update(req.Name, req.Category, req.MinimumStock); err != nil {
		return nil, err
	}

	if err := s.materialRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}

	return ToMaterialResponse(m), nil
}

// DeactivateMaterial hides the material from new recipes and movements.
// History is preserved.
func (s *MaterialService) DeactivateMaterial(ctx context.Context, id uuid.UUID) error {
	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	m.Deactivate()
	return s.materialRepo.SaveWithLock(ctx, m)
}

// GetMaterial returns a single material by ID
func (s *MaterialService) GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToMaterialResponse(m), nil
}

// ListMaterials returns a page of materials
func (s *MaterialService) ListMaterials(ctx context.Context, filter shared.Filter) (*shared.Paginated[MaterialResponse], error) {
	items, err := s.materialRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.materialRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]MaterialResponse, len(items))
	for i := range items {
		responses[i] = *ToMaterialResponse(&items[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListBelowMinimum returns materials whose balance is under the restock threshold
func (s *MaterialService) ListBelowMinimum(ctx context.Context, filter shared.Filter) ([]MaterialResponse, error) {
	items, err := s.materialRepo.FindBelowMinimum(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]MaterialResponse, len(items))
	for i := range items {
		responses[i] = *ToMaterialResponse(&items[i])
	}
	return responses, nil
}

// ListMovements returns the ledger for one material, newest first
func (s *MaterialService) ListMovements(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (*shared.Paginated[MovementResponse], error) {
	if _, err := s.materialRepo.FindByID(ctx, materialID); err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.FindByMaterial(ctx, materialID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountByMaterial(ctx, materialID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = *ToMovementResponse(&movements[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// RecordMovement applies a manual movement to a material and appends the
// ledger entry, both inside one transaction. Accepted kinds are entrada,
// ajuste and perda; baixa_producao and estorno belong to the batch engine.
func (s *MaterialService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*MovementResponse, error) {
	kind := material.MovementKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement kind")
	}
	if kind == material.MovementBaixaProducao || kind == material.MovementEstorno {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Movement kind is reserved for production batches")
	}

	var result *material.StockMovement
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		m, err := repos.Materials().FindByID(ctx, req.MaterialID)
		if err != nil {
			return err
		}
		if !m.Active {
			return shared.NewDomainError("VALIDATION_ERROR", "Material is inactive")
		}

		balanceBefore := m.CurrentQuantity
		quantity := req.Quantity

		switch kind {
		case material.MovementEntrada:
			if err := m.ReceiveStock(req.Quantity, valueobject.NewMoneyBRL(req.CostPerUnit)); err != nil {
				return err
			}
		case material.MovementAjuste:
			// For ajuste the request quantity is the corrected target balance.
			delta, err := m.AdjustStock(req.Quantity)
			if err != nil {
				return err
			}
			quantity = delta.Abs()
		case material.MovementPerda:
			if err := m.ConsumeStock(req.Quantity); err != nil {
				return err
			}
		}

		mv, err := material.NewStockMovement(
			m.ID, kind, quantity,
			balanceBefore, m.CurrentQuantity,
			m.CostPerUnit, req.Actor,
		)
		if err != nil {
			return err
		}
		mv.WithNotes(req.Notes)

		if err := repos.Movements().Create(ctx, mv); err != nil {
			return err
		}
		if err := repos.Materials().SaveWithLock(ctx, m); err != nil {
			return err
		}

		result = mv
		events = m.GetDomainEvents()
		m.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return ToMovementResponse(result), nil
}

// MaterialStockValue returns the current value of one material's balance
func (s *MaterialService) MaterialStockValue(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return m.StockValue().Amount(), nil
}

func (s *MaterialService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		// Event delivery is best effort; the transaction already committed.
		_ = s.eventPublisher.Publish(ctx, event)
	}
}
