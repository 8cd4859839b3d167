package production

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionBatch is the aggregate root for one production run. It is
// created in produzindo or concluido and afterwards moves only through the
// transitions in the status table. Its items snapshot what was consumed and
// at what cost; they stay valid even when material prices move later.
type ProductionBatch struct {
	shared.BaseAggregateRoot
	RecipeID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	QuantityProduced decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status           BatchStatus           `gorm:"type:varchar(20);not null;index"`
	TotalCost        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	UnitCost         decimal.Decimal       `gorm:"type:decimal(18,6);not null"`
	Notes            string                `gorm:"type:varchar(255)"`
	CreatedBy        string                `gorm:"type:varchar(80)"`
	ReversedBy       *string               `gorm:"type:varchar(80)"`
	ReversedAt       *time.Time            `gorm:"type:timestamptz"`
	Items            []ProductionBatchItem `gorm:"foreignKey:BatchID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductionBatch) TableName() string {
	return "production_batches"
}

// ProductionBatchItem records one consumed line. Quantity is in base units
// and the costs are frozen at consumption time; the row is never mutated.
type ProductionBatchItem struct {
	shared.BaseEntity
	BatchID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityConsumed decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPerUnit      decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ProductionBatchItem) TableName() string {
	return "production_batch_items"
}

// ConsumedLine is the input for one snapshotted consumption line
type ConsumedLine struct {
	MaterialID       uuid.UUID
	QuantityConsumed decimal.Decimal
	CostPerUnit      decimal.Decimal
}

// NewProductionBatch creates a batch with its consumption snapshot. The
// initial status must be produzindo or concluido; the other states are only
// reachable through transitions.
func NewProductionBatch(
	recipeID, productID uuid.UUID,
	quantity decimal.Decimal,
	initialStatus BatchStatus,
	lines []ConsumedLine,
	notes, actor string,
) (*ProductionBatch, error) {
	if recipeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipe ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if initialStatus != StatusProduzindo && initialStatus != StatusConcluido {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "A batch starts as produzindo or concluido")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "A batch consumes at least one material")
	}

	b := &ProductionBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RecipeID:          recipeID,
		ProductID:         productID,
		QuantityProduced:  quantity,
		Status:            initialStatus,
		Notes:             notes,
		CreatedBy:         actor,
		Items:             make([]ProductionBatchItem, 0, len(lines)),
	}

	total := decimal.Zero
	for _, line := range lines {
		if line.QuantityConsumed.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Consumed quantity must be positive")
		}
		lineCost := line.QuantityConsumed.Mul(line.CostPerUnit).Round(4)
		total = total.Add(lineCost)
		b.Items = append(b.Items, ProductionBatchItem{
			BaseEntity:       shared.NewBaseEntity(),
			BatchID:          b.ID,
			MaterialID:       line.MaterialID,
			QuantityConsumed: line.QuantityConsumed,
			CostPerUnit:      line.CostPerUnit,
			TotalCost:        lineCost,
		})
	}

	b.TotalCost = total.Round(4)
	b.UnitCost = total.Div(quantity).Round(6)

	b.AddDomainEvent(NewBatchCreatedEvent(b))
	return b, nil
}

// TransitionTo moves the batch to a new status and returns the side effects
// the caller must apply in the same unit of work. A pair outside the table
// fails with ErrInvalidStateTransition and leaves the batch untouched.
func (b *ProductionBatch) TransitionTo(newStatus BatchStatus, actor string) (TransitionEffects, error) {
	if !newStatus.IsValid() {
		return TransitionEffects{}, shared.NewDomainError("VALIDATION_ERROR", "Unknown batch status")
	}

	effects, err := EffectsFor(b.Status, newStatus)
	if err != nil {
		return TransitionEffects{}, err
	}

	oldStatus := b.Status
	b.Status = newStatus
	if newStatus == StatusEstornado {
		now := time.Now()
		b.ReversedBy = &actor
		b.ReversedAt = &now
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchStatusChangedEvent(b, oldStatus, newStatus, actor))
	return effects, nil
}

// FinishedGoodsChange returns the signed finished-goods quantity the given
// effects apply for this batch.
func (b *ProductionBatch) FinishedGoodsChange(effects TransitionEffects) decimal.Decimal {
	if effects.FinishedGoodsDelta == 0 {
		return decimal.Zero
	}
	return b.QuantityProduced.Mul(decimal.NewFromInt(int64(effects.FinishedGoodsDelta)))
}
