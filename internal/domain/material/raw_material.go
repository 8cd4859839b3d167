package material

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RawMaterial is the aggregate root for raw-material stock.
// Quantity is always held in the material's base unit (ml, g or count) and
// CostPerUnit is a moving weighted average per base unit. All balance changes
// go through the ledger methods below so that a StockMovement can be recorded
// alongside every mutation.
type RawMaterial struct {
	shared.BaseAggregateRoot
	Name            string                  `gorm:"type:varchar(120);not null"`
	Category        string                  `gorm:"type:varchar(60);index"`
	Unit            valueobject.MeasureUnit `gorm:"type:varchar(10);not null"`
	CurrentQuantity decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	CostPerUnit     decimal.Decimal         `gorm:"type:decimal(18,6);not null;default:0"`
	MinimumStock    decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Active          bool                    `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RawMaterial) TableName() string {
	return "raw_materials"
}

// NewRawMaterial creates a new raw material with zero stock.
// The unit must be a base storage unit; display units are converted before
// they ever reach the aggregate.
func NewRawMaterial(name, category string, unit valueobject.MeasureUnit, minimumStock decimal.Decimal) (*RawMaterial, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material name cannot be empty")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown unit of measure")
	}
	if !unit.IsBase() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Stock unit must be a base unit (ml, g or unidade)")
	}
	if minimumStock.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Minimum stock cannot be negative")
	}

	return &RawMaterial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          category,
		Unit:              unit,
		CurrentQuantity:   decimal.Zero,
		CostPerUnit:       decimal.Zero,
		MinimumStock:      minimumStock,
		Active:            true,
	}, nil
}

// ReceiveStock records a purchase receipt (entrada): the balance grows and the
// weighted-average cost is recomputed as
// (oldQty * oldCost + qty * incomingCost) / (oldQty + qty).
// When the resulting balance is zero the cost is left unchanged.
func (m *RawMaterial) ReceiveStock(quantity decimal.Decimal, unitCost valueobject.Money) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unit cost cannot be negative")
	}

	oldCost := m.CostPerUnit
	oldQuantity := m.CurrentQuantity
	newQuantity := oldQuantity.Add(quantity)

	if !newQuantity.IsZero() {
		totalValue := oldQuantity.Mul(oldCost).Add(quantity.Mul(unitCost.Amount()))
		m.CostPerUnit = totalValue.Div(newQuantity).Round(6)
	}

	m.CurrentQuantity = newQuantity
	m.touch()

	if !oldCost.Equal(m.CostPerUnit) {
		m.AddDomainEvent(NewMaterialCostChangedEvent(m, oldCost, m.CostPerUnit))
	}

	return nil
}

// ConsumeStock removes stock for production consumption or loss
// (baixa_producao / perda). The cost is untouched. The balance must never go
// negative: a shortfall rejects the whole operation.
func (m *RawMaterial) ConsumeStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if m.CurrentQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	m.CurrentQuantity = m.CurrentQuantity.Sub(quantity)
	m.touch()

	if m.IsBelowMinimum() {
		m.AddDomainEvent(NewMaterialBelowMinimumEvent(m))
	}

	return nil
}

// ReturnStock puts previously consumed stock back (estorno). The cost is not
// recomputed: the original cost was already snapshotted into the batch that
// is being reversed.
func (m *RawMaterial) ReturnStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}

	m.CurrentQuantity = m.CurrentQuantity.Add(quantity)
	m.touch()
	return nil
}

// AdjustStock sets the balance directly to the supplied target (ajuste).
// Cost is unaffected. Returns the signed delta applied.
func (m *RawMaterial) AdjustStock(target decimal.Decimal) (decimal.Decimal, error) {
	if target.IsNegative() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Stock balance cannot be negative")
	}

	delta := target.Sub(m.CurrentQuantity)
	m.CurrentQuantity = target
	m.touch()

	if m.IsBelowMinimum() {
		m.AddDomainEvent(NewMaterialBelowMinimumEvent(m))
	}

	return delta, nil
}

// CanFulfill returns true if the current balance covers the requested quantity
func (m *RawMaterial) CanFulfill(quantity decimal.Decimal) bool {
	return m.CurrentQuantity.GreaterThanOrEqual(quantity)
}

// IsBelowMinimum returns true if the balance is below the minimum threshold
func (m *RawMaterial) IsBelowMinimum() bool {
	return m.MinimumStock.GreaterThan(decimal.Zero) && m.CurrentQuantity.LessThan(m.MinimumStock)
}

// CostPerUnitMoney returns the weighted-average cost as a Money value object
func (m *RawMaterial) CostPerUnitMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(m.CostPerUnit)
}

// StockValue returns the total value of the current balance
func (m *RawMaterial) StockValue() valueobject.Money {
	return valueobject.NewMoneyBRL(m.CurrentQuantity.Mul(m.CostPerUnit))
}

// Update changes the editable attributes of the material.
// The unit cannot change once movements exist; that restriction is enforced
// by the application service.
func (m *RawMaterial) Update(name, category string, minimumStock decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Material name cannot be empty")
	}
	if minimumStock.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Minimum stock cannot be negative")
	}

	m.Name = name
	m.Category = category
	m.MinimumStock = minimumStock
	m.touch()
	return nil
}

// Deactivate hides the material from new recipes and receipts
func (m *RawMaterial) Deactivate() {
	m.Active = false
	m.touch()
}

// Activate makes the material usable again
func (m *RawMaterial) Activate() {
	m.Active = true
	m.touch()
}

func (m *RawMaterial) touch() {
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}
