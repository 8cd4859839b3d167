package material

import (
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the material aggregate
const (
	EventTypeMaterialCostChanged  = "material.cost_changed"
	EventTypeMaterialBelowMinimum = "material.below_minimum"
)

// MaterialCostChangedEvent is emitted when a receipt moves the
// weighted-average cost
type MaterialCostChangedEvent struct {
	shared.BaseDomainEvent
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	OldCost      decimal.Decimal `json:"old_cost"`
	NewCost      decimal.Decimal `json:"new_cost"`
}

// NewMaterialCostChangedEvent creates a cost-changed event
func NewMaterialCostChangedEvent(m *RawMaterial, oldCost, newCost decimal.Decimal) *MaterialCostChangedEvent {
	return &MaterialCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialCostChanged, "RawMaterial", m.ID),
		MaterialID:      m.ID,
		MaterialName:    m.Name,
		OldCost:         oldCost,
		NewCost:         newCost,
	}
}

// MaterialBelowMinimumEvent is emitted when a consumption or adjustment
// leaves the balance under the minimum-stock threshold
type MaterialBelowMinimumEvent struct {
	shared.BaseDomainEvent
	MaterialID      uuid.UUID       `json:"material_id"`
	MaterialName    string          `json:"material_name"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinimumStock    decimal.Decimal `json:"minimum_stock"`
}

// NewMaterialBelowMinimumEvent creates a below-minimum event
func NewMaterialBelowMinimumEvent(m *RawMaterial) *MaterialBelowMinimumEvent {
	return &MaterialBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialBelowMinimum, "RawMaterial", m.ID),
		MaterialID:      m.ID,
		MaterialName:    m.Name,
		CurrentQuantity: m.CurrentQuantity,
		MinimumStock:    m.MinimumStock,
	}
}
