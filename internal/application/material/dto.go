package material

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelier/backend/internal/domain/material"
)

// CreateMaterialRequest carries the data needed to register a raw material.
type CreateMaterialRequest struct {
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit" binding:"required"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// UpdateMaterialRequest carries the mutable attributes of a raw material.
// Quantity and cost are never updated directly; they only move through the
// movement ledger.
type UpdateMaterialRequest struct {
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// RecordMovementRequest carries a manual stock movement. Production driven
// movements (baixa_producao, estorno) are recorded by the batch engine and
// are rejected here.
type RecordMovementRequest struct {
	MaterialID  uuid.UUID       `json:"material_id"`
	Kind        string          `json:"kind" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Notes       string          `json:"notes"`
	Actor       string          `json:"actor"`
}

// MaterialResponse is the read model for a raw material.
type MaterialResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	MinimumStock    decimal.Decimal `json:"minimum_stock"`
	StockValue      decimal.Decimal `json:"stock_value"`
	BelowMinimum    bool            `json:"below_minimum"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// MovementResponse is the read model for one ledger entry.
type MovementResponse struct {
	ID                uuid.UUID       `json:"id"`
	MaterialID        uuid.UUID       `json:"material_id"`
	Kind              string          `json:"kind"`
	Quantity          decimal.Decimal `json:"quantity"`
	BalanceBefore     decimal.Decimal `json:"balance_before"`
	BalanceAfter      decimal.Decimal `json:"balance_after"`
	CostPerUnitAtTime decimal.Decimal `json:"cost_per_unit_at_time"`
	BatchID           *uuid.UUID      `json:"batch_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Actor             string          `json:"actor,omitempty"`
	MovementDate      time.Time       `json:"movement_date"`
}

// ToMaterialResponse converts a domain material to its read model.
func ToMaterialResponse(m *material.RawMaterial) *MaterialResponse {
	return &MaterialResponse{
		ID:              m.ID,
		Name:            m.Name,
		Category:        m.Category,
		Unit:            m.Unit.String(),
		CurrentQuantity: m.CurrentQuantity,
		CostPerUnit:     m.CostPerUnit,
		MinimumStock:    m.MinimumStock,
		StockValue:      m.StockValue().Amount(),
		BelowMinimum:    m.IsBelowMinimum(),
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToMovementResponse converts a domain movement to its read model.
func ToMovementResponse(mv *material.StockMovement) *MovementResponse {
	return &MovementResponse{
		ID:                mv.ID,
		MaterialID:        mv.MaterialID,
		Kind:              mv.Kind.String(),
		Quantity:          mv.Quantity,
		BalanceBefore:     mv.BalanceBefore,
		BalanceAfter:      mv.BalanceAfter,
		CostPerUnitAtTime: mv.CostPerUnitAtTime,
		BatchID:           mv.BatchID,
		Notes:             mv.Notes,
		Actor:             mv.Actor,
		MovementDate:      mv.MovementDate,
	}
}
