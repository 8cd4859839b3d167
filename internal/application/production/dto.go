package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelier/backend/internal/domain/production"
)

// SimulateRequest asks whether a quantity can be produced right now
type SimulateRequest struct {
	RecipeID uuid.UUID       `json:"recipe_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// SimulationItem is the requirement check for one recipe line
type SimulationItem struct {
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Sufficient   bool            `json:"sufficient"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	LineCost     decimal.Decimal `json:"line_cost"`
}

// SimulationResult is the outcome of a dry-run. Valid is true only when every
// line is sufficient; the costs are projections at current material costs.
type SimulationResult struct {
	RecipeID  uuid.UUID        `json:"recipe_id"`
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Valid     bool             `json:"valid"`
	Items     []SimulationItem `json:"items"`
	TotalCost decimal.Decimal  `json:"total_cost"`
	UnitCost  decimal.Decimal  `json:"unit_cost"`
}

// CreateBatchRequest commits a production run
type CreateBatchRequest struct {
	RecipeID      uuid.UUID       `json:"recipe_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	InitialStatus string          `json:"initial_status"`
	Notes         string          `json:"notes"`
	Actor         string          `json:"actor"`
}

// ChangeStatusRequest moves a batch to a new status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Actor  string `json:"actor"`
}

// BatchItemResponse is one snapshotted consumption line
type BatchItemResponse struct {
	MaterialID       uuid.UUID       `json:"material_id"`
	QuantityConsumed decimal.Decimal `json:"quantity_consumed"`
	CostPerUnit      decimal.Decimal `json:"cost_per_unit"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// BatchResponse is the read model of a production batch
type BatchResponse struct {
	ID               uuid.UUID           `json:"id"`
	RecipeID         uuid.UUID           `json:"recipe_id"`
	ProductID        uuid.UUID           `json:"product_id"`
	QuantityProduced decimal.Decimal     `json:"quantity_produced"`
	Status           string              `json:"status"`
	TotalCost        decimal.Decimal     `json:"total_cost"`
	UnitCost         decimal.Decimal     `json:"unit_cost"`
	Notes            string              `json:"notes,omitempty"`
	CreatedBy        string              `json:"created_by,omitempty"`
	ReversedBy       *string             `json:"reversed_by,omitempty"`
	ReversedAt       *time.Time          `json:"reversed_at,omitempty"`
	Items            []BatchItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// FinishedGoodsResponse is the quantity-on-hand counter for one product
type FinishedGoodsResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToBatchResponse converts a domain batch to its read model
func ToBatchResponse(b *production.ProductionBatch) *BatchResponse {
	items := make([]BatchItemResponse, len(b.Items))
	for i := range b.Items {
		items[i] = BatchItemResponse{
			MaterialID:       b.Items[i].MaterialID,
			QuantityConsumed: b.Items[i].QuantityConsumed,
			CostPerUnit:      b.Items[i].CostPerUnit,
			TotalCost:        b.Items[i].TotalCost,
		}
	}
	return &BatchResponse{
		ID:               b.ID,
		RecipeID:         b.RecipeID,
		ProductID:        b.ProductID,
		QuantityProduced: b.QuantityProduced,
		Status:           b.Status.String(),
		TotalCost:        b.TotalCost,
		UnitCost:         b.UnitCost,
		Notes:            b.Notes,
		CreatedBy:        b.CreatedBy,
		ReversedBy:       b.ReversedBy,
		ReversedAt:       b.ReversedAt,
		Items:            items,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
