package recipe

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelier/backend/internal/domain/recipe"
)

// ItemRequest is one line of a recipe being saved
type ItemRequest struct {
	MaterialID uuid.UUID       `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Unit       string          `json:"unit" binding:"required"`
}

// SaveRecipeRequest stores a new revision of a product's recipe
type SaveRecipeRequest struct {
	ProductID uuid.UUID     `json:"product_id" binding:"required"`
	Items     []ItemRequest `json:"items" binding:"required,min=1"`
}

// ItemResponse is the read model of one recipe line
type ItemResponse struct {
	MaterialID uuid.UUID       `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
}

// RecipeResponse is the read model of one recipe revision
type RecipeResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Revision  int             `json:"revision"`
	IsActive  bool            `json:"is_active"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Items     []ItemResponse  `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LiveCostItem is one recipe line costed at the material's current
// weighted-average cost.
type LiveCostItem struct {
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	BaseQuantity decimal.Decimal `json:"base_quantity"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	LineCost     decimal.Decimal `json:"line_cost"`
}

// LiveCostResponse is the current cost of producing one unit of the product
type LiveCostResponse struct {
	RecipeID     uuid.UUID       `json:"recipe_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Revision     int             `json:"revision"`
	Items        []LiveCostItem  `json:"items"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	SnapshotCost decimal.Decimal `json:"snapshot_cost"`
}

// ToRecipeResponse converts a domain recipe to its read model
func ToRecipeResponse(r *recipe.Recipe) *RecipeResponse {
	items := make([]ItemResponse, len(r.Items))
	for i := range r.Items {
		items[i] = ItemResponse{
			MaterialID: r.Items[i].MaterialID,
			Quantity:   r.Items[i].Quantity,
			Unit:       r.Items[i].Unit.String(),
		}
	}
	return &RecipeResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		Revision:  r.Revision,
		IsActive:  r.IsActive,
		TotalCost: r.TotalCost,
		Items:     items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
