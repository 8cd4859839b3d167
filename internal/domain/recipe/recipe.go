package recipe

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe is a versioned bill-of-materials for one finished product.
// Revision numbers grow per product; at most one revision per product is
// active at any time (the registry enforces the invariant transactionally).
// TotalCost is a snapshot taken at save time and is never updated afterwards;
// live costing always goes back to the materials.
type Recipe struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product_revision,priority:1"`
	Revision  int             `gorm:"not null;uniqueIndex:idx_recipe_product_revision,priority:2"`
	IsActive  bool            `gorm:"not null;default:false;index"`
	TotalCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Items     []RecipeItem    `gorm:"foreignKey:RecipeID;references:ID"`
}

// TableName returns the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeItem is one line of the bill-of-materials. Quantity is kept in the
// display unit the operator typed; it is expanded to base units through the
// unit conversion whenever the recipe is costed or produced.
type RecipeItem struct {
	shared.BaseEntity
	RecipeID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	MaterialID uuid.UUID               `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Unit       valueobject.MeasureUnit `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (RecipeItem) TableName() string {
	return "recipe_items"
}

// BaseQuantity returns the line quantity converted to base units
func (i *RecipeItem) BaseQuantity() (decimal.Decimal, error) {
	return valueobject.ToBaseQuantity(i.Quantity, i.Unit)
}

// ItemInput is the caller-facing shape of one recipe line
type ItemInput struct {
	MaterialID uuid.UUID
	Quantity   decimal.Decimal
	Unit       valueobject.MeasureUnit
}

// NewRecipe creates a new recipe revision. The revision starts inactive; the
// registry activates it while deactivating its siblings in the same unit of
// work.
func NewRecipe(productID uuid.UUID, revision int, items []ItemInput) (*Recipe, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if revision < 1 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Revision must be positive")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipe needs at least one item")
	}

	r := &Recipe{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Revision:          revision,
		IsActive:          false,
		TotalCost:         decimal.Zero,
		Items:             make([]RecipeItem, 0, len(items)),
	}

	seen := make(map[uuid.UUID]bool, len(items))
	for _, in := range items {
		if in.MaterialID == uuid.Nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipe item material cannot be empty")
		}
		if seen[in.MaterialID] {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipe lists the same material twice")
		}
		seen[in.MaterialID] = true
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipe item quantity must be positive")
		}
		if !in.Unit.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Recipe item has an unknown unit")
		}
		r.Items = append(r.Items, RecipeItem{
			BaseEntity: shared.NewBaseEntity(),
			RecipeID:   r.ID,
			MaterialID: in.MaterialID,
			Quantity:   in.Quantity,
			Unit:       in.Unit,
		})
	}

	return r, nil
}

// SnapshotCost fixes the recipe's saved cost from the material costs in
// effect right now. Called once when the revision is stored.
func (r *Recipe) SnapshotCost(costPerBaseUnit map[uuid.UUID]decimal.Decimal) error {
	total := decimal.Zero
	for i := range r.Items {
		baseQty, err := r.Items[i].BaseQuantity()
		if err != nil {
			return shared.NewDomainError("VALIDATION_ERROR", err.Error())
		}
		cost, ok := costPerBaseUnit[r.Items[i].MaterialID]
		if !ok {
			return shared.NewDomainError("NOT_FOUND", "Material referenced by recipe not found")
		}
		total = total.Add(baseQty.Mul(cost))
	}
	r.TotalCost = total.Round(4)
	return nil
}

// Activate marks this revision active
func (r *Recipe) Activate() {
	r.IsActive = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Deactivate marks this revision inactive
func (r *Recipe) Deactivate() {
	r.IsActive = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// MaterialIDs returns the distinct materials the recipe references
func (r *Recipe) MaterialIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for i := range r.Items {
		ids = append(ids, r.Items[i].MaterialID)
	}
	return ids
}
