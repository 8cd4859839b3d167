package product

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinishedGoodsStock is the quantity-on-hand counter for one sellable
// product. It is mutated only by production batch transitions and never
// goes negative.
type FinishedGoodsStock struct {
	shared.BaseAggregateRoot
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CurrentQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (FinishedGoodsStock) TableName() string {
	return "finished_goods_stocks"
}

// NewFinishedGoodsStock creates a zero counter for a product
func NewFinishedGoodsStock(productID uuid.UUID) (*FinishedGoodsStock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	return &FinishedGoodsStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		CurrentQuantity:   decimal.Zero,
	}, nil
}

// Increase adds produced quantity to the counter
func (f *FinishedGoodsStock) Increase(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	f.CurrentQuantity = f.CurrentQuantity.Add(quantity)
	f.touch()
	return nil
}

// Decrease removes quantity from the counter; the counter never goes negative
func (f *FinishedGoodsStock) Decrease(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if f.CurrentQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	f.CurrentQuantity = f.CurrentQuantity.Sub(quantity)
	f.touch()
	return nil
}

func (f *FinishedGoodsStock) touch() {
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
}
