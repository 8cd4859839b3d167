package material

import (
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a ledger movement
type MovementKind string

const (
	// MovementEntrada is a purchase receipt; the only kind that moves the
	// weighted-average cost
	MovementEntrada MovementKind = "entrada"
	// MovementAjuste is a manual correction to a counted balance
	MovementAjuste MovementKind = "ajuste"
	// MovementBaixaProducao is consumption by a production batch
	MovementBaixaProducao MovementKind = "baixa_producao"
	// MovementEstorno returns stock consumed by a reversed batch
	MovementEstorno MovementKind = "estorno"
	// MovementPerda is a registered loss (spillage, expiry, breakage)
	MovementPerda MovementKind = "perda"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is a member of the enumeration
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementEntrada, MovementAjuste, MovementBaixaProducao, MovementEstorno, MovementPerda:
		return true
	}
	return false
}

// IsIncrease returns true for kinds that add stock
func (k MovementKind) IsIncrease() bool {
	switch k {
	case MovementEntrada, MovementEstorno:
		return true
	}
	return false
}

// IsDecrease returns true for kinds that remove stock
func (k MovementKind) IsDecrease() bool {
	switch k {
	case MovementBaixaProducao, MovementPerda:
		return true
	}
	return false
}

// StockMovement is an immutable ledger record of one balance change.
// Movements are append-only: corrections are made with new movements, never
// by editing past ones.
type StockMovement struct {
	shared.BaseEntity
	MaterialID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mov_material"`
	Kind              MovementKind    `gorm:"type:varchar(20);not null;index:idx_stock_mov_kind"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"` // always positive; direction comes from Kind
	BalanceBefore     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPerUnitAtTime decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	BatchID           *uuid.UUID      `gorm:"type:uuid;index"` // production batch that caused the movement, when any
	Notes             string          `gorm:"type:varchar(255)"`
	Actor             string          `gorm:"type:varchar(80)"`
	MovementDate      time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_mov_date"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new ledger record
func NewStockMovement(
	materialID uuid.UUID,
	kind MovementKind,
	quantity decimal.Decimal,
	balanceBefore, balanceAfter decimal.Decimal,
	costPerUnitAtTime decimal.Decimal,
	actor string,
) (*StockMovement, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement kind")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity cannot be negative")
	}
	if balanceAfter.IsNegative() {
		return nil, shared.ErrInsufficientStock
	}

	return &StockMovement{
		BaseEntity:        shared.NewBaseEntity(),
		MaterialID:        materialID,
		Kind:              kind,
		Quantity:          quantity,
		BalanceBefore:     balanceBefore,
		BalanceAfter:      balanceAfter,
		CostPerUnitAtTime: costPerUnitAtTime,
		Actor:             actor,
		MovementDate:      time.Now(),
	}, nil
}

// WithBatch links the movement to the production batch that caused it
func (s *StockMovement) WithBatch(batchID uuid.UUID) *StockMovement {
	s.BatchID = &batchID
	return s
}

// WithNotes attaches free-form notes to the movement
func (s *StockMovement) WithNotes(notes string) *StockMovement {
	s.Notes = notes
	return s
}

// SignedDelta returns the balance change this movement applied. For ajuste the
// delta is whatever difference the correction introduced; for all other kinds
// it is the quantity signed by the kind's direction.
func (s *StockMovement) SignedDelta() decimal.Decimal {
	switch {
	case s.Kind == MovementAjuste:
		return s.BalanceAfter.Sub(s.BalanceBefore)
	case s.Kind.IsDecrease():
		return s.Quantity.Neg()
	default:
		return s.Quantity
	}
}

// TotalCost returns the value moved at the cost in effect at movement time
func (s *StockMovement) TotalCost() decimal.Decimal {
	return s.Quantity.Mul(s.CostPerUnitAtTime)
}
