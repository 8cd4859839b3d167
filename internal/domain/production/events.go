package production

import (
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the production batch aggregate
const (
	EventTypeBatchCreated       = "production.batch_created"
	EventTypeBatchStatusChanged = "production.batch_status_changed"
)

// BatchCreatedEvent is emitted when a batch is committed
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	BatchID   uuid.UUID       `json:"batch_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Status    BatchStatus     `json:"status"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// NewBatchCreatedEvent creates a batch-created event
func NewBatchCreatedEvent(b *ProductionBatch) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCreated, "ProductionBatch", b.ID),
		BatchID:         b.ID,
		ProductID:       b.ProductID,
		Quantity:        b.QuantityProduced,
		Status:          b.Status,
		TotalCost:       b.TotalCost,
	}
}

// BatchStatusChangedEvent is emitted on every status transition
type BatchStatusChangedEvent struct {
	shared.BaseDomainEvent
	BatchID   uuid.UUID   `json:"batch_id"`
	ProductID uuid.UUID   `json:"product_id"`
	From      BatchStatus `json:"from"`
	To        BatchStatus `json:"to"`
	Actor     string      `json:"actor"`
}

// NewBatchStatusChangedEvent creates a status-changed event
func NewBatchStatusChangedEvent(b *ProductionBatch, from, to BatchStatus, actor string) *BatchStatusChangedEvent {
	return &BatchStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchStatusChanged, "ProductionBatch", b.ID),
		BatchID:         b.ID,
		ProductID:       b.ProductID,
		From:            from,
		To:              to,
		Actor:           actor,
	}
}
