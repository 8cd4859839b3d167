package event

import (
	"context"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler logs a warning whenever a movement leaves a material
// under its minimum-stock threshold.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger}
}

// Handle processes a below-minimum event
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*material.MaterialBelowMinimumEvent)
	if !ok {
		return nil
	}
	h.logger.Warn("material below minimum stock",
		zap.String("material_id", e.MaterialID.String()),
		zap.String("material", e.MaterialName),
		zap.String("current_quantity", e.CurrentQuantity.String()),
		zap.String("minimum_stock", e.MinimumStock.String()),
	)
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{material.EventTypeMaterialBelowMinimum}
}

// CostChangeAuditHandler logs weighted-average cost changes so price drifts
// stay visible in the logs.
type CostChangeAuditHandler struct {
	logger *zap.Logger
}

// NewCostChangeAuditHandler creates a new CostChangeAuditHandler
func NewCostChangeAuditHandler(logger *zap.Logger) *CostChangeAuditHandler {
	return &CostChangeAuditHandler{logger: logger}
}

// Handle processes a cost-changed event
func (h *CostChangeAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*material.MaterialCostChangedEvent)
	if !ok {
		return nil
	}
	h.logger.Info("material cost changed",
		zap.String("material_id", e.MaterialID.String()),
		zap.String("material", e.MaterialName),
		zap.String("old_cost", e.OldCost.String()),
		zap.String("new_cost", e.NewCost.String()),
	)
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *CostChangeAuditHandler) EventTypes() []string {
	return []string{material.EventTypeMaterialCostChanged}
}

// ProductionAuditHandler logs batch creations and status transitions
type ProductionAuditHandler struct {
	logger *zap.Logger
}

// NewProductionAuditHandler creates a new ProductionAuditHandler
func NewProductionAuditHandler(logger *zap.Logger) *ProductionAuditHandler {
	return &ProductionAuditHandler{logger: logger}
}

// Handle processes production batch events
func (h *ProductionAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *production.BatchCreatedEvent:
		h.logger.Info("production batch created",
			zap.String("batch_id", e.BatchID.String()),
			zap.String("product_id", e.ProductID.String()),
			zap.String("quantity", e.Quantity.String()),
			zap.String("status", e.Status.String()),
			zap.String("total_cost", e.TotalCost.String()),
		)
	case *production.BatchStatusChangedEvent:
		h.logger.Info("production batch status changed",
			zap.String("batch_id", e.BatchID.String()),
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
			zap.String("actor", e.Actor),
		)
	}
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *ProductionAuditHandler) EventTypes() []string {
	return []string{
		production.EventTypeBatchCreated,
		production.EventTypeBatchStatusChanged,
	}
}
