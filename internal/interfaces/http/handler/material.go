package handler

import (
	materialapp "github.com/atelier/backend/internal/application/material"
	"github.com/atelier/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaterialHandler handles raw material API endpoints
type MaterialHandler struct {
	BaseHandler
	materialService *materialapp.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService *materialapp.MaterialService) *MaterialHandler {
	return &MaterialHandler{
		materialService: materialService,
	}
}

// MaterialListRequest carries list query parameters for materials
type MaterialListRequest struct {
	dto.ListRequest
	Category     string `form:"category"`
	Unit         string `form:"unit"`
	Active       *bool  `form:"active"`
	BelowMinimum *bool  `form:"below_minimum"`
	HasStock     *bool  `form:"has_stock"`
}

// MovementListRequest carries list query parameters for the movement ledger
type MovementListRequest struct {
	dto.ListRequest
	Kind    string `form:"kind"`
	BatchID string `form:"batch_id" binding:"omitempty,uuid"`
	From    string `form:"from"`
	To      string `form:"to"`
}

// Create registers a new raw material
func (h *MaterialHandler) Create(c *gin.Context) {
	var req materialapp.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.materialService.CreateMaterial(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update changes a material's descriptive attributes. Quantity and cost only
// move through the movement ledger.
func (h *MaterialHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	var req materialapp.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.materialService.UpdateMaterial(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate soft-deletes a material. Its ledger is preserved.
func (h *MaterialHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	if err := h.materialService.DeactivateMaterial(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID retrieves a single material
func (h *MaterialHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	resp, err := h.materialService.GetMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves a paginated list of materials with optional filters
func (h *MaterialHandler) List(c *gin.Context) {
	var req MaterialListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := buildFilter(req.ListRequest)
	if req.Category != "" {
		filter.Filters["category"] = req.Category
	}
	if req.Unit != "" {
		filter.Filters["unit"] = req.Unit
	}
	if req.Active != nil {
		filter.Filters["active"] = *req.Active
	}
	if req.BelowMinimum != nil {
		filter.Filters["below_minimum"] = *req.BelowMinimum
	}
	if req.HasStock != nil {
		filter.Filters["has_stock"] = *req.HasStock
	}

	result, err := h.materialService.ListMaterials(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListBelowMinimum retrieves active materials whose balance is under the
// configured minimum stock
func (h *MaterialHandler) ListBelowMinimum(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := h.materialService.ListBelowMinimum(c.Request.Context(), buildFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// RecordMovement records a manual stock movement (entrada, ajuste or perda)
func (h *MaterialHandler) RecordMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	var req materialapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.MaterialID = id
	req.Actor = getActor(c, req.Actor)

	resp, err := h.materialService.RecordMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListMovements retrieves the movement ledger of a material
func (h *MaterialHandler) ListMovements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	var req MovementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := buildFilter(req.ListRequest)
	if req.Kind != "" {
		filter.Filters["kind"] = req.Kind
	}
	if req.BatchID != "" {
		filter.Filters["batch_id"] = req.BatchID
	}
	if req.From != "" {
		filter.Filters["from"] = req.From
	}
	if req.To != "" {
		filter.Filters["to"] = req.To
	}

	result, err := h.materialService.ListMovements(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// StockValueData carries a material's stock valuation
type StockValueData struct {
	MaterialID uuid.UUID `json:"material_id"`
	StockValue string    `json:"stock_value"`
}

// GetStockValue returns the current balance valued at the weighted-average cost
func (h *MaterialHandler) GetStockValue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	value, err := h.materialService.MaterialStockValue(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, StockValueData{MaterialID: id, StockValue: value.StringFixed(2)})
}
