package handler

import (
	productionapp "github.com/atelier/backend/internal/application/production"
	"github.com/atelier/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductionHandler handles production batch API endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *productionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *productionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{
		productionService: productionService,
	}
}

// BatchListRequest carries list query parameters for production batches
type BatchListRequest struct {
	dto.ListRequest
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
	RecipeID  string `form:"recipe_id" binding:"omitempty,uuid"`
	Status    string `form:"status"`
	CreatedBy string `form:"created_by"`
}

// Simulate runs a dry-run availability and cost check without writing anything
func (h *ProductionHandler) Simulate(c *gin.Context) {
	var req productionapp.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.productionService.Simulate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// CreateBatch commits a production run, consuming materials atomically
func (h *ProductionHandler) CreateBatch(c *gin.Context) {
	var req productionapp.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Actor = getActor(c, req.Actor)

	resp, err := h.productionService.CreateBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a single production batch with its consumption lines
func (h *ProductionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	resp, err := h.productionService.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves a paginated list of production batches
func (h *ProductionHandler) List(c *gin.Context) {
	var req BatchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := buildFilter(req.ListRequest)
	if req.ProductID != "" {
		filter.Filters["product_id"] = req.ProductID
	}
	if req.RecipeID != "" {
		filter.Filters["recipe_id"] = req.RecipeID
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.CreatedBy != "" {
		filter.Filters["created_by"] = req.CreatedBy
	}

	result, err := h.productionService.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ChangeStatus moves a batch through its lifecycle, applying stock and
// finished goods side effects in the same transaction
func (h *ProductionHandler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req productionapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Actor = getActor(c, req.Actor)

	resp, err := h.productionService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a batch, compensating its stock and finished goods effects.
// The compensating ledger entries are preserved.
func (h *ProductionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	actor := getActor(c, "")
	if err := h.productionService.DeleteBatch(c.Request.Context(), id, actor); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetFinishedGoods retrieves the finished goods counter of a product
func (h *ProductionHandler) GetFinishedGoods(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	resp, err := h.productionService.GetFinishedGoods(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
