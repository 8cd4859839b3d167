package handler

import (
	recipeapp "github.com/atelier/backend/internal/application/recipe"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecipeHandler handles recipe API endpoints
type RecipeHandler struct {
	BaseHandler
	recipeService *recipeapp.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService *recipeapp.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
	}
}

// Save stores a new revision of a product's recipe and makes it the active one
func (h *RecipeHandler) Save(c *gin.Context) {
	var req recipeapp.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.recipeService.Save(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a single recipe revision
func (h *RecipeHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	resp, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate makes a stored revision the active recipe of its product,
// superseding whichever revision was active before
func (h *RecipeHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	resp, err := h.recipeService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// LiveCost recalculates a recipe's unit cost at current material costs,
// alongside the snapshot taken when the revision was saved
func (h *RecipeHandler) LiveCost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	resp, err := h.recipeService.LiveUnitCost(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByProduct retrieves every recipe revision of a product, newest first
func (h *RecipeHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	items, err := h.recipeService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// GetActiveByProduct retrieves the active recipe revision of a product
func (h *RecipeHandler) GetActiveByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	resp, err := h.recipeService.GetActiveRecipe(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
