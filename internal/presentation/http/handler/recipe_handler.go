package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/application/service"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kitchen-inventory-api/pkg/pagination"
)

// RecipeHandler handles recipe registry and order consumption requests
type RecipeHandler struct {
	recipeService *service.RecipeService
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// List handles listing recipes with current costs
func (h *RecipeHandler) List(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Recipes retrieved successfully", pagination.Paginate(recipes, params))
}

// Create handles creating or replacing a recipe
func (h *RecipeHandler) Create(c *gin.Context) {
	var req service.UpsertRecipeInput
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.UpsertRecipe(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Recipe saved successfully", recipe)
}

// Get handles retrieving a recipe by parent item code
func (h *RecipeHandler) Get(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Recipe retrieved successfully", recipe)
}

// Update handles replacing the recipe for the code in the path
func (h *RecipeHandler) Update(c *gin.Context) {
	var req service.UpsertRecipeInput
	if !bindJSON(c, &req) {
		return
	}
	req.ParentItemCode = c.Param("code")

	ctx := c.Request.Context()
	if _, err := h.recipeService.GetRecipe(ctx, req.ParentItemCode); err != nil {
		response.Error(c, err)
		return
	}

	recipe, err := h.recipeService.UpsertRecipe(ctx, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Recipe updated successfully", recipe)
}

// Delete handles removing a recipe
func (h *RecipeHandler) Delete(c *gin.Context) {
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Explode handles scaling a recipe to ?qty=
func (h *RecipeHandler) Explode(c *gin.Context) {
	var req request.ExplodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "qty must be a positive number")
		return
	}

	ingredients, err := h.recipeService.ExplodeRecipe(c.Request.Context(), c.Param("code"), req.Qty)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Recipe exploded successfully", ingredients)
}

// MaxProducible handles how many units current stock can make
func (h *RecipeHandler) MaxProducible(c *gin.Context) {
	result, err := h.recipeService.MaxProducible(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Max producible computed successfully", result)
}

// ConsumeOrder handles deducting stock for a point-of-sale order
func (h *RecipeHandler) ConsumeOrder(c *gin.Context) {
	var req service.ConsumeOrderInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.recipeService.ConsumeOrder(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order consumed successfully", result)
}
