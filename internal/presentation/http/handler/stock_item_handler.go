package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/application/service"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kitchen-inventory-api/pkg/pagination"
)

// StockItemHandler handles stock item HTTP requests
type StockItemHandler struct {
	ledger *service.StockLedger
	grvs   *service.GRVService
}

// NewStockItemHandler creates a new stock item handler
func NewStockItemHandler(ledger *service.StockLedger, grvs *service.GRVService) *StockItemHandler {
	return &StockItemHandler{ledger: ledger, grvs: grvs}
}

// List handles listing stock items, optionally for one department
func (h *StockItemHandler) List(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}

	items := h.ledger.Items()
	if dept := c.Query("department_id"); dept != "" {
		filtered := make([]entity.StockItem, 0, len(items))
		for _, item := range items {
			if item.DepartmentID == dept {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	response.SuccessWithPagination(c, 200, "Stock items retrieved successfully", pagination.Paginate(items, params))
}

// LowStock handles listing items at or below their reorder level
func (h *StockItemHandler) LowStock(c *gin.Context) {
	response.OK(c, "Low stock items retrieved successfully", h.ledger.LowStock())
}

// Get handles retrieving a stock item
func (h *StockItemHandler) Get(c *gin.Context) {
	item, err := h.ledger.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock item retrieved successfully", item)
}

// Create handles creating a stock item
func (h *StockItemHandler) Create(c *gin.Context) {
	var req request.CreateStockItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.ledger.Add(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Stock item created successfully", item)
}

// Update handles updating a stock item's descriptive fields
func (h *StockItemHandler) Update(c *gin.Context) {
	var req request.UpdateStockItemRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	item, err := h.ledger.Get(ctx, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	req.Apply(item)

	updated, err := h.ledger.Update(ctx, *item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock item updated successfully", updated)
}

// Delete handles deleting a stock item
func (h *StockItemHandler) Delete(c *gin.Context) {
	if err := h.ledger.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CostTiers handles the lowest, latest and weighted average purchase cost
func (h *StockItemHandler) CostTiers(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.ledger.Get(ctx, id); err != nil {
		response.Error(c, err)
		return
	}

	tiers, err := h.grvs.CostTiers(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cost tiers retrieved successfully", tiers)
}
