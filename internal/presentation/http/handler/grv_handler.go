package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/application/service"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/response"
)

// GRVHandler handles goods received voucher HTTP requests
type GRVHandler struct {
	grvService *service.GRVService
}

// NewGRVHandler creates a new GRV handler
func NewGRVHandler(grvService *service.GRVService) *GRVHandler {
	return &GRVHandler{grvService: grvService}
}

// List handles listing GRVs, newest first
func (h *GRVHandler) List(c *gin.Context) {
	var req request.GRVFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	filter := service.GRVFilter{
		SupplierID: req.SupplierID,
		Pagination: req.Params(),
	}
	if req.Status != "" {
		status, err := enum.ParseGRVStatus(req.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		filter.Status = &status
	}

	result := h.grvService.ListGRVs(c.Request.Context(), filter)
	response.SuccessWithPagination(c, 200, "GRVs retrieved successfully", result)
}

// Create handles creating a pending GRV
func (h *GRVHandler) Create(c *gin.Context) {
	var req service.GRVInput
	if !bindJSON(c, &req) {
		return
	}

	grv, err := h.grvService.CreateGRV(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "GRV created successfully", grv)
}

// Get handles getting a single GRV
func (h *GRVHandler) Get(c *gin.Context) {
	grv, err := h.grvService.GetGRV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "GRV retrieved successfully", grv)
}

// Update handles editing a pending GRV
func (h *GRVHandler) Update(c *gin.Context) {
	var req service.GRVInput
	if !bindJSON(c, &req) {
		return
	}

	grv, err := h.grvService.UpdateGRV(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "GRV updated successfully", grv)
}

// Confirm handles confirming a GRV into stock
func (h *GRVHandler) Confirm(c *gin.Context) {
	grv, err := h.grvService.ConfirmGRV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "GRV confirmed successfully", grv)
}

// Cancel handles cancelling a pending GRV
func (h *GRVHandler) Cancel(c *gin.Context) {
	grv, err := h.grvService.CancelGRV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "GRV cancelled successfully", grv)
}

// Delete handles deleting a pending GRV
func (h *GRVHandler) Delete(c *gin.Context) {
	if err := h.grvService.DeleteGRV(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
