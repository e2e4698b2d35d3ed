package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/application/service"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/response"
)

// BatchProductionHandler handles batch production HTTP requests
type BatchProductionHandler struct {
	batchService *service.BatchProductionService
}

// NewBatchProductionHandler creates a new batch production handler
func NewBatchProductionHandler(batchService *service.BatchProductionService) *BatchProductionHandler {
	return &BatchProductionHandler{batchService: batchService}
}

func (h *BatchProductionHandler) List(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	result := h.batchService.ListBatchProductions(c.Request.Context(), params)
	response.SuccessWithPagination(c, 200, "Batch productions retrieved successfully", result)
}

// Create records a production run. Ingredients are consumed and the finished
// good is credited in one step.
func (h *BatchProductionHandler) Create(c *gin.Context) {
	var req service.RecordBatchInput
	if !bindJSON(c, &req) {
		return
	}

	batch, err := h.batchService.RecordBatchProduction(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Batch production recorded successfully", batch)
}

func (h *BatchProductionHandler) Get(c *gin.Context) {
	batch, err := h.batchService.GetBatchProduction(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Batch production retrieved successfully", batch)
}

// Delete removes the record only. Consumed stock is not restored.
func (h *BatchProductionHandler) Delete(c *gin.Context) {
	if err := h.batchService.DeleteBatchProduction(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
