package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/application/service"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/response"
)

// StockTakeHandler handles physical count HTTP requests
type StockTakeHandler struct {
	stockTakeService *service.StockTakeService
}

// NewStockTakeHandler creates a new stock take handler
func NewStockTakeHandler(stockTakeService *service.StockTakeService) *StockTakeHandler {
	return &StockTakeHandler{stockTakeService: stockTakeService}
}

// List handles listing sessions, most recent first
func (h *StockTakeHandler) List(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	result := h.stockTakeService.ListStockTakes(c.Request.Context(), params)
	response.SuccessWithPagination(c, 200, "Stock takes retrieved successfully", result)
}

// Create handles recording a stock take session
func (h *StockTakeHandler) Create(c *gin.Context) {
	var req service.RecordStockTakeInput
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.stockTakeService.RecordStockTake(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Stock take recorded successfully", session)
}

// Latest handles the most recent variance report
func (h *StockTakeHandler) Latest(c *gin.Context) {
	session, err := h.stockTakeService.LatestStockTake(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Latest stock take retrieved successfully", session)
}

func (h *StockTakeHandler) Get(c *gin.Context) {
	session, err := h.stockTakeService.GetStockTake(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock take retrieved successfully", session)
}
