package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/application/service"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/response"
)

// StockIssueHandler handles stock transfer HTTP requests
type StockIssueHandler struct {
	issueService *service.StockIssueService
}

// NewStockIssueHandler creates a new stock issue handler
func NewStockIssueHandler(issueService *service.StockIssueService) *StockIssueHandler {
	return &StockIssueHandler{issueService: issueService}
}

// List handles listing issues grouped by issue number
func (h *StockIssueHandler) List(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	result := h.issueService.ListIssues(c.Request.Context(), params)
	response.SuccessWithPagination(c, 200, "Stock issues retrieved successfully", result)
}

// Create handles a multi-line stock transfer
func (h *StockIssueHandler) Create(c *gin.Context) {
	var req service.CreateStockIssueInput
	if !bindJSON(c, &req) {
		return
	}

	issue, err := h.issueService.CreateStockIssue(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Stock issue created successfully", issue)
}

// Get handles retrieving one issue by its number
func (h *StockIssueHandler) Get(c *gin.Context) {
	issue, err := h.issueService.GetIssue(c.Request.Context(), c.Param("issueNo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock issue retrieved successfully", issue)
}
