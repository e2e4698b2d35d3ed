package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kitchen-inventory-api/pkg/pagination"
)

// bindJSON binds the request body and writes a 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// listParams reads page and per_page from the query string
func listParams(c *gin.Context) (*pagination.PaginationParams, bool) {
	var req request.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return nil, false
	}
	return req.Params(), true
}

// GetRequestID returns the request id set by the logger middleware
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
