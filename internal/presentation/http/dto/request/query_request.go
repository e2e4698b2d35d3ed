package request

import "github.com/sangkips/kitchen-inventory-api/pkg/pagination"

// ListRequest represents page-based list parameters
type ListRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// Params converts the request into validated pagination parameters
func (r ListRequest) Params() *pagination.PaginationParams {
	params := &pagination.PaginationParams{Page: r.Page, PerPage: r.PerPage}
	params.Validate()
	return params
}

// GRVFilterRequest represents GRV list filters
type GRVFilterRequest struct {
	ListRequest
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	SupplierID string `form:"supplier_id"`
}

// ExplodeRequest represents the requested quantity for a recipe explosion
type ExplodeRequest struct {
	Qty float64 `form:"qty" binding:"required,gt=0"`
}
