package request

import (
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
)

// CreateStockItemRequest represents a stock item creation request
type CreateStockItemRequest struct {
	ID           string        `json:"id" binding:"omitempty,max=64"`
	Code         string        `json:"code" binding:"required,max=100"`
	Name         string        `json:"name" binding:"required,min=1,max=255"`
	DepartmentID string        `json:"department_id" binding:"omitempty,max=64"`
	UnitType     enum.UnitType `json:"unit_type" binding:"required,oneof=KG LTRS EACH PACK"`
	CurrentStock float64       `json:"current_stock" binding:"min=0"`
	CurrentCost  float64       `json:"current_cost" binding:"min=0"`
	ReorderLevel *float64      `json:"reorder_level" binding:"omitempty,min=0"`
	SupplierID   *string       `json:"supplier_id"`
}

// ToEntity builds the stock item. Opening cost seeds both bounds.
func (r *CreateStockItemRequest) ToEntity() entity.StockItem {
	return entity.StockItem{
		ID:           r.ID,
		Code:         r.Code,
		Name:         r.Name,
		DepartmentID: r.DepartmentID,
		UnitType:     r.UnitType,
		CurrentStock: r.CurrentStock,
		CurrentCost:  r.CurrentCost,
		LowestCost:   r.CurrentCost,
		HighestCost:  r.CurrentCost,
		ReorderLevel: r.ReorderLevel,
		SupplierID:   r.SupplierID,
	}
}

// UpdateStockItemRequest represents a stock item update request. Quantity and
// cost are ledger-owned and cannot be edited here.
type UpdateStockItemRequest struct {
	Code         *string        `json:"code" binding:"omitempty,min=1,max=100"`
	Name         *string        `json:"name" binding:"omitempty,min=1,max=255"`
	DepartmentID *string        `json:"department_id" binding:"omitempty,max=64"`
	UnitType     *enum.UnitType `json:"unit_type" binding:"omitempty,oneof=KG LTRS EACH PACK"`
	ReorderLevel *float64       `json:"reorder_level" binding:"omitempty,min=0"`
	SupplierID   *string        `json:"supplier_id"`
}

// Apply copies the supplied fields onto item
func (r *UpdateStockItemRequest) Apply(item *entity.StockItem) {
	if r.Code != nil {
		item.Code = *r.Code
	}
	if r.Name != nil {
		item.Name = *r.Name
	}
	if r.DepartmentID != nil {
		item.DepartmentID = *r.DepartmentID
	}
	if r.UnitType != nil {
		item.UnitType = *r.UnitType
	}
	if r.ReorderLevel != nil {
		item.ReorderLevel = r.ReorderLevel
	}
	if r.SupplierID != nil {
		item.SupplierID = r.SupplierID
	}
}
