package apperror

import (
	"fmt"
	"strings"
)

// Reasons carried by RecipeIncompleteError.
const (
	ReasonNoManufacturingRecipe = "NO_MANUFACTURING_RECIPE"
	ReasonStockItemsMissing     = "STOCK_ITEMS_MISSING"
)

// Shortfall describes one line that could not be covered by on-hand stock.
type Shortfall struct {
	ItemID      string  `json:"item_id"`
	RequiredQty float64 `json:"required_qty"`
	OnHandQty   float64 `json:"on_hand_qty"`
}

// InsufficientStockError is returned when a deduction exceeds on-hand stock.
// Nothing has been mutated when it is returned.
type InsufficientStockError struct {
	ItemID      string  `json:"item_id"`
	RequiredQty float64 `json:"required_qty"`
	OnHandQty   float64 `json:"on_hand_qty"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %.2f, on hand %.2f", e.ItemID, e.RequiredQty, e.OnHandQty)
}

// NewInsufficientStockError builds the error from a shortfall line.
func NewInsufficientStockError(s Shortfall) *InsufficientStockError {
	return &InsufficientStockError{ItemID: s.ItemID, RequiredQty: s.RequiredQty, OnHandQty: s.OnHandQty}
}

// RecipeIncompleteError is a configuration gap: a menu item has no recipe, or
// a recipe points at stock items that do not exist. It needs manager action,
// unlike a stock shortfall.
type RecipeIncompleteError struct {
	Ref     string   `json:"ref"`
	Missing []string `json:"missing"`
}

func (e *RecipeIncompleteError) Error() string {
	return fmt.Sprintf("recipe incomplete (%s): manager action required, missing %s", e.Ref, strings.Join(e.Missing, ", "))
}

// BatchInsufficientStockError lists every ingredient a batch could not cover.
type BatchInsufficientStockError struct {
	Items []Shortfall `json:"items"`
}

func (e *BatchInsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, s := range e.Items {
		parts = append(parts, fmt.Sprintf("%s (required %.2f, on hand %.2f)", s.ItemID, s.RequiredQty, s.OnHandQty))
	}
	return "insufficient stock for batch: " + strings.Join(parts, "; ")
}

// StockIssueError reports the first invalid line of a stock issue.
type StockIssueError struct {
	Line    int    `json:"line"`
	ItemID  string `json:"item_id,omitempty"`
	Message string `json:"message"`
}

func (e *StockIssueError) Error() string {
	if e.ItemID != "" {
		return fmt.Sprintf("stock issue line %d (%s): %s", e.Line, e.ItemID, e.Message)
	}
	return fmt.Sprintf("stock issue line %d: %s", e.Line, e.Message)
}
