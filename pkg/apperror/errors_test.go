package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		contains string
	}{
		{"app error", NewNotFoundError("GRV"), http.StatusNotFound, "GRV not found"},
		{"insufficient", &InsufficientStockError{ItemID: "flour", RequiredQty: 3, OnHandQty: 1}, http.StatusConflict, "flour"},
		{"wrapped insufficient", fmt.Errorf("consume: %w", &InsufficientStockError{ItemID: "oil"}), http.StatusConflict, "oil"},
		{"batch", &BatchInsufficientStockError{Items: []Shortfall{{ItemID: "sugar", RequiredQty: 2, OnHandQty: 0}}}, http.StatusConflict, "sugar"},
		{"recipe incomplete", &RecipeIncompleteError{Ref: "PIE", Missing: []string{ReasonNoManufacturingRecipe}}, http.StatusUnprocessableEntity, "NO_MANUFACTURING_RECIPE"},
		{"stock issue", &StockIssueError{Line: 1, Message: "same item"}, http.StatusUnprocessableEntity, "line 1"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := GetAppError(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Contains(t, appErr.Message, tt.contains)
		})
	}
}

func TestInsufficientStockErrorNamesQuantities(t *testing.T) {
	err := NewInsufficientStockError(Shortfall{ItemID: "beef", RequiredQty: 2.5, OnHandQty: 1})
	assert.Equal(t, "insufficient stock for beef: required 2.50, on hand 1.00", err.Error())
}
