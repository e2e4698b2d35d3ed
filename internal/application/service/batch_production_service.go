package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/sangkips/kitchen-inventory-api/pkg/money"
	"github.com/sangkips/kitchen-inventory-api/pkg/pagination"
	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
	"github.com/sirupsen/logrus"
)

// BatchProductionService records manufacturing runs
type BatchProductionService struct {
	batches *store.Store[entity.BatchProduction]
	recipes *RecipeService
	ledger  *StockLedger
	logger  *logrus.Logger
}

// NewBatchProductionService creates a new batch production service
func NewBatchProductionService(batches *store.Store[entity.BatchProduction], recipes *RecipeService, ledger *StockLedger, logg *logrus.Logger) *BatchProductionService {
	if logg == nil {
		logg = logger.Discard()
	}
	return &BatchProductionService{batches: batches, recipes: recipes, ledger: ledger, logger: logg}
}

type RecordBatchInput struct {
	RecipeID          string    `json:"recipe_id" validate:"required"`
	BatchDate         time.Time `json:"batch_date"`
	TheoreticalOutput float64   `json:"theoretical_output" validate:"gte=0"`
	ActualOutput      float64   `json:"actual_output" validate:"gte=0"`
	ProducedBy        string    `json:"produced_by"`
}

// RecordBatchProduction consumes the recipe's ingredients for the actual
// output and credits the finished good. A shortfall changes nothing. A zero
// output records the yield loss without touching stock.
func (s *BatchProductionService) RecordBatchProduction(ctx context.Context, input *RecordBatchInput) (*entity.BatchProduction, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	recipe, err := s.recipes.GetRecipeByID(ctx, input.RecipeID)
	if err != nil {
		return nil, err
	}

	scaled := ExplodeIngredients(*recipe, input.ActualOutput)
	deductions := make([]Deduction, 0, len(scaled))
	lineCosts := make([]float64, 0, len(scaled))
	for _, ing := range scaled {
		deductions = append(deductions, Deduction{ItemID: ing.IngredientID, Qty: ing.RequiredQty})
		lineCosts = append(lineCosts, money.Mul(ing.RequiredQty, ing.UnitCost))
	}
	totalCost := money.Sum(lineCosts...)
	unitCost := money.Div(totalCost, input.ActualOutput)

	res, err := s.ledger.ApplyDeductions(ctx, deductions)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, &apperror.BatchInsufficientStockError{Items: res.Insufficient}
	}

	fgID := recipe.FinishedGoodID()
	if input.ActualOutput > 0 {
		if err := s.creditFinishedGood(ctx, *recipe, input.ActualOutput, unitCost); err != nil {
			logger.LogError(s.logger, "batch_production", "RecordBatchProduction", "credit finished good", fgID, err)
			if rerr := s.restoreIngredients(ctx, deductions); rerr != nil {
				return nil, errors.Join(err, fmt.Errorf("restore ingredients: %w", rerr))
			}
			return nil, err
		}
	}

	date := input.BatchDate
	if date.IsZero() {
		date = time.Now()
	}
	variance := money.Delta(input.ActualOutput, input.TheoreticalOutput)
	batch := entity.BatchProduction{
		ID:                uuid.New().String(),
		RecipeID:          recipe.ID,
		RecipeName:        recipe.ParentItemName,
		ParentItemCode:    recipe.ParentItemCode,
		FinishedGoodID:    fgID,
		BatchDate:         date,
		TheoreticalOutput: input.TheoreticalOutput,
		ActualOutput:      input.ActualOutput,
		YieldVariance:     variance,
		IngredientsUsed:   scaled,
		TotalCost:         totalCost,
		UnitCost:          unitCost,
		ProducedBy:        input.ProducedBy,
		CreatedAt:         time.Now(),
	}
	if input.TheoreticalOutput > 0 {
		batch.YieldVariancePercent = money.Round2(variance / input.TheoreticalOutput * 100)
	}

	err = s.batches.Update(func(tx *store.Tx[entity.BatchProduction]) error {
		return tx.Put(batch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"recipe":        recipe.ParentItemCode,
		"actual_output": batch.ActualOutput,
		"total_cost":    batch.TotalCost,
	}).Info("batch produced")
	return &batch, nil
}

func (s *BatchProductionService) creditFinishedGood(ctx context.Context, recipe entity.Recipe, qty, unitCost float64) error {
	fgID := recipe.FinishedGoodID()
	return s.ledger.Apply(ctx, func(tx *LedgerTx) error {
		if _, ok := tx.Get(fgID); !ok {
			unit := recipe.OutputUnitType
			if unit == "" {
				unit = enum.UnitTypeEACH
			}
			name := recipe.ParentItemName
			if name == "" {
				name = recipe.ParentItemCode
			}
			now := time.Now()
			err := tx.Put(entity.StockItem{
				ID:           fgID,
				Code:         recipe.ParentItemCode,
				Name:         name,
				DepartmentID: recipe.FinishedGoodDepartmentID,
				UnitType:     unit,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return err
			}
		}
		if _, err := tx.Increase(fgID, qty); err != nil {
			return err
		}
		return tx.SetCost(fgID, unitCost)
	})
}

// restoreIngredients reverses a deduction whose batch could not be completed.
// Every line is restored or none is.
func (s *BatchProductionService) restoreIngredients(ctx context.Context, deductions []Deduction) error {
	err := s.ledger.Apply(ctx, func(tx *LedgerTx) error {
		for _, d := range deductions {
			if _, err := tx.Increase(d.ItemID, d.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.LogError(s.logger, "batch_production", "restoreIngredients", "compensate deduction", deductions, err)
	}
	return err
}

// GetBatchProduction returns one batch record
func (s *BatchProductionService) GetBatchProduction(ctx context.Context, id string) (*entity.BatchProduction, error) {
	batch, ok := s.batches.Snapshot().Get(id)
	if !ok {
		return nil, apperror.NewNotFoundError("Batch production")
	}
	return &batch, nil
}

// ListBatchProductions returns batch records newest first
func (s *BatchProductionService) ListBatchProductions(ctx context.Context, params *pagination.PaginationParams) *pagination.PaginatedResult[entity.BatchProduction] {
	all := s.batches.Snapshot().All()
	newest := make([]entity.BatchProduction, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		newest = append(newest, all[i])
	}
	return pagination.Paginate(newest, params)
}

// DeleteBatchProduction removes the record only. Ingredients consumed and
// finished goods credited by the batch stay as they are.
func (s *BatchProductionService) DeleteBatchProduction(ctx context.Context, id string) error {
	return s.batches.Update(func(tx *store.Tx[entity.BatchProduction]) error {
		if !tx.Delete(id) {
			return apperror.NewNotFoundError("Batch production")
		}
		return nil
	})
}
