package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/sangkips/kitchen-inventory-api/pkg/money"
	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
	"github.com/sirupsen/logrus"
)

// RecipeService is the recipe registry and resolves order consumption
type RecipeService struct {
	stores  *store.Context
	recipes *store.Store[entity.Recipe]
	ledger  *StockLedger
	logger  *logrus.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(stores *store.Context, ledger *StockLedger, logg *logrus.Logger) *RecipeService {
	if logg == nil {
		logg = logger.Discard()
	}
	return &RecipeService{stores: stores, recipes: stores.Recipes, ledger: ledger, logger: logg}
}

type RecipeIngredientInput struct {
	IngredientID   string        `json:"ingredient_id" validate:"required"`
	IngredientCode string        `json:"ingredient_code"`
	IngredientName string        `json:"ingredient_name"`
	RequiredQty    float64       `json:"required_qty" validate:"gt=0"`
	UnitType       enum.UnitType `json:"unit_type" validate:"omitempty,oneof=KG LTRS EACH PACK"`
}

type UpsertRecipeInput struct {
	ParentItemID             string                  `json:"parent_item_id"`
	ParentItemCode           string                  `json:"parent_item_code" validate:"required"`
	ParentItemName           string                  `json:"parent_item_name"`
	FinishedGoodDepartmentID string                  `json:"finished_good_department_id"`
	OutputQty                float64                 `json:"output_qty" validate:"gte=0"`
	OutputUnitType           enum.UnitType           `json:"output_unit_type" validate:"omitempty,oneof=KG LTRS EACH PACK"`
	Ingredients              []RecipeIngredientInput `json:"ingredients" validate:"dive"`
}

// OrderLine is one sold menu item. Code falls back to MenuItemID.
type OrderLine struct {
	MenuItemID string  `json:"menu_item_id" validate:"required"`
	Code       string  `json:"code"`
	Qty        float64 `json:"qty" validate:"gt=0"`
}

type ConsumeOrderInput struct {
	Reference string      `json:"reference"`
	Lines     []OrderLine `json:"lines" validate:"required,min=1,dive"`
}

// Consumption sources
const (
	SourceFinishedGood = "finished_good"
	SourceRecipe       = "recipe"
)

// ConsumedLine records how one order line was satisfied
type ConsumedLine struct {
	MenuItemID string      `json:"menu_item_id"`
	Source     string      `json:"source"`
	Deductions []Deduction `json:"deductions"`
}

type ConsumptionResult struct {
	Reference  string         `json:"reference"`
	Lines      []ConsumedLine `json:"lines"`
	Deductions []Deduction    `json:"deductions"`
}

// EnsureLoaded loads the registry on first use. Callers computing
// deductions against a cold registry must call it first.
func (s *RecipeService) EnsureLoaded(ctx context.Context) error {
	return s.stores.EnsureLoaded(ctx, store.NameRecipes)
}

// Lookup returns the recipe for a parent item code with costs from current
// ingredient prices
func (s *RecipeService) Lookup(code string) (*entity.Recipe, bool) {
	recipe, ok := s.lookup(s.recipes.Snapshot(), code)
	if !ok {
		return nil, false
	}
	priced := s.withCurrentCosts(recipe, s.ledger.Snapshot())
	return &priced, true
}

func (s *RecipeService) lookup(snap store.Snapshot[entity.Recipe], code string) (entity.Recipe, bool) {
	found := snap.Filter(func(r entity.Recipe) bool { return r.ParentItemCode == code })
	if len(found) == 0 {
		return entity.Recipe{}, false
	}
	return found[0], true
}

// GetRecipe returns one recipe by parent item code
func (s *RecipeService) GetRecipe(ctx context.Context, code string) (*entity.Recipe, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	recipe, ok := s.Lookup(code)
	if !ok {
		return nil, apperror.NewNotFoundError("Recipe")
	}
	return recipe, nil
}

// GetRecipeByID returns one recipe by its id
func (s *RecipeService) GetRecipeByID(ctx context.Context, id string) (*entity.Recipe, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	recipe, ok := s.recipes.Snapshot().Get(id)
	if !ok {
		return nil, apperror.NewNotFoundError("Recipe")
	}
	priced := s.withCurrentCosts(recipe, s.ledger.Snapshot())
	return &priced, nil
}

// ListRecipes returns every recipe priced at current costs
func (s *RecipeService) ListRecipes(ctx context.Context) ([]entity.Recipe, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	items := s.ledger.Snapshot()
	recipes := s.recipes.Snapshot().All()
	for i := range recipes {
		recipes[i] = s.withCurrentCosts(recipes[i], items)
	}
	return recipes, nil
}

// UpsertRecipe creates or replaces the recipe for a parent item code
func (s *RecipeService) UpsertRecipe(ctx context.Context, input *UpsertRecipeInput) (*entity.Recipe, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	items := s.ledger.Snapshot()
	ingredients := make([]entity.RecipeIngredient, 0, len(input.Ingredients))
	for _, in := range input.Ingredients {
		ing := entity.RecipeIngredient{
			IngredientID:   in.IngredientID,
			IngredientCode: in.IngredientCode,
			IngredientName: in.IngredientName,
			RequiredQty:    in.RequiredQty,
			UnitType:       in.UnitType,
		}
		if item, ok := items.Get(in.IngredientID); ok {
			ing.IngredientCode = item.Code
			ing.IngredientName = item.Name
			ing.UnitType = item.UnitType
			ing.UnitCost = item.CurrentCost
		}
		ingredients = append(ingredients, ing)
	}

	var saved entity.Recipe
	err := s.recipes.Update(func(tx *store.Tx[entity.Recipe]) error {
		now := time.Now()
		recipe := entity.Recipe{ID: uuid.New().String(), CreatedAt: now}
		for _, existing := range tx.All() {
			if existing.ParentItemCode == input.ParentItemCode {
				recipe.ID = existing.ID
				recipe.CreatedAt = existing.CreatedAt
				break
			}
		}
		recipe.ParentItemID = input.ParentItemID
		recipe.ParentItemCode = input.ParentItemCode
		recipe.ParentItemName = input.ParentItemName
		recipe.FinishedGoodDepartmentID = input.FinishedGoodDepartmentID
		recipe.OutputQty = input.OutputQty
		recipe.OutputUnitType = input.OutputUnitType
		recipe.Ingredients = ingredients
		recipe.UpdatedAt = now

		saved = s.withCurrentCosts(recipe, items)
		return tx.Put(saved)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteRecipe removes the recipe for a parent item code
func (s *RecipeService) DeleteRecipe(ctx context.Context, code string) error {
	if err := s.EnsureLoaded(ctx); err != nil {
		return err
	}
	return s.recipes.Update(func(tx *store.Tx[entity.Recipe]) error {
		for _, r := range tx.All() {
			if r.ParentItemCode == code {
				tx.Delete(r.ID)
				return nil
			}
		}
		return apperror.NewNotFoundError("Recipe")
	})
}

// ExplodeRecipe scales the recipe for code to requestedQty
func (s *RecipeService) ExplodeRecipe(ctx context.Context, code string, requestedQty float64) ([]entity.RecipeIngredient, error) {
	recipe, err := s.GetRecipe(ctx, code)
	if err != nil {
		return nil, err
	}
	return ExplodeIngredients(*recipe, requestedQty), nil
}

// MaxProducible reports how many units current stock can make for code
func (s *RecipeService) MaxProducible(ctx context.Context, code string) (entity.MaxProducible, error) {
	recipe, err := s.GetRecipe(ctx, code)
	if err != nil {
		return entity.MaxProducible{}, err
	}
	return ComputeMaxProducible(*recipe, s.ledger.Items()), nil
}

// ConsumeOrder deducts the stock for a sale. Each line uses its finished
// good when enough is on hand, otherwise its recipe. All lines are merged
// into one batch so a shortfall anywhere leaves stock untouched.
func (s *RecipeService) ConsumeOrder(ctx context.Context, input *ConsumeOrderInput) (*ConsumptionResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	items := s.ledger.Snapshot()
	recipes := s.recipes.Snapshot()
	plannedFG := map[string]float64{}
	result := &ConsumptionResult{Reference: input.Reference}
	var batch []Deduction

	for _, line := range input.Lines {
		code := line.Code
		if code == "" {
			code = line.MenuItemID
		}

		fgID := entity.FinishedGoodID(code)
		if fg, ok := items.Get(fgID); ok && fg.CurrentStock-plannedFG[fgID]+stockEpsilon >= line.Qty {
			plannedFG[fgID] += line.Qty
			ded := []Deduction{{ItemID: fgID, Qty: line.Qty}}
			batch = append(batch, ded...)
			result.Lines = append(result.Lines, ConsumedLine{MenuItemID: line.MenuItemID, Source: SourceFinishedGood, Deductions: ded})
			continue
		}

		recipe, ok := s.lookup(recipes, code)
		if !ok {
			return nil, &apperror.RecipeIncompleteError{Ref: line.MenuItemID, Missing: []string{apperror.ReasonNoManufacturingRecipe}}
		}
		ded := Explode(recipe, line.Qty)
		batch = append(batch, ded...)
		result.Lines = append(result.Lines, ConsumedLine{MenuItemID: line.MenuItemID, Source: SourceRecipe, Deductions: ded})
	}

	result.Deductions = mergeDeductions(batch)

	var missing []string
	for _, d := range result.Deductions {
		if _, ok := items.Get(d.ItemID); !ok {
			missing = append(missing, d.ItemID)
		}
	}
	if len(missing) > 0 {
		return nil, &apperror.RecipeIncompleteError{Ref: apperror.ReasonStockItemsMissing, Missing: missing}
	}

	res, err := s.ledger.ApplyDeductions(ctx, result.Deductions)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, apperror.NewInsufficientStockError(res.Insufficient[0])
	}

	s.logger.WithFields(logrus.Fields{"reference": input.Reference, "lines": len(input.Lines)}).Info("order consumed")
	return result, nil
}

// withCurrentCosts reprices every ingredient from the ledger and derives
// the recipe totals
func (s *RecipeService) withCurrentCosts(recipe entity.Recipe, items store.Snapshot[entity.StockItem]) entity.Recipe {
	recipe = recipe.Clone()
	lineCosts := make([]float64, 0, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		if item, ok := items.Get(ing.IngredientID); ok {
			recipe.Ingredients[i].UnitCost = item.CurrentCost
		}
		lineCosts = append(lineCosts, money.Mul(ing.RequiredQty, recipe.Ingredients[i].UnitCost))
	}
	recipe.TotalCost = money.Sum(lineCosts...)
	recipe.UnitCost = money.Div(recipe.TotalCost, recipe.OutputQty)
	return recipe
}
