package service

import (
	"context"
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

// DefaultVATRate is the configured rate when TAX_VAT_RATE is unset
const DefaultVATRate = 0.16

// GRVService handles the goods received voucher lifecycle
type GRVService struct {
	grvs    *store.Store[entity.GRV]
	ledger  *StockLedger
	vatRate float64
	logger  *logrus.Logger
}

// NewGRVService creates a new GRV service
func NewGRVService(grvs *store.Store[entity.GRV], ledger *StockLedger, vatRate float64, logg *logrus.Logger) *GRVService {
	if logg == nil {
		logg = logger.Discard()
	}
	return &GRVService{grvs: grvs, ledger: ledger, vatRate: vatRate, logger: logg}
}

// GRVLineInput represents an item in a GRV. A nil UnitCost takes the item's
// current cost.
type GRVLineInput struct {
	ItemID   string   `json:"item_id" validate:"required"`
	Quantity float64  `json:"quantity" validate:"gt=0"`
	UnitCost *float64 `json:"unit_cost" validate:"omitempty,gte=0"`
}

// GRVInput is used for both create and update
type GRVInput struct {
	Date         time.Time        `json:"date"`
	SupplierID   string           `json:"supplier_id"`
	SupplierName string           `json:"supplier_name"`
	PaymentType  enum.PaymentType `json:"payment_type" validate:"omitempty,oneof=cash credit mobile cheque account"`
	ApplyVAT     bool             `json:"apply_vat"`
	VATRate      *float64         `json:"vat_rate" validate:"omitempty,gte=0"`
	ReceivedBy   string           `json:"received_by"`
	Items        []GRVLineInput   `json:"items" validate:"required,min=1,dive"`
}

// GRVFilter narrows ListGRVs
type GRVFilter struct {
	Status     *enum.GRVStatus
	SupplierID string
	Pagination *pagination.PaginationParams
}

// CreateGRV creates a pending GRV with the next sequential number
func (s *GRVService) CreateGRV(ctx context.Context, input *GRVInput) (*entity.GRV, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	lines, err := s.buildLines(input.Items, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	grv := entity.GRV{
		ID:        uuid.New().String(),
		Status:    enum.GRVStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.applyInput(&grv, input, lines)

	err = s.grvs.Update(func(tx *store.Tx[entity.GRV]) error {
		grv.Sequence = nextGRVSequence(tx.All())
		grv.GRVNo = fmt.Sprintf("GRV-%06d", grv.Sequence)
		return tx.Put(grv)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"grv_no": grv.GRVNo, "total": grv.Total}).Info("grv created")
	return &grv, nil
}

// UpdateGRV replaces the header and lines of a pending GRV. Every line
// total is recomputed before the voucher totals.
func (s *GRVService) UpdateGRV(ctx context.Context, id string, input *GRVInput) (*entity.GRV, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var updated entity.GRV
	err := s.grvs.Update(func(tx *store.Tx[entity.GRV]) error {
		grv, ok := tx.Get(id)
		if !ok {
			return apperror.NewNotFoundError("GRV")
		}
		if err := requirePending(grv, "updated"); err != nil {
			return err
		}

		lines, err := s.buildLines(input.Items, grv.Items)
		if err != nil {
			return err
		}
		s.applyInput(&grv, input, lines)
		grv.UpdatedAt = time.Now()
		updated = grv
		return tx.Put(grv)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ConfirmGRV posts every line into stock and locks the voucher
func (s *GRVService) ConfirmGRV(ctx context.Context, id string) (*entity.GRV, error) {
	var confirmed entity.GRV
	err := s.grvs.Update(func(tx *store.Tx[entity.GRV]) error {
		grv, ok := tx.Get(id)
		if !ok {
			return apperror.NewNotFoundError("GRV")
		}
		if err := requirePending(grv, "confirmed"); err != nil {
			return err
		}

		now := time.Now()
		grv.Status = enum.GRVStatusConfirmed
		grv.ConfirmedAt = &now
		grv.UpdatedAt = now
		if err := grv.Validate(); err != nil {
			return err
		}

		err := s.ledger.Apply(ctx, func(ltx *LedgerTx) error {
			for _, line := range grv.Items {
				if _, err := ltx.Increase(line.ItemID, line.Quantity); err != nil {
					return err
				}
				if err := ltx.SetCost(line.ItemID, line.UnitCost); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logger.LogError(s.logger, "grv", "ConfirmGRV", "post lines", grv.GRVNo, err)
			return err
		}

		confirmed = grv
		return tx.Put(grv)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"grv_no": confirmed.GRVNo, "lines": len(confirmed.Items)}).Info("grv confirmed")
	return &confirmed, nil
}

// CancelGRV locks a pending GRV without touching stock
func (s *GRVService) CancelGRV(ctx context.Context, id string) (*entity.GRV, error) {
	var cancelled entity.GRV
	err := s.grvs.Update(func(tx *store.Tx[entity.GRV]) error {
		grv, ok := tx.Get(id)
		if !ok {
			return apperror.NewNotFoundError("GRV")
		}
		if err := requirePending(grv, "cancelled"); err != nil {
			return err
		}
		grv.Status = enum.GRVStatusCancelled
		grv.UpdatedAt = time.Now()
		cancelled = grv
		return tx.Put(grv)
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// DeleteGRV removes a pending GRV
func (s *GRVService) DeleteGRV(ctx context.Context, id string) error {
	return s.grvs.Update(func(tx *store.Tx[entity.GRV]) error {
		grv, ok := tx.Get(id)
		if !ok {
			return apperror.NewNotFoundError("GRV")
		}
		if err := requirePending(grv, "deleted"); err != nil {
			return err
		}
		tx.Delete(id)
		return nil
	})
}

// GetGRV returns one GRV
func (s *GRVService) GetGRV(ctx context.Context, id string) (*entity.GRV, error) {
	grv, ok := s.grvs.Snapshot().Get(id)
	if !ok {
		return nil, apperror.NewNotFoundError("GRV")
	}
	return &grv, nil
}

// ListGRVs returns GRVs newest first
func (s *GRVService) ListGRVs(ctx context.Context, filter GRVFilter) *pagination.PaginatedResult[entity.GRV] {
	matched := s.grvs.Snapshot().Filter(func(g entity.GRV) bool {
		if filter.Status != nil && g.Status != *filter.Status {
			return false
		}
		return filter.SupplierID == "" || g.SupplierID == filter.SupplierID
	})
	reversed := make([]entity.GRV, 0, len(matched))
	for i := len(matched) - 1; i >= 0; i-- {
		reversed = append(reversed, matched[i])
	}
	return pagination.Paginate(reversed, filter.Pagination)
}

// PurchaseLots materializes the confirmed receipts of one item in voucher order
func (s *GRVService) PurchaseLots(itemID string) []entity.PurchaseLot {
	var lots []entity.PurchaseLot
	for _, grv := range s.grvs.Snapshot().All() {
		if grv.Status != enum.GRVStatusConfirmed {
			continue
		}
		for _, line := range grv.Items {
			if line.ItemID != itemID {
				continue
			}
			lots = append(lots, entity.PurchaseLot{
				GRVNo:      grv.GRVNo,
				ReceivedAt: grv.Date,
				Qty:        line.Quantity,
				UnitCost:   line.UnitCost,
				SupplierID: grv.SupplierID,
			})
		}
	}
	return lots
}

// CostTiers computes the cost views of a stock item from its purchase history
func (s *GRVService) CostTiers(ctx context.Context, itemID string) (entity.CostTiers, error) {
	if _, err := s.ledger.Get(ctx, itemID); err != nil {
		return entity.CostTiers{}, err
	}
	return ComputeCostTiers(s.PurchaseLots(itemID)), nil
}

func (s *GRVService) buildLines(inputs []GRVLineInput, previous []entity.GRVLine) ([]entity.GRVLine, error) {
	snap := s.ledger.Snapshot()
	lines := make([]entity.GRVLine, 0, len(inputs))
	for i, in := range inputs {
		item, ok := snap.Get(in.ItemID)
		if !ok {
			return nil, apperror.NewValidationError([]apperror.FieldError{{
				Field:   fmt.Sprintf("items[%d].item_id", i),
				Message: "Stock item " + in.ItemID + " does not exist",
			}})
		}

		cost := item.CurrentCost
		if in.UnitCost != nil {
			cost = *in.UnitCost
		}
		line := entity.GRVLine{
			ID:       uuid.New().String(),
			ItemID:   item.ID,
			ItemCode: item.Code,
			ItemName: item.Name,
			UnitType: item.UnitType,
			Quantity: in.Quantity,
			UnitCost: cost,
		}
		if i < len(previous) && previous[i].ItemID == in.ItemID {
			line.ID = previous[i].ID
		}
		lines = append(lines, recomputeLine(line))
	}
	return lines, nil
}

func (s *GRVService) applyInput(grv *entity.GRV, input *GRVInput, lines []entity.GRVLine) {
	grv.Date = input.Date
	if grv.Date.IsZero() {
		grv.Date = time.Now()
	}
	grv.SupplierID = input.SupplierID
	grv.SupplierName = input.SupplierName
	grv.PaymentType = input.PaymentType
	grv.ApplyVAT = input.ApplyVAT
	grv.VATRate = s.vatRate
	if input.VATRate != nil {
		grv.VATRate = *input.VATRate
	}
	grv.ReceivedBy = input.ReceivedBy
	grv.Items = lines
	recomputeTotals(grv)
}

// recomputeLine derives the line total rounded to cents
func recomputeLine(line entity.GRVLine) entity.GRVLine {
	line.LineTotal = money.Mul(line.Quantity, line.UnitCost)
	return line
}

func recomputeTotals(grv *entity.GRV) {
	totals := make([]float64, 0, len(grv.Items))
	for _, line := range grv.Items {
		totals = append(totals, line.LineTotal)
	}
	grv.Subtotal = money.Sum(totals...)
	grv.Tax = 0
	if grv.ApplyVAT {
		grv.Tax = money.Mul(grv.Subtotal, grv.VATRate)
	}
	grv.Total = money.Sum(grv.Subtotal, grv.Tax)
}

func requirePending(grv entity.GRV, action string) error {
	if grv.Status != enum.GRVStatusPending {
		return apperror.NewConflictError(fmt.Sprintf("GRV %s is %s and cannot be %s", grv.GRVNo, grv.Status, action))
	}
	return nil
}

func nextGRVSequence(grvs []entity.GRV) int {
	last := 0
	for _, g := range grvs {
		if g.Sequence > last {
			last = g.Sequence
		}
	}
	return last + 1
}
