package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/sangkips/kitchen-inventory-api/pkg/money"
	"github.com/sangkips/kitchen-inventory-api/pkg/pagination"
	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
	"github.com/sirupsen/logrus"
)

// StockTakeService reconciles physical counts against the ledger
type StockTakeService struct {
	sessions *store.Store[entity.StockTakeSession]
	ledger   *StockLedger
	logger   *logrus.Logger
}

// NewStockTakeService creates a new stock take service
func NewStockTakeService(sessions *store.Store[entity.StockTakeSession], ledger *StockLedger, logg *logrus.Logger) *StockTakeService {
	if logg == nil {
		logg = logger.Discard()
	}
	return &StockTakeService{sessions: sessions, ledger: ledger, logger: logg}
}

type RecordStockTakeInput struct {
	Date                    time.Time          `json:"date"`
	DepartmentID            string             `json:"department_id"`
	PhysicalCounts          map[string]float64 `json:"physical_counts" validate:"required,min=1,dive,gte=0"`
	CreatedBy               string             `json:"created_by"`
	ApplyAdjustmentsToStock bool               `json:"apply_adjustments_to_stock"`
}

// RecordStockTake saves a variance report for every counted item and, when
// asked, overwrites on-hand stock with the counts.
func (s *StockTakeService) RecordStockTake(ctx context.Context, input *RecordStockTakeInput) (*entity.StockTakeSession, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	items := s.ledger.Snapshot()
	for id := range input.PhysicalCounts {
		if _, ok := items.Get(id); !ok {
			return nil, apperror.NewValidationError([]apperror.FieldError{{
				Field:   fmt.Sprintf("physical_counts[%s]", id),
				Message: "Stock item " + id + " does not exist",
			}})
		}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	var session entity.StockTakeSession
	err := s.sessions.Update(func(tx *store.Tx[entity.StockTakeSession]) error {
		streaks := priorVarianceCounts(tx.All())

		session = entity.StockTakeSession{
			ID:                      uuid.New().String(),
			Date:                    date,
			DepartmentID:            input.DepartmentID,
			PhysicalCounts:          map[string]float64{},
			CreatedBy:               input.CreatedBy,
			ApplyAdjustmentsToStock: input.ApplyAdjustmentsToStock,
			CreatedAt:               time.Now(),
		}

		values := []float64{}
		for _, item := range items.All() {
			physical, counted := input.PhysicalCounts[item.ID]
			if !counted || (input.DepartmentID != "" && item.DepartmentID != input.DepartmentID) {
				continue
			}

			variance := entity.StockTakeVariance{
				ItemID:           item.ID,
				ItemCode:         item.Code,
				ItemName:         item.Name,
				SystemQty:        item.CurrentStock,
				PhysicalQty:      physical,
				VarianceQty:      money.Delta(physical, item.CurrentStock),
				TimesHadVariance: streaks[item.ID] + 1,
			}
			variance.VarianceValue = money.Mul(variance.VarianceQty, item.CurrentCost)

			session.PhysicalCounts[item.ID] = physical
			session.Variances = append(session.Variances, variance)
			values = append(values, variance.VarianceValue)
		}
		session.TotalVarianceValue = money.Sum(values...)

		if err := session.Validate(); err != nil {
			return err
		}
		if input.ApplyAdjustmentsToStock {
			err := s.ledger.Apply(ctx, func(ltx *LedgerTx) error {
				for id, qty := range session.PhysicalCounts {
					if err := ltx.SetQuantity(id, qty); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				logger.LogError(s.logger, "stock_take", "RecordStockTake", "apply counts", session.ID, err)
				return err
			}
		}
		return tx.Put(session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session":        session.ID,
		"counted":        len(session.Variances),
		"variance_value": session.TotalVarianceValue,
		"applied":        session.ApplyAdjustmentsToStock,
	}).Info("stock take recorded")
	return &session, nil
}

// ListStockTakes returns sessions most recent first
func (s *StockTakeService) ListStockTakes(ctx context.Context, params *pagination.PaginationParams) *pagination.PaginatedResult[entity.StockTakeSession] {
	return pagination.Paginate(sortedSessions(s.sessions.Snapshot().All()), params)
}

// LatestStockTake returns the session that drives the default report
func (s *StockTakeService) LatestStockTake(ctx context.Context) (*entity.StockTakeSession, error) {
	latest, ok := latestSession(s.sessions.Snapshot().All())
	if !ok {
		return nil, apperror.NewNotFoundError("Stock take")
	}
	return &latest, nil
}

// GetStockTake returns one session
func (s *StockTakeService) GetStockTake(ctx context.Context, id string) (*entity.StockTakeSession, error) {
	session, ok := s.sessions.Snapshot().Get(id)
	if !ok {
		return nil, apperror.NewNotFoundError("Stock take")
	}
	return &session, nil
}

// sortedSessions orders by date descending; later recordings win ties
func sortedSessions(sessions []entity.StockTakeSession) []entity.StockTakeSession {
	out := make([]entity.StockTakeSession, len(sessions))
	for i := range sessions {
		out[i] = sessions[len(sessions)-1-i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// priorVarianceCounts maps each item to TimesHadVariance from the most recent
// session that counted it
func priorVarianceCounts(sessions []entity.StockTakeSession) map[string]int {
	counts := map[string]int{}
	for _, session := range sortedSessions(sessions) {
		for _, v := range session.Variances {
			if _, seen := counts[v.ItemID]; !seen {
				counts[v.ItemID] = v.TimesHadVariance
			}
		}
	}
	return counts
}

func latestSession(sessions []entity.StockTakeSession) (entity.StockTakeSession, bool) {
	sorted := sortedSessions(sessions)
	if len(sorted) == 0 {
		return entity.StockTakeSession{}, false
	}
	return sorted[0], true
}
