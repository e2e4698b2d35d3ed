package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
	"github.com/sangkips/kitchen-inventory-api/pkg/money"
	"github.com/sangkips/kitchen-inventory-api/pkg/pagination"
	"github.com/sirupsen/logrus"
)

// StockIssueService records internal transfers between stock items
type StockIssueService struct {
	lines  *store.Store[entity.StockIssueLine]
	ledger *StockLedger
	logger *logrus.Logger
}

// NewStockIssueService creates a new stock issue service
func NewStockIssueService(lines *store.Store[entity.StockIssueLine], ledger *StockLedger, logg *logrus.Logger) *StockIssueService {
	if logg == nil {
		logg = logger.Discard()
	}
	return &StockIssueService{lines: lines, ledger: ledger, logger: logg}
}

type StockIssueLineInput struct {
	OriginItemID      string  `json:"origin_item_id"`
	DestinationItemID string  `json:"destination_item_id"`
	Qty               float64 `json:"qty"`
}

type CreateStockIssueInput struct {
	Date      time.Time             `json:"date"`
	CreatedBy string                `json:"created_by"`
	Lines     []StockIssueLineInput `json:"lines"`
}

// CreateStockIssue validates every line, then moves stock for all of them
// under one issue number. The first invalid line aborts the whole call.
func (s *StockIssueService) CreateStockIssue(ctx context.Context, input *CreateStockIssueInput) (*entity.StockIssue, error) {
	if len(input.Lines) == 0 {
		return nil, &apperror.StockIssueError{Message: "at least one line is required"}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	var issue entity.StockIssue
	err := s.lines.Update(func(itx *store.Tx[entity.StockIssueLine]) error {
		seq := nextIssueSequence(itx.All())
		issueNo := fmt.Sprintf("ISS-%06d", seq)
		now := time.Now()

		written := make([]entity.StockIssueLine, 0, len(input.Lines))
		err := s.ledger.Apply(ctx, func(ltx *LedgerTx) error {
			if err := validateIssueLines(ltx, input.Lines); err != nil {
				return err
			}

			for i, in := range input.Lines {
				origin, _ := ltx.Get(in.OriginItemID)
				was := origin.CurrentStock

				origin, err := ltx.Decrease(in.OriginItemID, in.Qty)
				if err != nil {
					return err
				}
				dest, err := ltx.Increase(in.DestinationItemID, in.Qty)
				if err != nil {
					return err
				}

				line := entity.StockIssueLine{
					ID:                  uuid.New().String(),
					IssueNo:             issueNo,
					Sequence:            seq,
					Date:                date,
					OriginItemID:        origin.ID,
					OriginItemCode:      origin.Code,
					DestinationItemID:   dest.ID,
					DestinationItemCode: dest.Code,
					UnitType:            origin.UnitType,
					WasQty:              was,
					IssuedQty:           in.Qty,
					NowQty:              origin.CurrentStock,
					Value:               -money.Mul(in.Qty, origin.CurrentCost),
					CreatedBy:           input.CreatedBy,
					CreatedAt:           now,
				}
				if err := line.Validate(); err != nil {
					return &apperror.StockIssueError{Line: i + 1, ItemID: in.OriginItemID, Message: err.Error()}
				}
				written = append(written, line)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, line := range written {
			if err := itx.Put(line); err != nil {
				return err
			}
		}
		issue = groupIssue(written)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"issue_no": issue.IssueNo, "lines": len(issue.Lines)}).Info("stock issued")
	return &issue, nil
}

// validateIssueLines checks every line against a running projection of
// on-hand stock, so an origin feeding several lines is checked cumulatively.
func validateIssueLines(ltx *LedgerTx, lines []StockIssueLineInput) error {
	projected := map[string]float64{}
	balance := func(item entity.StockItem) float64 {
		if v, ok := projected[item.ID]; ok {
			return v
		}
		return item.CurrentStock
	}

	for i, in := range lines {
		n := i + 1
		origin, ok := ltx.Get(in.OriginItemID)
		if !ok {
			return &apperror.StockIssueError{Line: n, ItemID: in.OriginItemID, Message: "origin item does not exist"}
		}
		dest, ok := ltx.Get(in.DestinationItemID)
		if !ok {
			return &apperror.StockIssueError{Line: n, ItemID: in.DestinationItemID, Message: "destination item does not exist"}
		}
		if origin.ID == dest.ID {
			return &apperror.StockIssueError{Line: n, ItemID: origin.ID, Message: "origin and destination must differ"}
		}
		if origin.UnitType != dest.UnitType {
			return &apperror.StockIssueError{
				Line:    n,
				ItemID:  origin.ID,
				Message: fmt.Sprintf("unit type %s does not match destination %s", origin.UnitType, dest.UnitType),
			}
		}
		if in.Qty <= 0 {
			return &apperror.StockIssueError{Line: n, ItemID: origin.ID, Message: "quantity must be greater than 0"}
		}
		have := balance(origin)
		if in.Qty > have+stockEpsilon {
			return &apperror.StockIssueError{
				Line:    n,
				ItemID:  origin.ID,
				Message: fmt.Sprintf("cannot issue %.2f, only %.2f on hand", in.Qty, have),
			}
		}
		projected[origin.ID] = have - in.Qty
		projected[dest.ID] = balance(dest) + in.Qty
	}
	return nil
}

// GetIssue returns every line of one issue number
func (s *StockIssueService) GetIssue(ctx context.Context, issueNo string) (*entity.StockIssue, error) {
	lines := s.lines.Snapshot().Filter(func(l entity.StockIssueLine) bool {
		return l.IssueNo == issueNo
	})
	if len(lines) == 0 {
		return nil, apperror.NewNotFoundError("Stock issue")
	}
	issue := groupIssue(lines)
	return &issue, nil
}

// ListIssues groups the line ledger by issue number, newest first
func (s *StockIssueService) ListIssues(ctx context.Context, params *pagination.PaginationParams) *pagination.PaginatedResult[entity.StockIssue] {
	var order []string
	grouped := map[string][]entity.StockIssueLine{}
	for _, line := range s.lines.Snapshot().All() {
		if _, seen := grouped[line.IssueNo]; !seen {
			order = append(order, line.IssueNo)
		}
		grouped[line.IssueNo] = append(grouped[line.IssueNo], line)
	}

	issues := make([]entity.StockIssue, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		issues = append(issues, groupIssue(grouped[order[i]]))
	}
	return pagination.Paginate(issues, params)
}

// LinesForItem returns every line moving stock in or out of itemID
func (s *StockIssueService) LinesForItem(itemID string) []entity.StockIssueLine {
	return s.lines.Snapshot().Filter(func(l entity.StockIssueLine) bool {
		return l.OriginItemID == itemID || l.DestinationItemID == itemID
	})
}

func groupIssue(lines []entity.StockIssueLine) entity.StockIssue {
	values := make([]float64, 0, len(lines))
	for _, l := range lines {
		values = append(values, l.Value)
	}
	issue := entity.StockIssue{Lines: lines, TotalValue: money.Sum(values...)}
	if len(lines) > 0 {
		issue.IssueNo = lines[0].IssueNo
		issue.Date = lines[0].Date
		issue.CreatedBy = lines[0].CreatedBy
	}
	return issue
}

func nextIssueSequence(lines []entity.StockIssueLine) int {
	last := 0
	for _, l := range lines {
		if l.Sequence > last {
			last = l.Sequence
		}
	}
	return last + 1
}
