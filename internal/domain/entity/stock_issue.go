package entity

import (
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/enum"
	"github.com/sangkips/kitchen-inventory-api/pkg/validation"
)

// StockIssueLine is one internal transfer between two stock items. Lines are
// append-only; every line written by one call shares an IssueNo.
type StockIssueLine struct {
	ID                  string        `gorm:"size:64;primaryKey" json:"id" validate:"required"`
	IssueNo             string        `gorm:"size:32;not null;index" json:"issue_no" validate:"required"`
	Sequence            int           `gorm:"not null;index" json:"sequence" validate:"gt=0"`
	Date                time.Time     `gorm:"type:date;not null" json:"date"`
	OriginItemID        string        `gorm:"size:64;not null;index" json:"origin_item_id" validate:"required"`
	OriginItemCode      string        `gorm:"size:100" json:"origin_item_code"`
	DestinationItemID   string        `gorm:"size:64;not null;index" json:"destination_item_id" validate:"required,nefield=OriginItemID"`
	DestinationItemCode string        `gorm:"size:100" json:"destination_item_code"`
	UnitType            enum.UnitType `gorm:"size:8" json:"unit_type"`
	WasQty              float64       `gorm:"type:decimal(15,4)" json:"was_qty"`
	IssuedQty           float64       `gorm:"type:decimal(15,4)" json:"issued_qty" validate:"gt=0"`
	NowQty              float64       `gorm:"type:decimal(15,4)" json:"now_qty"`
	Value               float64       `gorm:"type:decimal(15,2)" json:"value"`
	CreatedBy           string        `gorm:"size:255" json:"created_by"`
	CreatedAt           time.Time     `json:"created_at"`
}

// TableName returns the table name for the StockIssueLine model
func (StockIssueLine) TableName() string {
	return "stock_issue_lines"
}

func (l StockIssueLine) RecordID() string {
	return l.ID
}

func (l StockIssueLine) Clone() StockIssueLine {
	return l
}

func (l StockIssueLine) Validate() error {
	return validation.Struct(l)
}

// StockIssue groups the lines of one transaction. It is a read-time
// projection over the line ledger and is never stored.
type StockIssue struct {
	IssueNo    string           `json:"issue_no"`
	Date       time.Time        `json:"date"`
	CreatedBy  string           `json:"created_by"`
	Lines      []StockIssueLine `json:"lines"`
	TotalValue float64          `json:"total_value"`
}
