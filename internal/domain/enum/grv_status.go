package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// GRVStatus represents the lifecycle state of a goods received voucher
type GRVStatus int

const (
	GRVStatusPending   GRVStatus = 0
	GRVStatusConfirmed GRVStatus = 1
	GRVStatusCancelled GRVStatus = 2
)

func (s GRVStatus) String() string {
	switch s {
	case GRVStatusConfirmed:
		return "confirmed"
	case GRVStatusCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// IsTerminal reports whether the voucher is locked against further changes
func (s GRVStatus) IsTerminal() bool {
	return s == GRVStatusConfirmed || s == GRVStatusCancelled
}

// ParseGRVStatus parses the lowercase status name
func ParseGRVStatus(str string) (GRVStatus, error) {
	switch str {
	case "pending":
		return GRVStatusPending, nil
	case "confirmed":
		return GRVStatusConfirmed, nil
	case "cancelled":
		return GRVStatusCancelled, nil
	}
	return GRVStatusPending, fmt.Errorf("unknown grv status %q", str)
}

func (s GRVStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *GRVStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = GRVStatus(i)
		return nil
	}
	parsed, err := ParseGRVStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s GRVStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *GRVStatus) Scan(value interface{}) error {
	if value == nil {
		*s = GRVStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = GRVStatus(v)
	case int:
		*s = GRVStatus(v)
	}
	return nil
}
