package expense

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/lmezg/triptab/internal/expense/split"
)

// Expense represents a shared trip expense
type Expense struct {
	ID           int64        `json:"id"`
	TripID       int64        `json:"trip_id"`
	PayerID      int64        `json:"payer_id"`
	Description  string       `json:"description"`
	Amount       float64      `json:"amount"`
	CurrencyCode string       `json:"currency_code"`
	SplitMethod  split.Method `json:"split_method"` // EQUAL, PERCENTAGE, SHARES, CUSTOM
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// Share is one participant's materialized portion of an expense. Shares
// are owned by their expense: they are replaced wholesale whenever the
// expense is recomputed and destroyed with it.
type Share struct {
	ID        int64       `json:"id"`
	ExpenseID int64       `json:"expense_id"`
	UserID    int64       `json:"user_id"`
	Share     float64     `json:"share"`
	Detail    SplitDetail `json:"split_detail"`
	Settled   bool        `json:"settled"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// SplitDetail wraps a split.Detail so it can travel through a jsonb column
type SplitDetail struct {
	split.Detail
}

// Value implements driver.Valuer, encoding the detail as tagged JSON
func (d SplitDetail) Value() (driver.Value, error) {
	if d.Detail == nil {
		return nil, nil
	}
	raw, err := split.EncodeDetail(d.Detail)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Scan implements sql.Scanner, decoding the tagged JSON back into the
// concrete detail type.
func (d *SplitDetail) Scan(src interface{}) error {
	if src == nil {
		d.Detail = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SplitDetail", src)
	}

	detail, err := split.DecodeDetail(raw)
	if err != nil {
		return err
	}
	d.Detail = detail
	return nil
}

// MarshalJSON emits the tagged envelope form
func (d SplitDetail) MarshalJSON() ([]byte, error) {
	if d.Detail == nil {
		return []byte("null"), nil
	}
	return split.EncodeDetail(d.Detail)
}

// UnmarshalJSON accepts the tagged envelope form
func (d *SplitDetail) UnmarshalJSON(data []byte) error {
	detail, err := split.DecodeDetail(data)
	if err != nil {
		return err
	}
	d.Detail = detail
	return nil
}

// ExpenseWithShares combines an expense with its materialized shares
type ExpenseWithShares struct {
	Expense *Expense
	Shares  []*Share
}

// Participant is used when creating or updating an expense
type Participant struct {
	UserID      int64    `json:"user_id"`
	Percentage  *float64 `json:"percentage,omitempty"`   // For PERCENTAGE split
	ShareWeight *float64 `json:"share_weight,omitempty"` // For SHARES split
	Amount      *float64 `json:"amount,omitempty"`       // For CUSTOM split
}

// ToSplitInput converts to the split package's input type
func (p *Participant) ToSplitInput() split.ParticipantInput {
	return split.ParticipantInput{
		UserID:      p.UserID,
		Percentage:  p.Percentage,
		ShareWeight: p.ShareWeight,
		Amount:      p.Amount,
	}
}
