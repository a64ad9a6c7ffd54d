package settlement

import "time"

// Status represents the lifecycle state of a settlement
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Settlement is a directed, dated transfer of money between two trip
// members. Amount and parties are immutable after creation; a correction
// is a cancel-and-recreate. Only status and method ever change.
type Settlement struct {
	ID           int64      `json:"id"`
	TripID       int64      `json:"trip_id"`
	FromUserID   int64      `json:"from_user_id"`
	ToUserID     int64      `json:"to_user_id"`
	Amount       float64    `json:"amount"`
	CurrencyCode string     `json:"currency_code"`
	Method       string     `json:"method,omitempty"` // e.g. CASH, BANK_TRANSFER
	Status       Status     `json:"status"`
	BatchID      *string    `json:"batch_id,omitempty"` // Set when proposed by the simplifier
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	// Populated via JOIN
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}
