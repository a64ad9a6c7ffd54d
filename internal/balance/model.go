package balance

import "context"

// UserBalance is one trip member's net position: positive means the user
// is owed money, negative means the user owes.
type UserBalance struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username,omitempty"`
	Amount   float64 `json:"amount"`
}

// Aggregator supplies per-user net balances for a trip. The debt
// simplifier consumes this contract; it never cares where the numbers
// come from.
type Aggregator interface {
	TripBalances(ctx context.Context, tripID int64) ([]UserBalance, error)
}
