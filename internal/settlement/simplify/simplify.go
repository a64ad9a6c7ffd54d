// Package simplify reduces a set of per-user net balances to a minimal
// list of direct transfers that zeroes every balance.
package simplify

import (
	"math"
	"sort"
)

// Epsilon is the margin within which a balance is treated as zero and two
// near-equal balances are treated as exactly matched. Half a cent absorbs
// the rounding noise of summed two-decimal currency values.
const Epsilon = 0.005

// Balance is one user's net position: positive means the user is owed
// money, negative means the user owes.
type Balance struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}

// Transfer is a single proposed payment from a debtor to a creditor
type Transfer struct {
	FromUserID int64   `json:"from_user_id"`
	ToUserID   int64   `json:"to_user_id"`
	Amount     float64 `json:"amount"`
}

// Plan is the result of a simplification run. Imbalance is the signed
// amount by which the input balances failed to sum to zero; a correctly
// computed ledger yields zero, and a nonzero value signals an aggregation
// bug upstream, not a failure of the plan itself.
type Plan struct {
	Transfers []Transfer `json:"transfers"`
	Imbalance float64    `json:"imbalance"`
}

// Simplify computes a minimal set of direct transfers that settles the
// given balances.
//
// Greedy two-pointer construction: drop near-zero balances, sort the rest
// descending, then repeatedly match the largest creditor against the
// largest debtor, fully resolving at least one of them per step. For n
// nonzero balances this emits at most n-1 transfers. Sub-cent residuals
// left by accumulated rounding are dropped rather than emitted as noise
// transfers.
//
// The input slice is not modified.
func Simplify(balances []Balance) Plan {
	var imbalance float64
	for _, b := range balances {
		imbalance += b.Amount
	}

	// Work on a copy with near-zero balances discarded
	working := make([]Balance, 0, len(balances))
	for _, b := range balances {
		if math.Abs(b.Amount) >= Epsilon {
			working = append(working, b)
		}
	}

	// Creditors first, largest debtor last. Ties broken by user id so the
	// plan is deterministic.
	sort.Slice(working, func(i, j int) bool {
		if working[i].Amount != working[j].Amount {
			return working[i].Amount > working[j].Amount
		}
		return working[i].UserID < working[j].UserID
	})

	var transfers []Transfer
	i, j := 0, len(working)-1

	for i < j {
		credit := working[i].Amount
		debt := -working[j].Amount

		// Residuals below epsilon are spent; skip to the next party
		if credit < Epsilon {
			i++
			continue
		}
		if debt < Epsilon {
			j--
			continue
		}

		switch {
		case math.Abs(credit-debt) <= Epsilon:
			// Matched within tolerance: one transfer of the larger
			// magnitude settles both sides, the sub-cent difference
			// is dropped.
			transfers = append(transfers, Transfer{
				FromUserID: working[j].UserID,
				ToUserID:   working[i].UserID,
				Amount:     roundCents(math.Max(credit, debt)),
			})
			i++
			j--
		case credit > debt:
			transfers = append(transfers, Transfer{
				FromUserID: working[j].UserID,
				ToUserID:   working[i].UserID,
				Amount:     roundCents(debt),
			})
			working[i].Amount -= debt
			j--
		default:
			transfers = append(transfers, Transfer{
				FromUserID: working[j].UserID,
				ToUserID:   working[i].UserID,
				Amount:     roundCents(credit),
			})
			working[j].Amount += credit
			i++
		}
	}

	return Plan{Transfers: transfers, Imbalance: imbalance}
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
