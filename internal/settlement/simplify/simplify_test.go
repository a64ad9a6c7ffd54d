package simplify

import (
	"math"
	"math/rand"
	"testing"
)

// applyTransfers plays a plan back onto the balances: debtors pay out,
// creditors receive, and every balance should return to zero.
func applyTransfers(balances []Balance, transfers []Transfer) map[int64]float64 {
	remaining := make(map[int64]float64, len(balances))
	for _, b := range balances {
		remaining[b.UserID] = b.Amount
	}
	for _, tr := range transfers {
		remaining[tr.FromUserID] += tr.Amount
		remaining[tr.ToUserID] -= tr.Amount
	}
	return remaining
}

func TestSimplifyTwoDebtors(t *testing.T) {
	plan := Simplify([]Balance{
		{UserID: 1, Amount: 50},  // A is owed 50
		{UserID: 2, Amount: -30}, // B owes 30
		{UserID: 3, Amount: -20}, // C owes 20
	})

	if plan.Imbalance != 0 {
		t.Errorf("imbalance = %v, want 0", plan.Imbalance)
	}
	want := []Transfer{
		{FromUserID: 2, ToUserID: 1, Amount: 30},
		{FromUserID: 3, ToUserID: 1, Amount: 20},
	}
	if len(plan.Transfers) != len(want) {
		t.Fatalf("got %d transfers, want %d: %+v", len(plan.Transfers), len(want), plan.Transfers)
	}
	for i, tr := range plan.Transfers {
		if tr != want[i] {
			t.Errorf("transfer %d = %+v, want %+v", i, tr, want[i])
		}
	}
}

func TestSimplifyUnevenDebtors(t *testing.T) {
	plan := Simplify([]Balance{
		{UserID: 1, Amount: 70},
		{UserID: 2, Amount: -40},
		{UserID: 3, Amount: -30},
	})

	want := []Transfer{
		{FromUserID: 2, ToUserID: 1, Amount: 40},
		{FromUserID: 3, ToUserID: 1, Amount: 30},
	}
	if len(plan.Transfers) != len(want) {
		t.Fatalf("got %d transfers, want %d: %+v", len(plan.Transfers), len(want), plan.Transfers)
	}
	for i, tr := range plan.Transfers {
		if tr != want[i] {
			t.Errorf("transfer %d = %+v, want %+v", i, tr, want[i])
		}
	}
}

func TestSimplifyOneDebtorManyCreditors(t *testing.T) {
	plan := Simplify([]Balance{
		{UserID: 1, Amount: -100},
		{UserID: 2, Amount: 60},
		{UserID: 3, Amount: 40},
	})

	remaining := applyTransfers([]Balance{
		{UserID: 1, Amount: -100},
		{UserID: 2, Amount: 60},
		{UserID: 3, Amount: 40},
	}, plan.Transfers)
	for userID, amount := range remaining {
		if math.Abs(amount) > Epsilon {
			t.Errorf("user %d left with balance %v", userID, amount)
		}
	}
	if len(plan.Transfers) > 2 {
		t.Errorf("got %d transfers, want at most 2", len(plan.Transfers))
	}
}

func TestSimplifyDropsZeroBalances(t *testing.T) {
	plan := Simplify([]Balance{
		{UserID: 1, Amount: 25},
		{UserID: 2, Amount: 0},
		{UserID: 3, Amount: 0.004}, // below epsilon
		{UserID: 4, Amount: -25},
	})

	if len(plan.Transfers) != 1 {
		t.Fatalf("got %d transfers, want 1: %+v", len(plan.Transfers), plan.Transfers)
	}
	tr := plan.Transfers[0]
	if tr.FromUserID != 4 || tr.ToUserID != 1 || tr.Amount != 25 {
		t.Errorf("transfer = %+v, want 4->1 25", tr)
	}
}

func TestSimplifyEmptyAndSingle(t *testing.T) {
	if plan := Simplify(nil); len(plan.Transfers) != 0 {
		t.Errorf("nil input produced transfers: %+v", plan.Transfers)
	}
	if plan := Simplify([]Balance{{UserID: 1, Amount: 0}}); len(plan.Transfers) != 0 {
		t.Errorf("zero balance produced transfers: %+v", plan.Transfers)
	}
}

func TestSimplifyRoundingResidual(t *testing.T) {
	// Balances match only within epsilon; the residual must be dropped,
	// not emitted as an extra sub-cent transfer.
	plan := Simplify([]Balance{
		{UserID: 1, Amount: 33.334},
		{UserID: 2, Amount: -33.33},
	})

	if len(plan.Transfers) != 1 {
		t.Fatalf("got %d transfers, want 1: %+v", len(plan.Transfers), plan.Transfers)
	}
	if got := plan.Transfers[0].Amount; got != 33.33 {
		t.Errorf("transfer amount = %v, want 33.33", got)
	}
}

func TestSimplifyReportsImbalance(t *testing.T) {
	plan := Simplify([]Balance{
		{UserID: 1, Amount: 10},
		{UserID: 2, Amount: -7},
	})

	if math.Abs(plan.Imbalance-3) > 1e-9 {
		t.Errorf("imbalance = %v, want 3", plan.Imbalance)
	}
	// Best-effort plan still settles what it can
	if len(plan.Transfers) != 1 || plan.Transfers[0].Amount != 7 {
		t.Errorf("transfers = %+v, want one transfer of 7", plan.Transfers)
	}
}

func TestSimplifyRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := 2 + rng.Intn(12)
		balances := make([]Balance, 0, n)
		var sum float64
		for id := int64(1); id < int64(n); id++ {
			amount := math.Round((rng.Float64()*200-100)*100) / 100
			balances = append(balances, Balance{UserID: id, Amount: amount})
			sum += amount
		}
		// Last user absorbs the remainder so the ledger nets to zero
		balances = append(balances, Balance{UserID: int64(n), Amount: math.Round(-sum*100) / 100})

		plan := Simplify(balances)

		// Transfer count bound: at most n-1 for n nonzero balances
		nonzero := 0
		for _, b := range balances {
			if math.Abs(b.Amount) >= Epsilon {
				nonzero++
			}
		}
		if nonzero > 0 && len(plan.Transfers) > nonzero-1 {
			t.Fatalf("run %d: %d transfers for %d nonzero balances", run, len(plan.Transfers), nonzero)
		}

		for _, tr := range plan.Transfers {
			if tr.FromUserID == tr.ToUserID {
				t.Fatalf("run %d: self transfer %+v", run, tr)
			}
			if tr.Amount <= 0 {
				t.Fatalf("run %d: non-positive transfer %+v", run, tr)
			}
		}

		// Applying the plan restores every balance to ~zero. Each step can
		// drop at most epsilon of residual, so the bound scales with n.
		remaining := applyTransfers(balances, plan.Transfers)
		for userID, amount := range remaining {
			if math.Abs(amount) > Epsilon*float64(n) {
				t.Fatalf("run %d: user %d left with balance %v", run, userID, amount)
			}
		}
	}
}
