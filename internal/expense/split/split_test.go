package split

import (
	"errors"
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

// sumShares adds up the materialized shares of a result
func sumShares(shares []ParticipantShare) float64 {
	var total float64
	for _, s := range shares {
		total += s.Share
	}
	return total
}

func TestComputeSharesEqual(t *testing.T) {
	shares, err := ComputeShares(100, MethodEqual, []ParticipantInput{
		{UserID: 1}, {UserID: 2}, {UserID: 3},
	})
	if err != nil {
		t.Fatalf("ComputeShares returned error: %v", err)
	}
	if len(shares) != 3 {
		t.Fatalf("got %d shares, want 3", len(shares))
	}

	// 100 / 3 = 33.33 each; remainder cents are not redistributed
	for _, s := range shares {
		if s.Share != 33.33 {
			t.Errorf("user %d share = %v, want 33.33", s.UserID, s.Share)
		}
		detail, ok := s.Detail.(EqualDetail)
		if !ok {
			t.Fatalf("user %d detail = %T, want EqualDetail", s.UserID, s.Detail)
		}
		if detail.Count != 3 {
			t.Errorf("detail count = %d, want 3", detail.Count)
		}
	}

	if got := sumShares(shares); math.Abs(got-99.99) > 1e-9 {
		t.Errorf("sum of shares = %v, want 99.99", got)
	}
}

func TestComputeSharesEqualSumWithinTolerance(t *testing.T) {
	// Rounded shares, summed, stay within 0.01 x n of the amount
	amounts := []float64{10, 25.55, 99.99, 1000, 0.03}
	counts := []int{1, 2, 3, 5, 7}

	for _, amount := range amounts {
		for _, n := range counts {
			participants := make([]ParticipantInput, n)
			for i := range participants {
				participants[i] = ParticipantInput{UserID: int64(i + 1)}
			}
			shares, err := ComputeShares(amount, MethodEqual, participants)
			if err != nil {
				t.Fatalf("amount=%v n=%d: %v", amount, n, err)
			}
			if diff := math.Abs(sumShares(shares) - amount); diff > 0.01*float64(n) {
				t.Errorf("amount=%v n=%d: sum off by %v", amount, n, diff)
			}
		}
	}
}

func TestComputeSharesPercentage(t *testing.T) {
	shares, err := ComputeShares(200, MethodPercentage, []ParticipantInput{
		{UserID: 1, Percentage: f(60)},
		{UserID: 2, Percentage: f(40)},
	})
	if err != nil {
		t.Fatalf("ComputeShares returned error: %v", err)
	}

	if shares[0].Share != 120.00 {
		t.Errorf("user 1 share = %v, want 120.00", shares[0].Share)
	}
	if shares[1].Share != 80.00 {
		t.Errorf("user 2 share = %v, want 80.00", shares[1].Share)
	}
	detail, ok := shares[0].Detail.(PercentageDetail)
	if !ok || detail.Percentage != 60 {
		t.Errorf("user 1 detail = %+v, want percentage 60", shares[0].Detail)
	}
}

func TestComputeSharesPercentageTolerance(t *testing.T) {
	// 33.33 + 33.33 + 33.33 = 99.99, inside the 0.1 tolerance
	shares, err := ComputeShares(90, MethodPercentage, []ParticipantInput{
		{UserID: 1, Percentage: f(33.33)},
		{UserID: 2, Percentage: f(33.33)},
		{UserID: 3, Percentage: f(33.33)},
	})
	if err != nil {
		t.Fatalf("ComputeShares returned error: %v", err)
	}
	if diff := math.Abs(sumShares(shares) - 90); diff > 0.01 {
		t.Errorf("sum of shares off by %v", diff)
	}
}

func TestComputeSharesPercentageMismatch(t *testing.T) {
	_, err := ComputeShares(100, MethodPercentage, []ParticipantInput{
		{UserID: 1, Percentage: f(50)},
		{UserID: 2, Percentage: f(47)},
	})

	var mismatch *PercentageMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want PercentageMismatchError", err)
	}
	if mismatch.Actual != 97 {
		t.Errorf("actual = %v, want 97", mismatch.Actual)
	}
}

func TestComputeSharesWeights(t *testing.T) {
	shares, err := ComputeShares(90, MethodShares, []ParticipantInput{
		{UserID: 1, ShareWeight: f(2)},
		{UserID: 2, ShareWeight: f(1)},
	})
	if err != nil {
		t.Fatalf("ComputeShares returned error: %v", err)
	}

	if shares[0].Share != 60.00 {
		t.Errorf("user 1 share = %v, want 60.00", shares[0].Share)
	}
	if shares[1].Share != 30.00 {
		t.Errorf("user 2 share = %v, want 30.00", shares[1].Share)
	}
	detail, ok := shares[0].Detail.(SharesDetail)
	if !ok || detail.Weight != 2 || detail.TotalWeight != 3 {
		t.Errorf("user 1 detail = %+v, want weight 2 of 3", shares[0].Detail)
	}
	if diff := math.Abs(sumShares(shares) - 90); diff > 0.01 {
		t.Errorf("sum of shares off by %v", diff)
	}
}

func TestComputeSharesZeroWeights(t *testing.T) {
	_, err := ComputeShares(90, MethodShares, []ParticipantInput{
		{UserID: 1, ShareWeight: f(0)},
		{UserID: 2, ShareWeight: f(0)},
	})
	if !errors.Is(err, ErrInvalidShareTotal) {
		t.Fatalf("error = %v, want ErrInvalidShareTotal", err)
	}
}

func TestComputeSharesCustom(t *testing.T) {
	shares, err := ComputeShares(100, MethodCustom, []ParticipantInput{
		{UserID: 1, Amount: f(40)},
		{UserID: 2, Amount: f(40)},
		{UserID: 3, Amount: f(20)},
	})
	if err != nil {
		t.Fatalf("ComputeShares returned error: %v", err)
	}
	if shares[2].Share != 20.00 {
		t.Errorf("user 3 share = %v, want 20.00", shares[2].Share)
	}
	if diff := math.Abs(sumShares(shares) - 100); diff > 0.01 {
		t.Errorf("sum of shares off by %v", diff)
	}
}

func TestComputeSharesCustomMismatch(t *testing.T) {
	_, err := ComputeShares(100, MethodCustom, []ParticipantInput{
		{UserID: 1, Amount: f(40)},
		{UserID: 2, Amount: f(40)},
		{UserID: 3, Amount: f(10)},
	})

	var mismatch *CustomAmountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want CustomAmountMismatchError", err)
	}
	if mismatch.Actual != 90 || mismatch.Expected != 100 {
		t.Errorf("got (%v, %v), want (90, 100)", mismatch.Actual, mismatch.Expected)
	}
}

func TestComputeSharesInputErrors(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		method       Method
		participants []ParticipantInput
		wantErr      error
	}{
		{
			name:         "zero amount",
			amount:       0,
			method:       MethodEqual,
			participants: []ParticipantInput{{UserID: 1}},
			wantErr:      ErrInvalidAmount,
		},
		{
			name:         "negative amount",
			amount:       -5,
			method:       MethodEqual,
			participants: []ParticipantInput{{UserID: 1}},
			wantErr:      ErrInvalidAmount,
		},
		{
			name:         "no participants",
			amount:       100,
			method:       MethodEqual,
			participants: []ParticipantInput{},
			wantErr:      ErrEmptyParticipants,
		},
		{
			name:         "duplicate participant",
			amount:       100,
			method:       MethodEqual,
			participants: []ParticipantInput{{UserID: 1}, {UserID: 1}},
			wantErr:      ErrDuplicateParticipant,
		},
		{
			name:         "missing percentage",
			amount:       100,
			method:       MethodPercentage,
			participants: []ParticipantInput{{UserID: 1, Percentage: f(50)}, {UserID: 2}},
			wantErr:      ErrMissingPercentage,
		},
		{
			name:         "percentage out of range",
			amount:       100,
			method:       MethodPercentage,
			participants: []ParticipantInput{{UserID: 1, Percentage: f(120)}, {UserID: 2, Percentage: f(-20)}},
			wantErr:      ErrPercentageOutOfRange,
		},
		{
			name:         "missing share weight",
			amount:       100,
			method:       MethodShares,
			participants: []ParticipantInput{{UserID: 1}},
			wantErr:      ErrMissingShareWeight,
		},
		{
			name:         "missing custom amount",
			amount:       100,
			method:       MethodCustom,
			participants: []ParticipantInput{{UserID: 1}},
			wantErr:      ErrMissingCustomAmount,
		},
		{
			name:         "negative custom amount",
			amount:       100,
			method:       MethodCustom,
			participants: []ParticipantInput{{UserID: 1, Amount: f(-10)}, {UserID: 2, Amount: f(110)}},
			wantErr:      ErrNegativeShare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeShares(tt.amount, tt.method, tt.participants)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComputeSharesUnknownMethod(t *testing.T) {
	_, err := ComputeShares(100, Method("HALVES"), []ParticipantInput{{UserID: 1}})
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestSharesProportionalToWeights(t *testing.T) {
	weights := []float64{1, 2.5, 4, 0.5}
	participants := make([]ParticipantInput, len(weights))
	var totalWeight float64
	for i, w := range weights {
		participants[i] = ParticipantInput{UserID: int64(i + 1), ShareWeight: f(w)}
		totalWeight += w
	}

	amount := 250.0
	shares, err := ComputeShares(amount, MethodShares, participants)
	if err != nil {
		t.Fatalf("ComputeShares returned error: %v", err)
	}

	for i, s := range shares {
		want := amount * weights[i] / totalWeight
		if math.Abs(s.Share-want) > 0.01 {
			t.Errorf("user %d share = %v, want ~%v", s.UserID, s.Share, want)
		}
	}
	if diff := math.Abs(sumShares(shares) - amount); diff > 0.01 {
		t.Errorf("sum of shares off by %v", diff)
	}
}
