package split

import (
	"errors"
	"testing"
)

func TestValidateExpense(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		method       Method
		participants []ParticipantInput
		wantErr      error
	}{
		{
			name:         "valid equal",
			amount:       60,
			method:       MethodEqual,
			participants: []ParticipantInput{{UserID: 1}, {UserID: 2}},
		},
		{
			name:   "valid percentage",
			amount: 60,
			method: MethodPercentage,
			participants: []ParticipantInput{
				{UserID: 1, Percentage: f(70)},
				{UserID: 2, Percentage: f(30)},
			},
		},
		{
			name:   "percentage just inside tolerance",
			amount: 60,
			method: MethodPercentage,
			participants: []ParticipantInput{
				{UserID: 1, Percentage: f(49.95)},
				{UserID: 2, Percentage: f(50)},
			},
		},
		{
			name:   "percentage outside tolerance",
			amount: 60,
			method: MethodPercentage,
			participants: []ParticipantInput{
				{UserID: 1, Percentage: f(49)},
				{UserID: 2, Percentage: f(50)},
			},
			wantErr: &PercentageMismatchError{},
		},
		{
			name:   "custom just inside tolerance",
			amount: 100,
			method: MethodCustom,
			participants: []ParticipantInput{
				{UserID: 1, Amount: f(49.995)},
				{UserID: 2, Amount: f(50)},
			},
		},
		{
			name:   "custom outside tolerance",
			amount: 100,
			method: MethodCustom,
			participants: []ParticipantInput{
				{UserID: 1, Amount: f(48)},
				{UserID: 2, Amount: f(50)},
			},
			wantErr: &CustomAmountMismatchError{},
		},
		{
			name:         "duplicate participants rejected",
			amount:       60,
			method:       MethodEqual,
			participants: []ParticipantInput{{UserID: 7}, {UserID: 7}},
			wantErr:      ErrDuplicateParticipant,
		},
		{
			name:         "non-positive amount rejected",
			amount:       0,
			method:       MethodEqual,
			participants: []ParticipantInput{{UserID: 1}},
			wantErr:      ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpense(tt.amount, tt.method, tt.participants)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateExpense returned error: %v", err)
				}
				return
			}

			switch want := tt.wantErr.(type) {
			case *PercentageMismatchError:
				var got *PercentageMismatchError
				if !errors.As(err, &got) {
					t.Errorf("error = %v, want PercentageMismatchError", err)
				}
			case *CustomAmountMismatchError:
				var got *CustomAmountMismatchError
				if !errors.As(err, &got) {
					t.Errorf("error = %v, want CustomAmountMismatchError", err)
				}
			default:
				if !errors.Is(err, want) {
					t.Errorf("error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestDetailRoundTrip(t *testing.T) {
	details := []Detail{
		EqualDetail{Count: 4},
		PercentageDetail{Percentage: 12.5},
		SharesDetail{Weight: 2, TotalWeight: 7},
		CustomDetail{Amount: 19.99},
	}

	for _, d := range details {
		raw, err := EncodeDetail(d)
		if err != nil {
			t.Fatalf("EncodeDetail(%T): %v", d, err)
		}
		decoded, err := DecodeDetail(raw)
		if err != nil {
			t.Fatalf("DecodeDetail(%T): %v", d, err)
		}
		if decoded != d {
			t.Errorf("round trip: got %+v, want %+v", decoded, d)
		}
	}
}

func TestDecodeDetailUnknownMethod(t *testing.T) {
	if _, err := DecodeDetail([]byte(`{"method":"MYSTERY","data":{}}`)); err == nil {
		t.Fatal("expected error for unknown method")
	}
}
