package split

import "math"

// =============================================================================
// CUSTOM SPLIT STRATEGY
// Each participant owes a specific custom amount (must sum to the total)
// =============================================================================

// CustomStrategy implements the Strategy interface for custom amount splits
type CustomStrategy struct{}

// Method returns the split method identifier
func (s *CustomStrategy) Method() Method {
	return MethodCustom
}

// Validate checks that every participant carries a non-negative amount and
// that the unrounded sum is within 0.01 of the expense total.
func (s *CustomStrategy) Validate(amount float64, participants []ParticipantInput) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	var total float64
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingCustomAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeShare
		}
		total += *p.Amount
	}

	if math.Abs(total-amount) > customTolerance {
		return &CustomAmountMismatchError{Actual: total, Expected: amount}
	}

	return nil
}

// Compute uses each participant's supplied amount as their share
func (s *CustomStrategy) Compute(amount float64, participants []ParticipantInput) ([]ParticipantShare, error) {
	if err := s.Validate(amount, participants); err != nil {
		return nil, err
	}

	shares := make([]ParticipantShare, len(participants))
	for i, p := range participants {
		shares[i] = ParticipantShare{
			UserID: p.UserID,
			Share:  roundCents(*p.Amount),
			Detail: CustomDetail{Amount: *p.Amount},
		}
	}

	return shares, nil
}
