package split

import "math"

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense based on specified percentages for each participant
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage-based splits
type PercentageStrategy struct{}

// Method returns the split method identifier
func (s *PercentageStrategy) Method() Method {
	return MethodPercentage
}

// Validate checks that every participant carries a percentage in [0, 100]
// and that the unrounded sum is within 0.1 of 100.
func (s *PercentageStrategy) Validate(amount float64, participants []ParticipantInput) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	var total float64
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if *p.Percentage < 0 || *p.Percentage > 100 {
			return ErrPercentageOutOfRange
		}
		total += *p.Percentage
	}

	if math.Abs(total-100) > percentageTolerance {
		return &PercentageMismatchError{Actual: total}
	}

	return nil
}

// Compute assigns each participant amount x (percentage / 100), rounded to cents
func (s *PercentageStrategy) Compute(amount float64, participants []ParticipantInput) ([]ParticipantShare, error) {
	if err := s.Validate(amount, participants); err != nil {
		return nil, err
	}

	shares := make([]ParticipantShare, len(participants))
	for i, p := range participants {
		shares[i] = ParticipantShare{
			UserID: p.UserID,
			Share:  roundCents(amount * (*p.Percentage) / 100),
			Detail: PercentageDetail{Percentage: *p.Percentage},
		}
	}

	return shares, nil
}
