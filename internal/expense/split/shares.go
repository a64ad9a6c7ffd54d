package split

// =============================================================================
// SHARES SPLIT STRATEGY
// Divides the expense proportionally to per-participant share weights
// =============================================================================

// SharesStrategy implements the Strategy interface for weight-based splits
type SharesStrategy struct{}

// Method returns the split method identifier
func (s *SharesStrategy) Method() Method {
	return MethodShares
}

// Validate checks that every participant carries a non-negative weight and
// that the weights sum to more than zero.
func (s *SharesStrategy) Validate(amount float64, participants []ParticipantInput) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	var total float64
	for _, p := range participants {
		if p.ShareWeight == nil {
			return ErrMissingShareWeight
		}
		if *p.ShareWeight < 0 {
			return ErrNegativeShare
		}
		total += *p.ShareWeight
	}

	if total <= 0 {
		return ErrInvalidShareTotal
	}

	return nil
}

// Compute assigns each participant amount x (weight / totalWeight), rounded to cents
func (s *SharesStrategy) Compute(amount float64, participants []ParticipantInput) ([]ParticipantShare, error) {
	if err := s.Validate(amount, participants); err != nil {
		return nil, err
	}

	var total float64
	for _, p := range participants {
		total += *p.ShareWeight
	}

	shares := make([]ParticipantShare, len(participants))
	for i, p := range participants {
		shares[i] = ParticipantShare{
			UserID: p.UserID,
			Share:  roundCents(amount * (*p.ShareWeight) / total),
			Detail: SharesDetail{Weight: *p.ShareWeight, TotalWeight: total},
		}
	}

	return shares, nil
}
