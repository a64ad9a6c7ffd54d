package split

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense equally among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Method returns the split method identifier
func (s *EqualStrategy) Method() Method {
	return MethodEqual
}

// Validate checks if the inputs are valid for an equal split. Equal splits
// carry no per-participant values, so only the shared constraints apply.
func (s *EqualStrategy) Validate(amount float64, participants []ParticipantInput) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Compute divides the amount evenly among all participants. Every
// participant gets the identical divided value; remainder cents are not
// redistributed, so a three-way split of 100.00 yields 33.33 each
// (sum 99.99). Rounding differently per participant would break the
// equal-value invariant visible to users.
func (s *EqualStrategy) Compute(amount float64, participants []ParticipantInput) ([]ParticipantShare, error) {
	if err := s.Validate(amount, participants); err != nil {
		return nil, err
	}

	count := len(participants)
	perPerson := roundCents(amount / float64(count))

	shares := make([]ParticipantShare, count)
	for i, p := range participants {
		shares[i] = ParticipantShare{
			UserID: p.UserID,
			Share:  perPerson,
			Detail: EqualDetail{Count: count},
		}
	}

	return shares, nil
}
