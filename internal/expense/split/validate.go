package split

// ValidateExpense is the commit-time guard: it re-derives the
// method-specific sum checks from the expense's current amount, method and
// participant inputs rather than trusting previously materialized shares,
// which may be stale after a partial edit. It also rejects duplicate
// participant identities. The payer is allowed to appear among the
// participants, and equally allowed not to.
func ValidateExpense(amount float64, method Method, participants []ParticipantInput) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}
	if err := checkDuplicates(participants); err != nil {
		return err
	}

	strategy, err := NewStrategyFactory().Create(method)
	if err != nil {
		return err
	}
	return strategy.Validate(amount, participants)
}
