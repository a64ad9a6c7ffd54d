package split

import (
	"errors"
	"fmt"
	"math"
)

// Method identifies how an expense amount is divided among participants.
type Method string

const (
	MethodEqual      Method = "EQUAL"
	MethodPercentage Method = "PERCENTAGE"
	MethodShares     Method = "SHARES"
	MethodCustom     Method = "CUSTOM"
)

// ParticipantInput represents one participant in a split, with the
// method-specific raw value where the method requires one.
type ParticipantInput struct {
	UserID      int64    `json:"user_id"`
	Percentage  *float64 `json:"percentage,omitempty"`   // For PERCENTAGE split
	ShareWeight *float64 `json:"share_weight,omitempty"` // For SHARES split
	Amount      *float64 `json:"amount,omitempty"`       // For CUSTOM split
}

// ParticipantShare is the computed result for a single participant: the
// materialized monetary share plus the method-specific detail that produced it.
type ParticipantShare struct {
	UserID int64   `json:"user_id"`
	Share  float64 `json:"share"`
	Detail Detail  `json:"detail"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Method returns the method identifier for this strategy
	Method() Method

	// Validate checks the method-specific consistency constraints.
	// Sums are checked unrounded so rounding error never compounds
	// into a false rejection.
	Validate(amount float64, participants []ParticipantInput) error

	// Compute materializes every participant's share, rounded to cents
	Compute(amount float64, participants []ParticipantInput) ([]ParticipantShare, error)
}

// Factory creates split strategies based on the requested method
type Factory struct{}

// NewStrategyFactory creates a new factory instance
func NewStrategyFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the method. Every method
// is handled explicitly; an unknown method fails here rather than falling
// through to some default split.
func (f *Factory) Create(method Method) (Strategy, error) {
	switch method {
	case MethodEqual:
		return &EqualStrategy{}, nil
	case MethodPercentage:
		return &PercentageStrategy{}, nil
	case MethodShares:
		return &SharesStrategy{}, nil
	case MethodCustom:
		return &CustomStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split method: %s", method)
	}
}

// CreateFromString creates a strategy from a string method (useful for API requests)
func (f *Factory) CreateFromString(method string) (Strategy, error) {
	return f.Create(Method(method))
}

// ComputeShares validates the inputs and materializes every participant's
// share under the given method. It is a pure function: errors are returned
// for the caller to render, and nothing is mutated.
func ComputeShares(amount float64, method Method, participants []ParticipantInput) ([]ParticipantShare, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(participants) == 0 {
		return nil, ErrEmptyParticipants
	}
	if err := checkDuplicates(participants); err != nil {
		return nil, err
	}

	strategy, err := NewStrategyFactory().Create(method)
	if err != nil {
		return nil, err
	}
	return strategy.Compute(amount, participants)
}

var (
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrEmptyParticipants    = errors.New("at least one participant is required")
	ErrDuplicateParticipant = errors.New("the same participant appears more than once")
	ErrInvalidShareTotal    = errors.New("share weights must sum to more than zero")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrMissingShareWeight   = errors.New("share weight required for all participants")
	ErrMissingCustomAmount  = errors.New("custom amount required for all participants")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrNegativeShare        = errors.New("participant amounts cannot be negative")
)

// PercentageMismatchError reports percentages that do not sum to 100
// within the 0.1 tolerance.
type PercentageMismatchError struct {
	Actual float64
}

func (e *PercentageMismatchError) Error() string {
	return fmt.Sprintf("total percentage (%.1f%%) must equal 100%%", e.Actual)
}

// CustomAmountMismatchError reports custom amounts that do not sum to the
// expense total within the 0.01 tolerance.
type CustomAmountMismatchError struct {
	Actual   float64
	Expected float64
}

func (e *CustomAmountMismatchError) Error() string {
	return fmt.Sprintf("total amount (%.2f) must equal expense amount (%.2f)", e.Actual, e.Expected)
}

// Tolerances bound how far the unrounded sums may drift from their targets
// before an expense is rejected.
const (
	percentageTolerance = 0.1
	customTolerance     = 0.01
)

// roundCents rounds to 2 decimal places, half away from zero, matching
// currency conventions.
func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}

// checkDuplicates rejects participant sets containing the same identity twice
func checkDuplicates(participants []ParticipantInput) error {
	seen := make(map[int64]bool, len(participants))
	for _, p := range participants {
		if seen[p.UserID] {
			return ErrDuplicateParticipant
		}
		seen[p.UserID] = true
	}
	return nil
}
