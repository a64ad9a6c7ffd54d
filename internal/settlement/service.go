package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/lmezg/triptab/internal/balance"
	"github.com/lmezg/triptab/internal/notification"
	"github.com/lmezg/triptab/internal/settlement/simplify"
)

// Common errors
var (
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrCannotSettleSelf    = errors.New("cannot create settlement with yourself")
	ErrInvalidAmount       = errors.New("settlement amount must be greater than zero")
	ErrNotParticipant      = errors.New("only the payer or receiver can modify this settlement")
	ErrInvalidStatusChange = errors.New("invalid status change")
	ErrAlreadySettled      = errors.New("already settled up - all balances are zero")
)

// BalanceInvalidator drops cached balances for a trip after its ledger changes
type BalanceInvalidator interface {
	InvalidateTrip(ctx context.Context, tripID int64)
}

// Service handles settlement business logic
type Service struct {
	repo        *Repository
	aggregator  balance.Aggregator
	invalidator BalanceInvalidator
	notifier    *notification.Service
}

// NewService creates a new settlement service with dependencies injected.
// invalidator and notifier may be nil in tests.
func NewService(repo *Repository, aggregator balance.Aggregator, invalidator BalanceInvalidator, notifier *notification.Service) *Service {
	return &Service{
		repo:        repo,
		aggregator:  aggregator,
		invalidator: invalidator,
		notifier:    notifier,
	}
}

// CreateSettlement records a manual payment from the initiator to another user
func (s *Service) CreateSettlement(ctx context.Context, initiatorID int64, req *CreateSettlementRequest) (*Settlement, error) {
	if initiatorID == req.ToUserID {
		return nil, ErrCannotSettleSelf
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	settlement, err := s.repo.Create(ctx, req.TripID, initiatorID, req.ToUserID,
		math.Round(req.Amount*100)/100, "USD", req.Method, nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, req.ToUserID, fmt.Sprintf("A payment of %.2f %s was recorded to you", settlement.Amount, settlement.CurrencyCode), settlement.ID)
	return settlement, nil
}

// ProposeSettlements runs the debt simplifier over the trip's current net
// balances and persists the resulting transfers as one batch of pending
// settlements. The plan zeroes every balance with at most n-1 transfers.
func (s *Service) ProposeSettlements(ctx context.Context, tripID int64) (*ProposalResponse, error) {
	userBalances, err := s.aggregator.TripBalances(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances := make([]simplify.Balance, len(userBalances))
	for i, b := range userBalances {
		balances[i] = simplify.Balance{UserID: b.UserID, Amount: b.Amount}
	}

	plan := simplify.Simplify(balances)
	if math.Abs(plan.Imbalance) > simplify.Epsilon {
		// Aggregation bug upstream; the plan is still the best we can do
		slog.Warn("trip balances do not sum to zero",
			"trip_id", tripID, "imbalance", plan.Imbalance)
	}

	if len(plan.Transfers) == 0 {
		return nil, ErrAlreadySettled
	}

	batchID := uuid.NewString()
	settlements := make([]*SettlementResponse, 0, len(plan.Transfers))
	for _, tr := range plan.Transfers {
		settlement, err := s.repo.Create(ctx, tripID, tr.FromUserID, tr.ToUserID, tr.Amount, "USD", "", &batchID)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, settlement.ToResponse())

		s.notify(ctx, tr.FromUserID,
			fmt.Sprintf("Settle up: pay %.2f %s to clear your trip balance", tr.Amount, settlement.CurrencyCode),
			settlement.ID)
	}

	return &ProposalResponse{
		BatchID:     batchID,
		Settlements: settlements,
		Transfers:   plan.Transfers,
		Imbalance:   plan.Imbalance,
	}, nil
}

// GetByID retrieves a settlement by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// ListByTripID retrieves all settlements in a trip
func (s *Service) ListByTripID(ctx context.Context, tripID int64, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByTripID(ctx, tripID, perPage, offset)
}

// ListByUserID retrieves all settlements involving a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// MarkCompleted moves a pending settlement to COMPLETED. Either party can
// confirm; completed settlements start counting toward balances.
func (s *Service) MarkCompleted(ctx context.Context, id, userID int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	if settlement.FromUserID != userID && settlement.ToUserID != userID {
		return nil, ErrNotParticipant
	}
	if settlement.Status != StatusPending {
		return nil, ErrInvalidStatusChange
	}

	completed, err := s.repo.MarkCompleted(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateTrip(ctx, completed.TripID)

	other := completed.FromUserID
	if userID == completed.FromUserID {
		other = completed.ToUserID
	}
	s.notify(ctx, other, fmt.Sprintf("Settlement of %.2f %s was completed", completed.Amount, completed.CurrencyCode), completed.ID)

	return completed, nil
}

// UpdateMethod changes how a pending settlement will be paid
func (s *Service) UpdateMethod(ctx context.Context, id, userID int64, method string) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	if settlement.FromUserID != userID && settlement.ToUserID != userID {
		return nil, ErrNotParticipant
	}
	if settlement.Status != StatusPending {
		return nil, ErrInvalidStatusChange
	}

	return s.repo.UpdateMethod(ctx, id, method)
}

// Delete cancels a settlement. Only pending settlements can be cancelled;
// a completed one is part of the ledger.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if settlement == nil {
		return ErrSettlementNotFound
	}
	if settlement.FromUserID != userID && settlement.ToUserID != userID {
		return ErrNotParticipant
	}
	if settlement.Status != StatusPending {
		return ErrInvalidStatusChange
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) invalidateTrip(ctx context.Context, tripID int64) {
	if s.invalidator != nil {
		s.invalidator.InvalidateTrip(ctx, tripID)
	}
}

// notify records a settlement notification; failures are logged, never fatal
func (s *Service) notify(ctx context.Context, recipientID int64, message string, settlementID int64) {
	if s.notifier == nil {
		return
	}
	entityType := "SETTLEMENT"
	if _, err := s.notifier.Create(ctx, recipientID, message, &entityType, &settlementID); err != nil {
		slog.Warn("failed to create settlement notification",
			"settlement_id", settlementID, "user_id", recipientID, "error", err)
	}
}
