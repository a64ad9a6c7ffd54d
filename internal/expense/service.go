package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lmezg/triptab/internal/expense/split"
	"github.com/lmezg/triptab/internal/notification"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrShareNotFound   = errors.New("share not found")
	ErrNotPayer        = errors.New("only the payer can modify this expense")
)

// BalanceInvalidator drops cached balances for a trip after its ledger
// changes. The balance package's cache satisfies it.
type BalanceInvalidator interface {
	InvalidateTrip(ctx context.Context, tripID int64)
}

// Service handles expense business logic
type Service struct {
	repo        *Repository
	invalidator BalanceInvalidator
	notifier    *notification.Service
}

// NewService creates a new expense service with dependencies injected.
// invalidator and notifier may be nil in tests.
func NewService(repo *Repository, invalidator BalanceInvalidator, notifier *notification.Service) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		notifier:    notifier,
	}
}

// CreateExpense validates the request, materializes every participant's
// share under the requested split method, and persists expense and shares
// atomically.
func (s *Service) CreateExpense(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*ExpenseWithShares, error) {
	inputs := make([]split.ParticipantInput, len(req.Participants))
	for i, p := range req.Participants {
		inputs[i] = p.ToSplitInput()
	}

	method := split.Method(req.SplitMethod)

	// Commit-time guard: re-derive the method-specific checks from the raw
	// request fields before anything touches the database.
	if err := split.ValidateExpense(req.Amount, method, inputs); err != nil {
		return nil, err
	}

	shares, err := split.ComputeShares(req.Amount, method, inputs)
	if err != nil {
		return nil, err
	}

	if req.CurrencyCode == "" {
		req.CurrencyCode = "USD"
	}

	expense, err := s.repo.CreateExpenseWithShares(ctx, payerID, req, shares)
	if err != nil {
		return nil, err
	}

	s.invalidateTrip(ctx, expense.TripID)
	s.notifyParticipants(ctx, expense, shares, payerID)

	persisted, err := s.repo.GetSharesByExpenseID(ctx, expense.ID)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithShares{Expense: expense, Shares: persisted}, nil
}

// UpdateExpense applies the patch and recomputes every share from scratch.
// Amount, method and participant changes all funnel through the same full
// recomputation; stale shares are never kept.
func (s *Service) UpdateExpense(ctx context.Context, id, userID int64, req *UpdateExpenseRequest) (*ExpenseWithShares, error) {
	existing, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrExpenseNotFound
	}
	if existing.PayerID != userID {
		return nil, ErrNotPayer
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.SplitMethod != nil {
		existing.SplitMethod = split.Method(*req.SplitMethod)
	}

	// Participant inputs come from the request when supplied, otherwise
	// they are re-derived from the currently persisted shares.
	var inputs []split.ParticipantInput
	if len(req.Participants) > 0 {
		inputs = make([]split.ParticipantInput, len(req.Participants))
		for i, p := range req.Participants {
			inputs[i] = p.ToSplitInput()
		}
	} else {
		current, err := s.repo.GetSharesByExpenseID(ctx, id)
		if err != nil {
			return nil, err
		}
		inputs = make([]split.ParticipantInput, len(current))
		for i, sh := range current {
			inputs[i] = participantInputFromShare(sh)
		}
	}

	if err := split.ValidateExpense(existing.Amount, existing.SplitMethod, inputs); err != nil {
		return nil, err
	}

	shares, err := split.ComputeShares(existing.Amount, existing.SplitMethod, inputs)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateExpenseWithShares(ctx, existing, shares)
	if err != nil {
		return nil, err
	}

	s.invalidateTrip(ctx, updated.TripID)

	persisted, err := s.repo.GetSharesByExpenseID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithShares{Expense: updated, Shares: persisted}, nil
}

// participantInputFromShare reconstructs the raw input value from a
// persisted share's split detail.
func participantInputFromShare(sh *Share) split.ParticipantInput {
	input := split.ParticipantInput{UserID: sh.UserID}
	switch d := sh.Detail.Detail.(type) {
	case split.PercentageDetail:
		pct := d.Percentage
		input.Percentage = &pct
	case split.SharesDetail:
		w := d.Weight
		input.ShareWeight = &w
	case split.CustomDetail:
		amt := d.Amount
		input.Amount = &amt
	}
	return input
}

// GetExpenseByID retrieves an expense with its shares
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*ExpenseWithShares, error) {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	shares, err := s.repo.GetSharesByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithShares{Expense: expense, Shares: shares}, nil
}

// ListExpensesByTripID retrieves expenses for a trip
func (s *Service) ListExpensesByTripID(ctx context.Context, tripID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByTripID(ctx, tripID, perPage, offset)
}

// MarkShareSettled allows the payer to mark a participant's share settled
func (s *Service) MarkShareSettled(ctx context.Context, shareID, userID int64) (*Share, error) {
	share, err := s.repo.GetShareByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrShareNotFound
	}

	expense, err := s.repo.GetExpenseByID(ctx, share.ExpenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	if expense.PayerID != userID {
		return nil, ErrNotPayer
	}

	updated, err := s.repo.SetShareSettled(ctx, shareID, true)
	if err != nil {
		return nil, err
	}

	s.invalidateTrip(ctx, expense.TripID)
	return updated, nil
}

// DeleteExpense deletes an expense. Removal simply drops the expense from
// aggregation; there is no cascading debt effect.
func (s *Service) DeleteExpense(ctx context.Context, id, userID int64) error {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}
	if expense.PayerID != userID {
		return ErrNotPayer
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.invalidateTrip(ctx, expense.TripID)
	return nil
}

func (s *Service) invalidateTrip(ctx context.Context, tripID int64) {
	if s.invalidator != nil {
		s.invalidator.InvalidateTrip(ctx, tripID)
	}
}

// notifyParticipants records an expense-added notification for everyone
// who owes a share. Notification failures are logged, never fatal.
func (s *Service) notifyParticipants(ctx context.Context, expense *Expense, shares []split.ParticipantShare, payerID int64) {
	if s.notifier == nil {
		return
	}

	entityType := "EXPENSE"
	for _, share := range shares {
		if share.UserID == payerID {
			continue
		}
		message := fmt.Sprintf("New expense %q: your share is %.2f %s",
			expense.Description, share.Share, expense.CurrencyCode)
		if _, err := s.notifier.Create(ctx, share.UserID, message, &entityType, &expense.ID); err != nil {
			slog.Warn("failed to create expense notification",
				"expense_id", expense.ID, "user_id", share.UserID, "error", err)
		}
	}
}
