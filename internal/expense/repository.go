package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lmezg/triptab/internal/expense/split"
)

// Repository handles expense and share data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpenseWithShares inserts an expense and all of its shares in one
// transaction. Either everything is persisted or nothing is; a failure
// never leaves a partial share set behind.
func (r *Repository) CreateExpenseWithShares(ctx context.Context, payerID int64, req *CreateExpenseRequest, shares []split.ParticipantShare) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (trip_id, payer_id, description, amount, currency_code, split_method)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, trip_id, payer_id, description, amount, currency_code, split_method, created_at, updated_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query,
		req.TripID,
		payerID,
		req.Description,
		req.Amount,
		req.CurrencyCode,
		req.SplitMethod,
	).Scan(
		&expense.ID,
		&expense.TripID,
		&expense.PayerID,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.SplitMethod,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense.ID, shares); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return expense, nil
}

// UpdateExpenseWithShares updates an expense and atomically replaces every
// share with the freshly computed set.
func (r *Repository) UpdateExpenseWithShares(ctx context.Context, expense *Expense, shares []split.ParticipantShare) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE expenses
		SET description = $1, amount = $2, split_method = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, trip_id, payer_id, description, amount, currency_code, split_method, created_at, updated_at
	`

	updated := &Expense{}
	err = tx.QueryRowContext(ctx, query,
		expense.Description,
		expense.Amount,
		expense.SplitMethod,
		expense.ID,
	).Scan(
		&updated.ID,
		&updated.TripID,
		&updated.PayerID,
		&updated.Description,
		&updated.Amount,
		&updated.CurrencyCode,
		&updated.SplitMethod,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM participant_shares WHERE expense_id = $1`, expense.ID); err != nil {
		return nil, fmt.Errorf("failed to clear shares: %w", err)
	}

	if err := insertShares(ctx, tx, expense.ID, shares); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense update: %w", err)
	}

	return updated, nil
}

// insertShares writes the materialized shares for an expense inside tx
func insertShares(ctx context.Context, tx *sql.Tx, expenseID int64, shares []split.ParticipantShare) error {
	query := `
		INSERT INTO participant_shares (expense_id, user_id, share, split_detail, settled)
		VALUES ($1, $2, $3, $4, FALSE)
	`

	for _, s := range shares {
		detail := SplitDetail{Detail: s.Detail}
		if _, err := tx.ExecContext(ctx, query, expenseID, s.UserID, s.Share, detail); err != nil {
			return fmt.Errorf("failed to create share for user %d: %w", s.UserID, err)
		}
	}
	return nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.trip_id, e.payer_id, e.description, e.amount, e.currency_code, e.split_method, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.TripID,
		&expense.PayerID,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.SplitMethod,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetSharesByExpenseID retrieves all shares for an expense
func (r *Repository) GetSharesByExpenseID(ctx context.Context, expenseID int64) ([]*Share, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.share, s.split_detail, s.settled, u.username
		FROM participant_shares s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []*Share
	for rows.Next() {
		share := &Share{}
		if err := rows.Scan(
			&share.ID,
			&share.ExpenseID,
			&share.UserID,
			&share.Share,
			&share.Detail,
			&share.Settled,
			&share.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}

	return shares, rows.Err()
}

// GetShareByID retrieves a single share
func (r *Repository) GetShareByID(ctx context.Context, id int64) (*Share, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.share, s.split_detail, s.settled, u.username
		FROM participant_shares s
		JOIN users u ON s.user_id = u.id
		WHERE s.id = $1
	`

	share := &Share{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&share.ID,
		&share.ExpenseID,
		&share.UserID,
		&share.Share,
		&share.Detail,
		&share.Settled,
		&share.Username,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get share: %w", err)
	}

	return share, nil
}

// SetShareSettled flips the settled flag on a share
func (r *Repository) SetShareSettled(ctx context.Context, id int64, settled bool) (*Share, error) {
	query := `
		UPDATE participant_shares
		SET settled = $1
		WHERE id = $2
		RETURNING id, expense_id, user_id, share, split_detail, settled
	`

	share := &Share{}
	err := r.db.QueryRowContext(ctx, query, settled, id).Scan(
		&share.ID,
		&share.ExpenseID,
		&share.UserID,
		&share.Share,
		&share.Detail,
		&share.Settled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update share: %w", err)
	}

	return share, nil
}

// ListExpensesByTripID retrieves expenses for a trip with pagination
func (r *Repository) ListExpensesByTripID(ctx context.Context, tripID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE trip_id = $1`, tripID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.trip_id, e.payer_id, e.description, e.amount, e.currency_code, e.split_method, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.trip_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, tripID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.TripID,
			&expense.PayerID,
			&expense.Description,
			&expense.Amount,
			&expense.CurrencyCode,
			&expense.SplitMethod,
			&expense.CreatedAt,
			&expense.UpdatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, rows.Err()
}

// DeleteExpense removes an expense; shares go with it via ON DELETE CASCADE
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrExpenseNotFound
	}

	return nil
}
