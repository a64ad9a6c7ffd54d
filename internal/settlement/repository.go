package settlement

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new settlement into the database
func (r *Repository) Create(ctx context.Context, tripID, fromUserID, toUserID int64, amount float64, currencyCode, method string, batchID *string) (*Settlement, error) {
	query := `
		INSERT INTO settlements (trip_id, from_user_id, to_user_id, amount, currency_code, method, status, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, trip_id, from_user_id, to_user_id, amount, currency_code, method, status, batch_id, created_at, completed_at
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, tripID, fromUserID, toUserID, amount, currencyCode, method, StatusPending, batchID).Scan(
		&settlement.ID,
		&settlement.TripID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Method,
		&settlement.Status,
		&settlement.BatchID,
		&settlement.CreatedAt,
		&settlement.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return settlement, nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	query := `
		SELECT s.id, s.trip_id, s.from_user_id, s.to_user_id, s.amount, s.currency_code, s.method, s.status, s.batch_id, s.created_at, s.completed_at,
		       f.username AS from_username, t.username AS to_username
		FROM settlements s
		JOIN users f ON s.from_user_id = f.id
		JOIN users t ON s.to_user_id = t.id
		WHERE s.id = $1
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&settlement.ID,
		&settlement.TripID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Method,
		&settlement.Status,
		&settlement.BatchID,
		&settlement.CreatedAt,
		&settlement.CompletedAt,
		&settlement.FromUsername,
		&settlement.ToUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListByTripID retrieves all settlements in a trip
func (r *Repository) ListByTripID(ctx context.Context, tripID int64, limit, offset int) ([]*Settlement, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settlements WHERE trip_id = $1`, tripID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT s.id, s.trip_id, s.from_user_id, s.to_user_id, s.amount, s.currency_code, s.method, s.status, s.batch_id, s.created_at, s.completed_at,
		       f.username AS from_username, t.username AS to_username
		FROM settlements s
		JOIN users f ON s.from_user_id = f.id
		JOIN users t ON s.to_user_id = t.id
		WHERE s.trip_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, query, total, tripID, limit, offset)
}

// ListByUserID retrieves all settlements involving a user
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Settlement, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM settlements WHERE from_user_id = $1 OR to_user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT s.id, s.trip_id, s.from_user_id, s.to_user_id, s.amount, s.currency_code, s.method, s.status, s.batch_id, s.created_at, s.completed_at,
		       f.username AS from_username, t.username AS to_username
		FROM settlements s
		JOIN users f ON s.from_user_id = f.id
		JOIN users t ON s.to_user_id = t.id
		WHERE s.from_user_id = $1 OR s.to_user_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, query, total, userID, limit, offset)
}

func (r *Repository) list(ctx context.Context, query string, total int, args ...interface{}) ([]*Settlement, int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		settlement := &Settlement{}
		if err := rows.Scan(
			&settlement.ID,
			&settlement.TripID,
			&settlement.FromUserID,
			&settlement.ToUserID,
			&settlement.Amount,
			&settlement.CurrencyCode,
			&settlement.Method,
			&settlement.Status,
			&settlement.BatchID,
			&settlement.CreatedAt,
			&settlement.CompletedAt,
			&settlement.FromUsername,
			&settlement.ToUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	return settlements, total, rows.Err()
}

// MarkCompleted moves a pending settlement to COMPLETED
func (r *Repository) MarkCompleted(ctx context.Context, id int64) (*Settlement, error) {
	query := `
		UPDATE settlements
		SET status = $1, completed_at = NOW()
		WHERE id = $2
		RETURNING id, trip_id, from_user_id, to_user_id, amount, currency_code, method, status, batch_id, created_at, completed_at
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, StatusCompleted, id).Scan(
		&settlement.ID,
		&settlement.TripID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Method,
		&settlement.Status,
		&settlement.BatchID,
		&settlement.CreatedAt,
		&settlement.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete settlement: %w", err)
	}

	return settlement, nil
}

// UpdateMethod changes the payment method of a settlement
func (r *Repository) UpdateMethod(ctx context.Context, id int64, method string) (*Settlement, error) {
	query := `
		UPDATE settlements
		SET method = $1
		WHERE id = $2
		RETURNING id, trip_id, from_user_id, to_user_id, amount, currency_code, method, status, batch_id, created_at, completed_at
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, method, id).Scan(
		&settlement.ID,
		&settlement.TripID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Method,
		&settlement.Status,
		&settlement.BatchID,
		&settlement.CreatedAt,
		&settlement.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update settlement method: %w", err)
	}

	return settlement, nil
}

// Delete removes a settlement
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM settlements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrSettlementNotFound
	}

	return nil
}
