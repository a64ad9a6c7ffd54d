package balance

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository computes net balances straight from the ledger tables
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new balance repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// TripBalances sums the signed flows for every user in a trip's scope:
// unsettled shares count against the participant and in favor of the
// payer, completed settlements move the debtor back toward zero. Shares a
// payer owes on their own expense cancel out and are excluded up front.
func (r *Repository) TripBalances(ctx context.Context, tripID int64) ([]UserBalance, error) {
	query := `
		WITH flows AS (
			SELECT ps.user_id AS user_id, -SUM(ps.share) AS amount
			FROM participant_shares ps
			JOIN expenses e ON e.id = ps.expense_id
			WHERE e.trip_id = $1 AND NOT ps.settled AND ps.user_id <> e.payer_id
			GROUP BY ps.user_id

			UNION ALL

			SELECT e.payer_id, SUM(ps.share)
			FROM participant_shares ps
			JOIN expenses e ON e.id = ps.expense_id
			WHERE e.trip_id = $1 AND NOT ps.settled AND ps.user_id <> e.payer_id
			GROUP BY e.payer_id

			UNION ALL

			SELECT s.from_user_id, SUM(s.amount)
			FROM settlements s
			WHERE s.trip_id = $1 AND s.status = 'COMPLETED'
			GROUP BY s.from_user_id

			UNION ALL

			SELECT s.to_user_id, -SUM(s.amount)
			FROM settlements s
			WHERE s.trip_id = $1 AND s.status = 'COMPLETED'
			GROUP BY s.to_user_id
		)
		SELECT f.user_id, u.username, ROUND(SUM(f.amount)::numeric, 2)
		FROM flows f
		JOIN users u ON f.user_id = u.id
		GROUP BY f.user_id, u.username
		ORDER BY f.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}
	defer rows.Close()

	var balances []UserBalance
	for rows.Next() {
		var b UserBalance
		if err := rows.Scan(&b.UserID, &b.Username, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}
