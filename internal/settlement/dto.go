package settlement

import "github.com/lmezg/triptab/internal/settlement/simplify"

// CreateSettlementRequest records a manual payment from the authenticated
// user to another trip member.
type CreateSettlementRequest struct {
	TripID   int64   `json:"trip_id" validate:"required"`
	ToUserID int64   `json:"to_user_id" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Method   string  `json:"method,omitempty"`
}

// UpdateMethodRequest changes how a pending settlement will be paid
type UpdateMethodRequest struct {
	Method string `json:"method" validate:"required,min=1,max=50"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID           int64   `json:"id"`
	TripID       int64   `json:"trip_id"`
	FromUserID   int64   `json:"from_user_id"`
	FromUsername string  `json:"from_username,omitempty"`
	ToUserID     int64   `json:"to_user_id"`
	ToUsername   string  `json:"to_username,omitempty"`
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
	Method       string  `json:"method,omitempty"`
	Status       Status  `json:"status"`
	BatchID      *string `json:"batch_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
	CompletedAt  string  `json:"completed_at,omitempty"`
}

// ProposalResponse is the result of a simplification run: the persisted
// pending settlements plus the plan they came from. Imbalance is nonzero
// only when the trip's ledger failed to net to zero.
type ProposalResponse struct {
	BatchID     string                `json:"batch_id"`
	Settlements []*SettlementResponse `json:"settlements"`
	Transfers   []simplify.Transfer   `json:"transfers"`
	Imbalance   float64               `json:"imbalance"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	resp := &SettlementResponse{
		ID:           s.ID,
		TripID:       s.TripID,
		FromUserID:   s.FromUserID,
		FromUsername: s.FromUsername,
		ToUserID:     s.ToUserID,
		ToUsername:   s.ToUsername,
		Amount:       s.Amount,
		CurrencyCode: s.CurrencyCode,
		Method:       s.Method,
		Status:       s.Status,
		BatchID:      s.BatchID,
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if s.CompletedAt != nil {
		resp.CompletedAt = s.CompletedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}
