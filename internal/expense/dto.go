package expense

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	TripID       int64          `json:"trip_id" validate:"required"`
	Description  string         `json:"description" validate:"required,min=1,max=255"`
	Amount       float64        `json:"amount" validate:"required,gt=0"`
	CurrencyCode string         `json:"currency_code,omitempty"`
	SplitMethod  string         `json:"split_method" validate:"required,oneof=EQUAL PERCENTAGE SHARES CUSTOM"`
	Participants []*Participant `json:"participants" validate:"required,min=1"`
}

// UpdateExpenseRequest represents the request to update an expense.
// Amount, split method or participant changes force a full recomputation
// of every share.
type UpdateExpenseRequest struct {
	Description  *string        `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	Amount       *float64       `json:"amount,omitempty" validate:"omitempty,gt=0"`
	SplitMethod  *string        `json:"split_method,omitempty" validate:"omitempty,oneof=EQUAL PERCENTAGE SHARES CUSTOM"`
	Participants []*Participant `json:"participants,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64            `json:"id"`
	TripID        int64            `json:"trip_id"`
	PayerID       int64            `json:"payer_id"`
	PayerUsername string           `json:"payer_username,omitempty"`
	Description   string           `json:"description"`
	Amount        float64          `json:"amount"`
	CurrencyCode  string           `json:"currency_code"`
	SplitMethod   string           `json:"split_method"`
	CreatedAt     string           `json:"created_at"`
	Shares        []*ShareResponse `json:"shares,omitempty"`
}

// ShareResponse represents the response for a participant share
type ShareResponse struct {
	ID          int64       `json:"id"`
	ExpenseID   int64       `json:"expense_id"`
	UserID      int64       `json:"user_id"`
	Username    string      `json:"username,omitempty"`
	Share       float64     `json:"share"`
	SplitDetail SplitDetail `json:"split_detail"`
	Settled     bool        `json:"settled"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		TripID:        e.TripID,
		PayerID:       e.PayerID,
		PayerUsername: e.PayerUsername,
		Description:   e.Description,
		Amount:        e.Amount,
		CurrencyCode:  e.CurrencyCode,
		SplitMethod:   string(e.SplitMethod),
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Share model to a ShareResponse DTO
func (s *Share) ToResponse() *ShareResponse {
	return &ShareResponse{
		ID:          s.ID,
		ExpenseID:   s.ExpenseID,
		UserID:      s.UserID,
		Username:    s.Username,
		Share:       s.Share,
		SplitDetail: s.Detail,
		Settled:     s.Settled,
	}
}
