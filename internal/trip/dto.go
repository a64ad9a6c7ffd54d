package trip

// CreateTripRequest represents the request to create a new trip
type CreateTripRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Destination *string `json:"destination,omitempty"`
	StartsOn    *string `json:"starts_on,omitempty"` // YYYY-MM-DD
	EndsOn      *string `json:"ends_on,omitempty"`   // YYYY-MM-DD
}

// UpdateTripRequest represents the request to update a trip
type UpdateTripRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Destination *string `json:"destination,omitempty"`
	StartsOn    *string `json:"starts_on,omitempty"` // YYYY-MM-DD
	EndsOn      *string `json:"ends_on,omitempty"`   // YYYY-MM-DD
}

// AddMemberRequest represents the request to add a member to a trip
type AddMemberRequest struct {
	UserID int64      `json:"user_id" validate:"required"`
	Role   MemberRole `json:"role"`
}

// UpdateMemberRequest represents the request to update a member's status or role
type UpdateMemberRequest struct {
	Status *MemberStatus `json:"status,omitempty"`
	Role   *MemberRole   `json:"role,omitempty"`
}

// TripResponse represents the response for a trip
type TripResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Destination *string           `json:"destination,omitempty"`
	StartsOn    string            `json:"starts_on,omitempty"`
	EndsOn      string            `json:"ends_on,omitempty"`
	CreatedAt   string            `json:"created_at"`
	Members     []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a member in a trip response
type MemberResponse struct {
	ID       int64        `json:"id"`
	UserID   int64        `json:"user_id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Status   MemberStatus `json:"status"`
	Role     MemberRole   `json:"role"`
	JoinedAt string       `json:"joined_at"`
}

// ToResponse converts a Trip model to a TripResponse DTO
func (t *Trip) ToResponse() *TripResponse {
	resp := &TripResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Destination: t.Destination,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if t.StartsOn != nil {
		resp.StartsOn = t.StartsOn.Format("2006-01-02")
	}
	if t.EndsOn != nil {
		resp.EndsOn = t.EndsOn.Format("2006-01-02")
	}
	return resp
}

// ToResponse converts a TripMember model to a MemberResponse DTO
func (m *TripMember) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		Status:   m.Status,
		Role:     m.Role,
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
