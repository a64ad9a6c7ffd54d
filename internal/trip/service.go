package trip

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lmezg/triptab/internal/notification"
)

// Common errors
var (
	ErrTripNotFound        = errors.New("trip not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this trip")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
)

// Service handles trip business logic
type Service struct {
	repo     *Repository
	notifier *notification.Service
}

// NewService creates a new trip service
func NewService(repo *Repository, notifier *notification.Service) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create creates a new trip and adds the creator as admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateTripRequest) (*Trip, error) {
	// Create the trip
	trip, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	// Add creator as admin
	_, err = s.repo.AddMember(ctx, trip.ID, &AddMemberRequest{
		UserID: creatorID,
		Role:   MemberRoleAdmin,
	})
	if err != nil {
		// TODO: Should rollback trip creation in a transaction
		return nil, err
	}

	// Update the admin's status to JOINED immediately
	_, err = s.repo.UpdateMember(ctx, trip.ID, creatorID, &UpdateMemberRequest{
		Status: statusPtr(MemberStatusJoined),
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// GetByID retrieves a trip by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}
	return trip, nil
}

// GetByIDWithMembers retrieves a trip with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Trip, []*TripMember, error) {
	trip, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return trip, members, nil
}

// ListByUserID retrieves all trips for a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Trip, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies an existing trip
func (s *Service) Update(ctx context.Context, id int64, req *UpdateTripRequest) (*Trip, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTripNotFound
	}

	return s.repo.Update(ctx, id, req)
}

// Delete removes a trip
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AddMember adds a user to a trip
func (s *Service) AddMember(ctx context.Context, tripID int64, req *AddMemberRequest) (*TripMember, error) {
	// Check if trip exists
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	// Check if user is already a member
	existing, err := s.repo.GetMember(ctx, tripID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	member, err := s.repo.AddMember(ctx, tripID, req)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if _, err := s.notifier.NotifyTripInvite(ctx, req.UserID, trip.Name, trip.ID); err != nil {
			slog.Warn("failed to create trip invite notification", "trip_id", trip.ID, "user_id", req.UserID, "error", err)
		}
	}

	return member, nil
}

// GetMembers retrieves all members of a trip
func (s *Service) GetMembers(ctx context.Context, tripID int64) ([]*TripMember, error) {
	// Check if trip exists
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	return s.repo.GetMembers(ctx, tripID)
}

// UpdateMember updates a member's status or role
func (s *Service) UpdateMember(ctx context.Context, tripID, userID int64, req *UpdateMemberRequest) (*TripMember, error) {
	member, err := s.repo.UpdateMember(ctx, tripID, userID, req)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// RemoveMember removes a user from a trip
func (s *Service) RemoveMember(ctx context.Context, tripID, userID int64) error {
	return s.repo.RemoveMember(ctx, tripID, userID)
}

// AcceptInvitation allows a user to accept their trip invitation
func (s *Service) AcceptInvitation(ctx context.Context, tripID, userID int64) (*TripMember, error) {
	// Check if user is a member with INVITED status
	member, err := s.repo.GetMember(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	if member.Status != MemberStatusInvited {
		return member, nil // Already joined
	}

	return s.repo.UpdateMember(ctx, tripID, userID, &UpdateMemberRequest{
		Status: statusPtr(MemberStatusJoined),
	})
}

// Helper function to get a pointer to a MemberStatus
func statusPtr(s MemberStatus) *MemberStatus {
	return &s
}
