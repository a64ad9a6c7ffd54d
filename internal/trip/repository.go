package trip

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles trip data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new trip repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new trip into the database
func (r *Repository) Create(ctx context.Context, req *CreateTripRequest) (*Trip, error) {
	query := `
		INSERT INTO trips (name, description, destination, starts_on, ends_on)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, destination, starts_on, ends_on, created_at
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Description, req.Destination, req.StartsOn, req.EndsOn).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Description,
		&trip.Destination,
		&trip.StartsOn,
		&trip.EndsOn,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return trip, nil
}

// GetByID retrieves a trip by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Trip, error) {
	query := `
		SELECT id, name, description, destination, starts_on, ends_on, created_at
		FROM trips
		WHERE id = $1
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Description,
		&trip.Destination,
		&trip.StartsOn,
		&trip.EndsOn,
		&trip.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// ListByUserID retrieves all trips for a user
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Trip, int, error) {
	// Get total count
	var total int
	countQuery := `
		SELECT COUNT(DISTINCT t.id)
		FROM trips t
		JOIN trip_members tm ON t.id = tm.trip_id
		WHERE tm.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	// Get trips
	query := `
		SELECT t.id, t.name, t.description, t.destination, t.starts_on, t.ends_on, t.created_at
		FROM trips t
		JOIN trip_members tm ON t.id = tm.trip_id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		trip := &Trip{}
		if err := rows.Scan(
			&trip.ID,
			&trip.Name,
			&trip.Description,
			&trip.Destination,
			&trip.StartsOn,
			&trip.EndsOn,
			&trip.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, total, nil
}

// Update modifies an existing trip
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateTripRequest) (*Trip, error) {
	query := `
		UPDATE trips
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    destination = COALESCE($4, destination),
		    starts_on = COALESCE($5, starts_on),
		    ends_on = COALESCE($6, ends_on)
		WHERE id = $1
		RETURNING id, name, description, destination, starts_on, ends_on, created_at
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.Destination, req.StartsOn, req.EndsOn).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Description,
		&trip.Destination,
		&trip.StartsOn,
		&trip.EndsOn,
		&trip.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	return trip, nil
}

// Delete removes a trip from the database
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM trips WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("trip not found")
	}

	return nil
}

// AddMember adds a user to a trip
func (r *Repository) AddMember(ctx context.Context, tripID int64, req *AddMemberRequest) (*TripMember, error) {
	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}

	query := `
		INSERT INTO trip_members (trip_id, user_id, status, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, trip_id, user_id, status, role, joined_at
	`

	member := &TripMember{}
	err := r.db.QueryRowContext(ctx, query, tripID, req.UserID, MemberStatusInvited, role).Scan(
		&member.ID,
		&member.TripID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves all members of a trip
func (r *Repository) GetMembers(ctx context.Context, tripID int64) ([]*TripMember, error) {
	query := `
		SELECT tm.id, tm.trip_id, tm.user_id, tm.status, tm.role, tm.joined_at, u.username, u.email
		FROM trip_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.trip_id = $1
		ORDER BY tm.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*TripMember
	for rows.Next() {
		member := &TripMember{}
		if err := rows.Scan(
			&member.ID,
			&member.TripID,
			&member.UserID,
			&member.Status,
			&member.Role,
			&member.JoinedAt,
			&member.Username,
			&member.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// GetMember retrieves a specific member from a trip
func (r *Repository) GetMember(ctx context.Context, tripID, userID int64) (*TripMember, error) {
	query := `
		SELECT tm.id, tm.trip_id, tm.user_id, tm.status, tm.role, tm.joined_at, u.username, u.email
		FROM trip_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.trip_id = $1 AND tm.user_id = $2
	`

	member := &TripMember{}
	err := r.db.QueryRowContext(ctx, query, tripID, userID).Scan(
		&member.ID,
		&member.TripID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
		&member.Username,
		&member.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// UpdateMember updates a member's status or role
func (r *Repository) UpdateMember(ctx context.Context, tripID, userID int64, req *UpdateMemberRequest) (*TripMember, error) {
	query := `
		UPDATE trip_members
		SET status = COALESCE($3, status),
		    role = COALESCE($4, role)
		WHERE trip_id = $1 AND user_id = $2
		RETURNING id, trip_id, user_id, status, role, joined_at
	`

	member := &TripMember{}
	err := r.db.QueryRowContext(ctx, query, tripID, userID, req.Status, req.Role).Scan(
		&member.ID,
		&member.TripID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return member, nil
}

// RemoveMember removes a user from a trip
func (r *Repository) RemoveMember(ctx context.Context, tripID, userID int64) error {
	query := `DELETE FROM trip_members WHERE trip_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, tripID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}
