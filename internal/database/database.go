package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresConnection opens a postgres connection pool and verifies it
func NewPostgresConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the schema if it does not exist yet
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS trips (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		destination TEXT,
		starts_on DATE,
		ends_on DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS trip_members (
		id BIGSERIAL PRIMARY KEY,
		trip_id BIGINT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'INVITED',
		role VARCHAR(20) NOT NULL DEFAULT 'MEMBER',
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (trip_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		trip_id BIGINT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		payer_id BIGINT NOT NULL REFERENCES users(id),
		description TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
		currency_code CHAR(3) NOT NULL DEFAULT 'USD',
		split_method VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS participant_shares (
		id BIGSERIAL PRIMARY KEY,
		expense_id BIGINT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		share NUMERIC(12,2) NOT NULL,
		split_detail JSONB NOT NULL,
		settled BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (expense_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS settlements (
		id BIGSERIAL PRIMARY KEY,
		trip_id BIGINT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		from_user_id BIGINT NOT NULL REFERENCES users(id),
		to_user_id BIGINT NOT NULL REFERENCES users(id),
		amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
		currency_code CHAR(3) NOT NULL DEFAULT 'USD',
		method VARCHAR(30) NOT NULL DEFAULT 'CASH',
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		batch_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ,
		CHECK (from_user_id <> to_user_id)
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		recipient_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		related_entity_type VARCHAR(30),
		related_entity_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_trip_id ON expenses(trip_id);
	CREATE INDEX IF NOT EXISTS idx_participant_shares_expense_id ON participant_shares(expense_id);
	CREATE INDEX IF NOT EXISTS idx_settlements_trip_id ON settlements(trip_id);
	CREATE INDEX IF NOT EXISTS idx_settlements_batch_id ON settlements(batch_id);
	CREATE INDEX IF NOT EXISTS idx_notifications_recipient_id ON notifications(recipient_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
