// Package store provides SQLite-backed persistence for profiles, plans,
// the chat transcript, and the daily logs.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoProfile is returned by operations that require an onboarded
// profile when none exists for the user.
var ErrNoProfile = errors.New("no profile found")

// ErrInvalid marks input validation failures so that transports can
// map them to client errors rather than server errors.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// invalidf builds a validation error wrapping ErrInvalid.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Profiles (one per user)
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		height_cm REAL NOT NULL,
		weight_kg REAL NOT NULL,
		fitness_level TEXT NOT NULL,
		primary_goal TEXT NOT NULL,
		weekly_workout_days INTEGER NOT NULL,
		equipment TEXT NOT NULL,
		equipment_items TEXT NOT NULL DEFAULT '[]',
		dietary_preference TEXT NOT NULL,
		health_notes TEXT,
		weight_target_kg REAL,
		weekly_weight_loss_kg REAL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	-- Recurring activities, owned by a profile
	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		name TEXT NOT NULL,
		days_of_week TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_activities_profile ON activities(profile_id);

	-- Chat transcript (append-only)
	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_messages_user ON chat_messages(user_id, created_at);

	-- Generated plans (append-only; latest wins)
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plans_user_kind ON plans(user_id, kind, created_at);

	-- Daily progress log
	CREATE TABLE IF NOT EXISTS progress_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		weight_kg REAL,
		notes TEXT,
		workout_done BOOLEAN NOT NULL DEFAULT FALSE,
		calories_consumed INTEGER,
		protein_g REAL,
		carbs_g REAL,
		fat_g REAL,
		lifting_notes TEXT,
		date TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_progress_user ON progress_logs(user_id, date);

	-- Food log
	CREATE TABLE IF NOT EXISTS food_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		meal_type TEXT NOT NULL,
		description TEXT NOT NULL,
		calories_est INTEGER,
		protein_g REAL,
		carbs_g REAL,
		fat_g REAL,
		date TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_food_user_date ON food_logs(user_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
