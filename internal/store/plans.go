package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SavePlan appends a new plan document of the given kind.
func (s *Store) SavePlan(userID, kind, content string) (*Plan, error) {
	if kind != PlanWorkout && kind != PlanMeal {
		return nil, invalidf("unknown plan kind %q", kind)
	}
	if content == "" {
		return nil, invalidf("plan content must not be empty")
	}

	now := time.Now()
	id, _ := uuid.NewV7()
	_, err := s.db.Exec(`
		INSERT INTO plans (id, user_id, kind, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id.String(), userID, kind, content, now)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	return &Plan{ID: id.String(), UserID: userID, Kind: kind, Content: content, CreatedAt: now}, nil
}

// LatestPlan returns the most recent plan of the given kind, or
// (nil, nil) when none has been generated yet.
func (s *Store) LatestPlan(userID, kind string) (*Plan, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, kind, content, created_at
		FROM plans
		WHERE user_id = ? AND kind = ?
		ORDER BY id DESC
		LIMIT 1
	`, userID, kind)

	var p Plan
	err := row.Scan(&p.ID, &p.UserID, &p.Kind, &p.Content, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	return &p, nil
}
