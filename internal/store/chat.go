package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppendTurn persists one conversation turn. Empty content is rejected;
// an in-progress assistant turn is only persisted once finalized.
func (s *Store) AppendTurn(userID, role, content string) (*Turn, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalidf("turn content must not be empty")
	}
	if role != "user" && role != "assistant" {
		return nil, invalidf("unknown turn role %q", role)
	}

	now := time.Now()
	id, _ := uuid.NewV7()
	_, err := s.db.Exec(`
		INSERT INTO chat_messages (id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id.String(), userID, role, content, now)
	if err != nil {
		return nil, fmt.Errorf("insert turn: %w", err)
	}

	return &Turn{ID: id.String(), UserID: userID, Role: role, Content: content, CreatedAt: now}, nil
}

// RecentTurns returns the most recent limit turns in chronological order.
func (s *Store) RecentTurns(userID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 20
	}

	// Take the newest rows, then flip back to chronological order.
	// UUIDv7 ids break created_at ties deterministically.
	rows, err := s.db.Query(`
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// AllTurns returns the full transcript in chronological order.
func (s *Store) AllTurns(userID string) ([]Turn, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
