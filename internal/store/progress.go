package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddProgress records one progress log entry dated now.
func (s *Store) AddProgress(userID string, params ProgressParams) (*ProgressEntry, error) {
	if params.WeightKg != nil && *params.WeightKg <= 0 {
		return nil, invalidf("weight must be positive")
	}
	if params.CaloriesConsumed != nil && *params.CaloriesConsumed < 0 {
		return nil, invalidf("calories must be non-negative")
	}

	now := time.Now()
	id, _ := uuid.NewV7()
	_, err := s.db.Exec(`
		INSERT INTO progress_logs (id, user_id, weight_kg, notes, workout_done,
			calories_consumed, protein_g, carbs_g, fat_g, lifting_notes, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id.String(), userID, params.WeightKg, nullString(params.Notes), params.WorkoutDone,
		params.CaloriesConsumed, params.ProteinG, params.CarbsG, params.FatG,
		nullString(params.LiftingNotes), now)
	if err != nil {
		return nil, fmt.Errorf("insert progress: %w", err)
	}

	return &ProgressEntry{
		ID:               id.String(),
		UserID:           userID,
		WeightKg:         params.WeightKg,
		Notes:            params.Notes,
		WorkoutDone:      params.WorkoutDone,
		CaloriesConsumed: params.CaloriesConsumed,
		ProteinG:         params.ProteinG,
		CarbsG:           params.CarbsG,
		FatG:             params.FatG,
		LiftingNotes:     params.LiftingNotes,
		Date:             now,
	}, nil
}

// ListProgress returns all progress entries in date order.
func (s *Store) ListProgress(userID string) ([]ProgressEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, weight_kg, notes, workout_done, calories_consumed,
		       protein_g, carbs_g, fat_g, lifting_notes, date
		FROM progress_logs
		WHERE user_id = ?
		ORDER BY date
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var entries []ProgressEntry
	for rows.Next() {
		var e ProgressEntry
		var weight, protein, carbs, fat sql.NullFloat64
		var calories sql.NullInt64
		var notes, lifting sql.NullString
		err := rows.Scan(&e.ID, &e.UserID, &weight, &notes, &e.WorkoutDone,
			&calories, &protein, &carbs, &fat, &lifting, &e.Date)
		if err != nil {
			return nil, err
		}
		if weight.Valid {
			e.WeightKg = &weight.Float64
		}
		if notes.Valid {
			e.Notes = notes.String
		}
		if calories.Valid {
			c := int(calories.Int64)
			e.CaloriesConsumed = &c
		}
		if protein.Valid {
			e.ProteinG = &protein.Float64
		}
		if carbs.Valid {
			e.CarbsG = &carbs.Float64
		}
		if fat.Valid {
			e.FatG = &fat.Float64
		}
		if lifting.Valid {
			e.LiftingNotes = lifting.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
