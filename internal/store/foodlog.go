package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FoodParams carries the fields for a new food log entry.
type FoodParams struct {
	MealType    string
	Description string
	Calories    *int
	ProteinG    *float64
	CarbsG      *float64
	FatG        *float64
}

// AddFood records one food log entry dated now.
func (s *Store) AddFood(userID string, params FoodParams) (*FoodEntry, error) {
	if !ValidMealType(params.MealType) {
		return nil, invalidf("unknown meal type %q", params.MealType)
	}
	if params.Description == "" {
		return nil, invalidf("description is required")
	}

	now := time.Now()
	id, _ := uuid.NewV7()
	_, err := s.db.Exec(`
		INSERT INTO food_logs (id, user_id, meal_type, description,
			calories_est, protein_g, carbs_g, fat_g, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id.String(), userID, params.MealType, params.Description,
		params.Calories, params.ProteinG, params.CarbsG, params.FatG, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert food entry: %w", err)
	}

	return &FoodEntry{
		ID:          id.String(),
		UserID:      userID,
		MealType:    params.MealType,
		Description: params.Description,
		Calories:    params.Calories,
		ProteinG:    params.ProteinG,
		CarbsG:      params.CarbsG,
		FatG:        params.FatG,
		Date:        now,
		CreatedAt:   now,
	}, nil
}

// FoodForDay returns the entries logged on the given calendar day
// (local time) plus their macro totals.
func (s *Store) FoodForDay(userID string, day time.Time) ([]FoodEntry, FoodTotals, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	rows, err := s.db.Query(`
		SELECT id, user_id, meal_type, description, calories_est,
		       protein_g, carbs_g, fat_g, date, created_at
		FROM food_logs
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY id
	`, userID, start, end)
	if err != nil {
		return nil, FoodTotals{}, fmt.Errorf("query food log: %w", err)
	}
	defer rows.Close()

	var entries []FoodEntry
	var totals FoodTotals
	for rows.Next() {
		var e FoodEntry
		var calories sql.NullInt64
		var protein, carbs, fat sql.NullFloat64
		err := rows.Scan(&e.ID, &e.UserID, &e.MealType, &e.Description,
			&calories, &protein, &carbs, &fat, &e.Date, &e.CreatedAt)
		if err != nil {
			return nil, FoodTotals{}, err
		}
		if calories.Valid {
			c := int(calories.Int64)
			e.Calories = &c
			totals.Calories += c
		}
		if protein.Valid {
			e.ProteinG = &protein.Float64
			totals.ProteinG += protein.Float64
		}
		if carbs.Valid {
			e.CarbsG = &carbs.Float64
			totals.CarbsG += carbs.Float64
		}
		if fat.Valid {
			e.FatG = &fat.Float64
			totals.FatG += fat.Float64
		}
		entries = append(entries, e)
	}
	return entries, totals, rows.Err()
}
