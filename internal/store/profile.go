package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GetProfile returns the user's profile with activities joined, or
// (nil, nil) when the user has not completed onboarding.
func (s *Store) GetProfile(userID string) (*Profile, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, age, gender, height_cm, weight_kg, fitness_level,
		       primary_goal, weekly_workout_days, equipment, equipment_items,
		       dietary_preference, health_notes, weight_target_kg,
		       weekly_weight_loss_kg, created_at, updated_at
		FROM profiles WHERE user_id = ?
	`, userID)

	var p Profile
	var items string
	var healthNotes sql.NullString
	var target, lossRate sql.NullFloat64
	err := row.Scan(&p.ID, &p.UserID, &p.Age, &p.Gender, &p.HeightCm, &p.WeightKg,
		&p.FitnessLevel, &p.PrimaryGoal, &p.WeeklyWorkoutDays, &p.Equipment, &items,
		&p.DietaryPreference, &healthNotes, &target, &lossRate, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &p.EquipmentItems); err != nil {
		p.EquipmentItems = nil
	}
	if healthNotes.Valid {
		p.HealthNotes = healthNotes.String
	}
	if target.Valid {
		p.WeightTargetKg = &target.Float64
	}
	if lossRate.Valid {
		p.WeeklyWeightLossKg = &lossRate.Float64
	}

	acts, err := s.activitiesForProfile(p.ID)
	if err != nil {
		return nil, err
	}
	p.Activities = acts

	return &p, nil
}

// SaveProfile creates or updates the user's profile.
func (s *Store) SaveProfile(userID string, params ProfileParams) (*Profile, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	items := params.EquipmentItems
	if items == nil {
		items = []string{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal equipment items: %w", err)
	}

	now := time.Now()
	id, _ := uuid.NewV7()

	// Upsert keyed on user_id; created_at survives updates.
	_, err = s.db.Exec(`
		INSERT INTO profiles (id, user_id, age, gender, height_cm, weight_kg,
			fitness_level, primary_goal, weekly_workout_days, equipment,
			equipment_items, dietary_preference, health_notes,
			weight_target_kg, weekly_weight_loss_kg, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			age = excluded.age,
			gender = excluded.gender,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			fitness_level = excluded.fitness_level,
			primary_goal = excluded.primary_goal,
			weekly_workout_days = excluded.weekly_workout_days,
			equipment = excluded.equipment,
			equipment_items = excluded.equipment_items,
			dietary_preference = excluded.dietary_preference,
			health_notes = excluded.health_notes,
			weight_target_kg = excluded.weight_target_kg,
			weekly_weight_loss_kg = excluded.weekly_weight_loss_kg,
			updated_at = excluded.updated_at
	`, id.String(), userID, params.Age, params.Gender, params.HeightCm, params.WeightKg,
		params.FitnessLevel, params.PrimaryGoal, params.WeeklyWorkoutDays, params.Equipment,
		string(itemsJSON), params.DietaryPreference, nullString(params.HealthNotes),
		params.WeightTargetKg, params.WeeklyWeightLossKg, now, now)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	return s.GetProfile(userID)
}

// UpdateEquipment overwrites the equipment category and item list.
// No validation against the canonical per-category item set happens
// here; the tool path records whatever the user reports owning.
func (s *Store) UpdateEquipment(userID, category string, items []string) error {
	if items == nil {
		items = []string{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal equipment items: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE profiles SET equipment = ?, equipment_items = ?, updated_at = ?
		WHERE user_id = ?
	`, category, string(itemsJSON), time.Now(), userID)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoProfile
	}
	return nil
}

// ReplaceActivities atomically replaces the profile's entire activity
// collection with the supplied list. An empty list clears it.
func (s *Store) ReplaceActivities(userID string, activities []ActivityInput) ([]Activity, error) {
	profileID, err := s.profileID(userID)
	if err != nil {
		return nil, err
	}
	for i := range activities {
		if err := activities[i].Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM activities WHERE profile_id = ?`, profileID); err != nil {
		return nil, fmt.Errorf("clear activities: %w", err)
	}

	now := time.Now()
	for _, a := range activities {
		days := a.Days
		if days == nil {
			days = []string{}
		}
		daysJSON, err := json.Marshal(days)
		if err != nil {
			return nil, fmt.Errorf("marshal days: %w", err)
		}
		id, _ := uuid.NewV7()
		_, err = tx.Exec(`
			INSERT INTO activities (id, profile_id, name, days_of_week, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, id.String(), profileID, a.Name, string(daysJSON), now)
		if err != nil {
			return nil, fmt.Errorf("insert activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.activitiesForProfile(profileID)
}

// AddActivity appends one activity to the profile's collection.
func (s *Store) AddActivity(userID string, input ActivityInput) (*Activity, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	profileID, err := s.profileID(userID)
	if err != nil {
		return nil, err
	}

	days := input.Days
	if days == nil {
		days = []string{}
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("marshal days: %w", err)
	}

	now := time.Now()
	id, _ := uuid.NewV7()
	_, err = s.db.Exec(`
		INSERT INTO activities (id, profile_id, name, days_of_week, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id.String(), profileID, input.Name, string(daysJSON), now)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}

	return &Activity{
		ID:        id.String(),
		ProfileID: profileID,
		Name:      input.Name,
		Days:      days,
		CreatedAt: now,
	}, nil
}

// DeleteActivity removes one activity owned by the user's profile.
func (s *Store) DeleteActivity(userID, activityID string) error {
	profileID, err := s.profileID(userID)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		DELETE FROM activities WHERE id = ? AND profile_id = ?
	`, activityID, profileID)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: activity %s", ErrNotFound, activityID)
	}
	return nil
}

// ListActivities returns the user's activities in insertion order.
func (s *Store) ListActivities(userID string) ([]Activity, error) {
	profileID, err := s.profileID(userID)
	if err != nil {
		return nil, err
	}
	return s.activitiesForProfile(profileID)
}

// profileID resolves a user id to its profile row id.
func (s *Store) profileID(userID string) (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT id FROM profiles WHERE user_id = ?`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", ErrNoProfile
	}
	if err != nil {
		return "", fmt.Errorf("query profile id: %w", err)
	}
	return id, nil
}

func (s *Store) activitiesForProfile(profileID string) ([]Activity, error) {
	// UUIDv7 ids are time-ordered, so ordering by id preserves insertion order.
	rows, err := s.db.Query(`
		SELECT id, profile_id, name, days_of_week, created_at
		FROM activities WHERE profile_id = ? ORDER BY id
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var days string
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Name, &days, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(days), &a.Days); err != nil {
			a.Days = nil
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
