package store

import (
	"time"
)

// Fitness level values accepted on a profile.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Primary goal values accepted on a profile.
const (
	GoalWeightLoss  = "weight_loss"
	GoalMuscleGain  = "muscle_gain"
	GoalMaintenance = "maintenance"
	GoalEndurance   = "endurance"
)

// Equipment categories accepted on a profile.
const (
	EquipmentNone      = "none"
	EquipmentDumbbells = "dumbbells"
	EquipmentHomeGym   = "home_gym"
	EquipmentGym       = "gym"
)

// Dietary preference values accepted on a profile.
const (
	DietNone       = "none"
	DietVegetarian = "vegetarian"
	DietVegan      = "vegan"
	DietKeto       = "keto"
	DietGlutenFree = "gluten_free"
)

// AllDays lists weekday labels in calendar order. Activity recurrence
// patterns are stored as subsets of this set.
var AllDays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// EquipmentOptions maps each equipment category to the canonical item
// list offered during onboarding. Tool-driven updates are NOT validated
// against this — the model may record whatever the user actually owns.
var EquipmentOptions = map[string][]string{
	EquipmentDumbbells: {
		"Dumbbells", "Adjustable Bench", "Resistance Bands", "Pull-up Bar", "Kettlebells",
	},
	EquipmentHomeGym: {
		"Barbell", "Squat Rack / Power Rack", "Flat Bench", "Adjustable Bench",
		"Dumbbells", "Kettlebells", "Pull-up Bar", "Dip Bars", "Cable Machine",
		"Resistance Bands", "Weight Plates", "Cardio Equipment", "Jump Rope", "Foam Roller",
	},
	EquipmentGym: {
		"Cable Machine", "Smith Machine", "Leg Press", "Rowing Machine", "Treadmill",
	},
}

// ValidDay reports whether s is one of the seven weekday labels.
func ValidDay(s string) bool {
	for _, d := range AllDays {
		if d == s {
			return true
		}
	}
	return false
}

// Profile is a user's fitness profile. Exactly one per user.
type Profile struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	Age                int        `json:"age"`
	Gender             string     `json:"gender"`
	HeightCm           float64    `json:"heightCm"`
	WeightKg           float64    `json:"weightKg"`
	FitnessLevel       string     `json:"fitnessLevel"`
	PrimaryGoal        string     `json:"primaryGoal"`
	WeeklyWorkoutDays  int        `json:"weeklyWorkoutDays"`
	Equipment          string     `json:"availableEquipment"`
	EquipmentItems     []string   `json:"equipmentItems"`
	DietaryPreference  string     `json:"dietaryPreferences"`
	HealthNotes        string     `json:"healthNotes,omitempty"`
	WeightTargetKg     *float64   `json:"weightTargetKg,omitempty"`
	WeeklyWeightLossKg *float64   `json:"weeklyWeightLossKg,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	Activities         []Activity `json:"activities,omitempty"`
}

// ProfileParams carries the mutable profile fields for create/update.
type ProfileParams struct {
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	HeightCm           float64  `json:"heightCm"`
	WeightKg           float64  `json:"weightKg"`
	FitnessLevel       string   `json:"fitnessLevel"`
	PrimaryGoal        string   `json:"primaryGoal"`
	WeeklyWorkoutDays  int      `json:"weeklyWorkoutDays"`
	Equipment          string   `json:"availableEquipment"`
	EquipmentItems     []string `json:"equipmentItems"`
	DietaryPreference  string   `json:"dietaryPreferences"`
	HealthNotes        string   `json:"healthNotes"`
	WeightTargetKg     *float64 `json:"weightTargetKg"`
	WeeklyWeightLossKg *float64 `json:"weeklyWeightLossKg"`
}

// Validate checks the profile fields against the accepted value sets.
func (p *ProfileParams) Validate() error {
	if p.Age < 13 || p.Age > 120 {
		return invalidf("age must be between 13 and 120, got %d", p.Age)
	}
	if p.HeightCm <= 0 {
		return invalidf("height must be positive")
	}
	if p.WeightKg <= 0 {
		return invalidf("weight must be positive")
	}
	switch p.FitnessLevel {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
	default:
		return invalidf("unknown fitness level %q", p.FitnessLevel)
	}
	switch p.PrimaryGoal {
	case GoalWeightLoss, GoalMuscleGain, GoalMaintenance, GoalEndurance:
	default:
		return invalidf("unknown primary goal %q", p.PrimaryGoal)
	}
	if p.WeeklyWorkoutDays < 1 || p.WeeklyWorkoutDays > 7 {
		return invalidf("weekly workout days must be 1-7, got %d", p.WeeklyWorkoutDays)
	}
	switch p.Equipment {
	case EquipmentNone, EquipmentDumbbells, EquipmentHomeGym, EquipmentGym:
	default:
		return invalidf("unknown equipment category %q", p.Equipment)
	}
	switch p.DietaryPreference {
	case DietNone, DietVegetarian, DietVegan, DietKeto, DietGlutenFree:
	default:
		return invalidf("unknown dietary preference %q", p.DietaryPreference)
	}
	if p.WeightTargetKg != nil && *p.WeightTargetKg <= 0 {
		return invalidf("weight target must be positive")
	}
	if p.WeeklyWeightLossKg != nil && *p.WeeklyWeightLossKg <= 0 {
		return invalidf("weekly weight loss must be positive")
	}
	return nil
}

// Activity is a recurring sport or activity owned by one profile.
type Activity struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	Name      string    `json:"name"`
	Days      []string  `json:"daysOfWeek"`
	CreatedAt time.Time `json:"createdAt"`
}

// ActivityInput is one activity in a create or replace request.
type ActivityInput struct {
	Name string   `json:"name"`
	Days []string `json:"daysOfWeek"`
}

// Validate checks the activity name and weekday labels.
func (a *ActivityInput) Validate() error {
	if a.Name == "" {
		return invalidf("activity name is required")
	}
	if len(a.Name) > 100 {
		return invalidf("activity name too long")
	}
	for _, d := range a.Days {
		if !ValidDay(d) {
			return invalidf("unknown day of week %q", d)
		}
	}
	return nil
}

// Turn is one persisted conversation turn.
type Turn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"` // user or assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Plan kinds.
const (
	PlanWorkout = "workout"
	PlanMeal    = "meal"
)

// Plan is one generated plan document. Append-only; readers take the
// most recent per kind.
type Plan struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProgressEntry is one daily progress log row.
type ProgressEntry struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	WeightKg         *float64  `json:"weightKg,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	WorkoutDone      bool      `json:"workoutDone"`
	CaloriesConsumed *int      `json:"caloriesConsumed,omitempty"`
	ProteinG         *float64  `json:"proteinG,omitempty"`
	CarbsG           *float64  `json:"carbsG,omitempty"`
	FatG             *float64  `json:"fatG,omitempty"`
	LiftingNotes     string    `json:"liftingNotes,omitempty"`
	Date             time.Time `json:"date"`
}

// ProgressParams carries the fields for a new progress entry.
type ProgressParams struct {
	WeightKg         *float64 `json:"weightKg"`
	Notes            string   `json:"notes"`
	WorkoutDone      bool     `json:"workoutDone"`
	CaloriesConsumed *int     `json:"caloriesConsumed"`
	ProteinG         *float64 `json:"proteinG"`
	CarbsG           *float64 `json:"carbsG"`
	FatG             *float64 `json:"fatG"`
	LiftingNotes     string   `json:"liftingNotes"`
}

// Meal types accepted in the food log.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// ValidMealType reports whether s is an accepted meal type.
func ValidMealType(s string) bool {
	switch s {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// FoodEntry is one logged meal with estimated macros.
type FoodEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	MealType    string    `json:"mealType"`
	Description string    `json:"description"`
	Calories    *int      `json:"caloriesEst,omitempty"`
	ProteinG    *float64  `json:"proteinG,omitempty"`
	CarbsG      *float64  `json:"carbsG,omitempty"`
	FatG        *float64  `json:"fatG,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FoodTotals sums macros across a day's entries.
type FoodTotals struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein"`
	CarbsG   float64 `json:"carbs"`
	FatG     float64 `json:"fat"`
}
