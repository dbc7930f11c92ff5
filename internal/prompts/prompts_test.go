package prompts

import (
	"strings"
	"testing"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

func baseProfile() *store.Profile {
	return &store.Profile{
		Age:               30,
		Gender:            "male",
		HeightCm:          180,
		WeightKg:          85,
		FitnessLevel:      store.LevelIntermediate,
		PrimaryGoal:       store.GoalWeightLoss,
		WeeklyWorkoutDays: 4,
		Equipment:         store.EquipmentHomeGym,
		EquipmentItems:    []string{"Barbell", "Dumbbells"},
		DietaryPreference: store.DietNone,
	}
}

func TestProfileContext(t *testing.T) {
	p := baseProfile()
	got := ProfileContext(p)

	for _, want := range []string{
		"expert personal fitness coach",
		"Age: 30 years old",
		"Current Weight: 85 kg",
		"Primary Goal: weight loss",
		"Specific Equipment Items: Barbell, Dumbbells",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in profile context", want)
		}
	}
}

func TestProfileContext_BodyweightOnly(t *testing.T) {
	p := baseProfile()
	p.Equipment = store.EquipmentNone
	p.EquipmentItems = nil

	got := ProfileContext(p)
	if !strings.Contains(got, "No Equipment (Bodyweight Only)") {
		t.Error("missing bodyweight-only equipment line")
	}
	if strings.Contains(got, "Specific Equipment Items") {
		t.Error("item list should be omitted for no equipment")
	}
}

func TestProfileContext_OptionalSections(t *testing.T) {
	p := baseProfile()
	target, loss := 78.0, 0.5
	p.WeightTargetKg = &target
	p.WeeklyWeightLossKg = &loss
	p.HealthNotes = "bad left knee"
	p.Activities = []store.Activity{{Name: "BJJ", Days: []string{"Tuesday", "Thursday"}}}

	got := ProfileContext(p)
	for _, want := range []string{
		"Weight Target: 78 kg (losing 0.5 kg/week)",
		"Health Notes / Injuries: bad left knee",
		"- BJJ: Tuesday, Thursday",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestChatSystem_PlanTruncation(t *testing.T) {
	p := baseProfile()
	longPlan := strings.Repeat("x", 2000)

	got := ChatSystem(p, longPlan, "", "")
	if strings.Contains(got, longPlan) {
		t.Error("workout plan was not truncated")
	}
	if !strings.Contains(got, strings.Repeat("x", planSummaryLimit)+"...") {
		t.Error("expected truncated plan with ellipsis")
	}
}

func TestChatSystem_Sections(t *testing.T) {
	p := baseProfile()
	got := ChatSystem(p, "lift things", "eat things", "viewing meal plan")

	for _, want := range []string{
		"**Your Role:**",
		"`manage_activities`",
		"`update_equipment`",
		"`estimate_food_macros`",
		"**Current Workout Plan Summary:**\nlift things",
		"**Current Meal Plan Summary:**\neat things",
		"**Current Page Context:**",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}

	// Absent plans produce no empty section headers.
	got = ChatSystem(p, "", "", "")
	if strings.Contains(got, "Workout Plan Summary") || strings.Contains(got, "Page Context") {
		t.Error("empty sections should be omitted")
	}
}

func TestBMR(t *testing.T) {
	p := baseProfile() // male, 85kg, 180cm, 30y
	// 10*85 + 6.25*180 - 5*30 + 5 = 850 + 1125 - 150 + 5
	if got := BMR(p); got != 1830 {
		t.Errorf("BMR = %g, want 1830", got)
	}

	p.Gender = "female"
	// 850 + 1125 - 150 - 161
	if got := BMR(p); got != 1664 {
		t.Errorf("female BMR = %g, want 1664", got)
	}
}

func TestDailyCalories(t *testing.T) {
	p := baseProfile() // BMR 1830, 4 workout days → ×1.55
	tdee, deficit := DailyCalories(p)
	if deficit != 0 {
		t.Errorf("deficit = %d, want 0", deficit)
	}
	if tdee != 2837 { // round(1830 * 1.55)
		t.Errorf("tdee = %d, want 2837", tdee)
	}

	loss := 0.5
	p.WeeklyWeightLossKg = &loss
	tdee, deficit = DailyCalories(p)
	if deficit != 500 {
		t.Errorf("deficit = %d, want 500", deficit)
	}
	if tdee != 2337 {
		t.Errorf("tdee = %d, want 2337", tdee)
	}
}

func TestDailyCalories_Floor(t *testing.T) {
	p := baseProfile()
	p.WeightKg = 45
	p.HeightCm = 150
	p.Age = 60
	p.WeeklyWorkoutDays = 1
	loss := 1.5
	p.WeeklyWeightLossKg = &loss

	tdee, _ := DailyCalories(p)
	if tdee != 1200 {
		t.Errorf("tdee = %d, want floor of 1200", tdee)
	}
}

func TestActivityMultiplier(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{1, 1.375},
		{2, 1.375},
		{3, 1.55},
		{4, 1.55},
		{5, 1.725},
		{7, 1.725},
	}
	for _, tt := range tests {
		if got := activityMultiplier(tt.days); got != tt.want {
			t.Errorf("activityMultiplier(%d) = %g, want %g", tt.days, got, tt.want)
		}
	}
}

func TestWorkoutRequest(t *testing.T) {
	p := baseProfile()
	got := WorkoutRequest(p)

	for _, want := range []string{
		"4-day weekly workout plan",
		"fitness level (intermediate)",
		"home gym equipment — specifically: Barbell, Dumbbells",
		"youtube.com/results?search_query",
		"60–75%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestWorkoutRequest_BeginnerWeights(t *testing.T) {
	p := baseProfile()
	p.FitnessLevel = store.LevelBeginner
	got := WorkoutRequest(p)
	if !strings.Contains(got, "percentages of bodyweight") {
		t.Error("expected bodyweight-percentage guidance for beginners")
	}
}

func TestWorkoutRequest_AvoidsActivityDays(t *testing.T) {
	p := baseProfile()
	p.Activities = []store.Activity{{Name: "BJJ", Days: []string{"Tuesday"}}}
	got := WorkoutRequest(p)
	if !strings.Contains(got, "BJJ on Tuesday") {
		t.Error("expected activity avoidance note")
	}
}

func TestMealPlanRequest(t *testing.T) {
	p := baseProfile() // tdee 2837
	got := MealPlanRequest(p)

	for _, want := range []string{
		"~2837 calories/day",
		"170g protein/day", // round(85 * 2.0)
		"Carb cycling",
		"Weekly Shopping List",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestMealPlanRequest_CarbSplit(t *testing.T) {
	p := baseProfile()
	got := MealPlanRequest(p)

	// tdee 2837: high = 40% (1135 kcal, 284g), low = 20% (567 kcal, 142g)
	if !strings.Contains(got, "~284g carbs, ~1135 kcal") {
		t.Errorf("missing high-carb targets in:\n%s", got)
	}
	if !strings.Contains(got, "~142g carbs, ~567 kcal") {
		t.Errorf("missing low-carb targets in:\n%s", got)
	}
}

func TestHumanize(t *testing.T) {
	if got := humanize("muscle_gain"); got != "muscle gain" {
		t.Errorf("humanize = %q", got)
	}
}
