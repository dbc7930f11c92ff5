package prompts

import (
	"fmt"
	"math"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

// BMR computes basal metabolic rate via the Mifflin-St Jeor equation.
func BMR(p *store.Profile) float64 {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == "male" {
		return base + 5
	}
	return base - 161
}

// activityMultiplier maps weekly workout frequency to a TDEE multiplier.
func activityMultiplier(weeklyWorkoutDays int) float64 {
	switch {
	case weeklyWorkoutDays <= 2:
		return 1.375
	case weeklyWorkoutDays <= 4:
		return 1.55
	default:
		return 1.725
	}
}

// DailyCalories returns the adjusted daily calorie target and the
// applied deficit. The deficit scales with the weekly loss rate
// (0.5 kg/week ≈ 500 kcal/day) and the target never drops below 1200.
func DailyCalories(p *store.Profile) (tdee int, deficit int) {
	tdee = int(math.Round(BMR(p) * activityMultiplier(p.WeeklyWorkoutDays)))
	if p.WeeklyWeightLossKg != nil {
		deficit = int(math.Round(*p.WeeklyWeightLossKg / 0.5 * 500))
		tdee -= deficit
		if tdee < 1200 {
			tdee = 1200
		}
	}
	return tdee, deficit
}

// MealPlanRequest builds the user prompt asking for a 7-day meal plan
// with a daily protein target and carb cycling between workout and rest
// days.
func MealPlanRequest(p *store.Profile) string {
	tdee, deficit := DailyCalories(p)

	var caloricAdjustment string
	if deficit > 0 {
		caloricAdjustment = fmt.Sprintf("\n- Apply a ~%d kcal/day deficit to support losing %g kg/week (adjusted TDEE: ~%d kcal/day)", deficit, *p.WeeklyWeightLossKg, tdee)
	}

	proteinTarget := int(math.Round(p.WeightKg * 2.0))
	highCarbCalories := int(math.Round(float64(tdee) * 0.4))
	lowCarbCalories := int(math.Round(float64(tdee) * 0.2))
	highCarbG := int(math.Round(float64(highCarbCalories) / 4))
	lowCarbG := int(math.Round(float64(lowCarbCalories) / 4))

	return fmt.Sprintf(`Please create a detailed 7-day meal plan for me.

My estimated daily calorie needs: ~%d calories/day
%s

Requirements:
- Respect my dietary preference: %s
- Align with my goal: %s
- **High protein**: target %dg protein/day (1.8–2.2g per kg bodyweight at %g kg)
- **Carb cycling**:
  - Workout days: HIGH carb (~%dg carbs, ~%d kcal from carbs = ~40%% of calories)
  - Rest/activity days: LOW carb (~%dg carbs, ~%d kcal from carbs = ~20%% of calories)
  - Clearly label each day as "Workout Day" or "Rest Day" and show carb targets
- Include breakfast, lunch, dinner, and 1-2 snacks per day
- Show approximate calories and macros (protein, carbs, fat) for each meal
- Include simple, practical recipes or meal ideas
- Format as clean markdown with clear headers for each day

End the plan with a **## Weekly Shopping List** section organized by category (Proteins, Produce, Grains & Starches, Dairy/Alternatives, Pantry Staples, etc.).

Keep meals practical and enjoyable.`,
		tdee, caloricAdjustment,
		humanize(p.DietaryPreference), humanize(p.PrimaryGoal),
		proteinTarget, p.WeightKg,
		highCarbG, highCarbCalories, lowCarbG, lowCarbCalories)
}

// MacroEstimateRequest builds the forced tool-use prompt for food
// logging.
func MacroEstimateRequest(description string) string {
	return fmt.Sprintf("Estimate the calories and macros for: %q. Use the estimate_food_macros tool with your best estimate.", description)
}
