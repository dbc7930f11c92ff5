package prompts

import (
	"fmt"
	"strings"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

// WorkoutRequest builds the user prompt asking for a weekly workout plan.
func WorkoutRequest(p *store.Profile) string {
	var activityNote string
	if len(p.Activities) > 0 {
		lines := make([]string, 0, len(p.Activities))
		for _, a := range p.Activities {
			if len(a.Days) > 0 {
				lines = append(lines, fmt.Sprintf("%s on %s", a.Name, strings.Join(a.Days, ", ")))
			} else {
				lines = append(lines, a.Name)
			}
		}
		activityNote = fmt.Sprintf("\n- Account for my other activities: %s — avoid scheduling heavy gym sessions on the same days where possible. For example, avoid heavy leg work on BJJ/martial arts days.", strings.Join(lines, "; "))
	}

	var weightTargetNote string
	if p.WeightTargetKg != nil && p.WeeklyWeightLossKg != nil {
		weightTargetNote = fmt.Sprintf("\n- I have a weight loss target of %g kg, aiming to lose %g kg/week — adjust volume/intensity accordingly (slightly higher rep ranges, cardio finishers on some days).", *p.WeightTargetKg, *p.WeeklyWeightLossKg)
	}

	var weightSuggestions string
	switch p.FitnessLevel {
	case store.LevelBeginner:
		weightSuggestions = fmt.Sprintf("\n- For suggested starting weights, use these approximate percentages of bodyweight (%g kg): Bench Press ~30–40%% BW, Squat ~40–50%% BW, Deadlift ~50–60%% BW, Overhead Press ~20–30%% BW, Row ~30–40%% BW. Adjust lower if needed.", p.WeightKg)
	case store.LevelIntermediate:
		weightSuggestions = fmt.Sprintf("\n- For suggested starting weights, use moderate loads appropriate for intermediate lifters (%g kg bodyweight) — typically 60–75%% of estimated 1RM.", p.WeightKg)
	default:
		weightSuggestions = "\n- For suggested starting weights, suggest percentages of estimated 1RM appropriate for advanced lifters."
	}

	equipmentNote := ""
	if p.Equipment != store.EquipmentNone {
		items := "standard equipment"
		if len(p.EquipmentItems) > 0 {
			items = strings.Join(p.EquipmentItems, ", ")
		}
		equipmentNote = fmt.Sprintf(" — specifically: %s", items)
	}

	return fmt.Sprintf(`Please create a detailed %d-day weekly workout plan for me.

Requirements:
- Base it on my fitness level (%s) and goal (%s)
- Use only %s equipment%s
- For each exercise, format it as a **markdown table row** with a YouTube search link:
  | [Exercise Name](https://www.youtube.com/results?search_query=exercise+name+form) | Sets | Reps | Rest | Suggested Weight |
  Use the actual exercise name in the URL (replace spaces with +). Include a table header row.
- Do NOT include any warm-up or cool-down section
- Add progression notes for weeks 2-4
- Include rest day recommendations
- Format as clean markdown with clear headers for each day%s%s%s

Make it specific, achievable, and progressive.`,
		p.WeeklyWorkoutDays, p.FitnessLevel, humanize(p.PrimaryGoal),
		humanize(p.Equipment), equipmentNote,
		activityNote, weightTargetNote, weightSuggestions)
}
