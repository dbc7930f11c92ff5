// Package prompts assembles the system and user prompts sent to the model.
package prompts

import (
	"fmt"
	"strings"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

// humanize turns enum-style values into prose ("weight_loss" → "weight loss").
func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// equipmentSection renders the profile's equipment for the system prompt.
func equipmentSection(p *store.Profile) string {
	if p.Equipment == store.EquipmentNone {
		return "- Available Equipment: No Equipment (Bodyweight Only)"
	}
	section := fmt.Sprintf("- Available Equipment: %s", humanize(p.Equipment))
	if len(p.EquipmentItems) > 0 {
		section += fmt.Sprintf("\n- Specific Equipment Items: %s", strings.Join(p.EquipmentItems, ", "))
	}
	return section
}

// activitiesSection renders the profile's recurring activities, or ""
// when there are none.
func activitiesSection(activities []store.Activity) string {
	if len(activities) == 0 {
		return ""
	}
	lines := make([]string, 0, len(activities))
	for _, a := range activities {
		if len(a.Days) > 0 {
			lines = append(lines, fmt.Sprintf("  - %s: %s", a.Name, strings.Join(a.Days, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("  - %s", a.Name))
		}
	}
	return "- Other Activities / Sports:\n" + strings.Join(lines, "\n")
}

// ProfileContext builds the coach persona block shared by every
// completion: the expert-coach framing plus the full user profile.
func ProfileContext(p *store.Profile) string {
	var b strings.Builder

	b.WriteString("You are an expert personal fitness coach and nutritionist. You have access to the following user profile:\n\n")
	b.WriteString("**User Profile:**\n")
	fmt.Fprintf(&b, "- Age: %d years old\n", p.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "- Height: %g cm\n", p.HeightCm)
	fmt.Fprintf(&b, "- Current Weight: %g kg\n", p.WeightKg)
	fmt.Fprintf(&b, "- Fitness Level: %s\n", p.FitnessLevel)
	fmt.Fprintf(&b, "- Primary Goal: %s\n", humanize(p.PrimaryGoal))
	fmt.Fprintf(&b, "- Workout Days Per Week: %d\n", p.WeeklyWorkoutDays)
	b.WriteString(equipmentSection(p))
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Dietary Preferences: %s\n", humanize(p.DietaryPreference))
	if p.HealthNotes != "" {
		fmt.Fprintf(&b, "- Health Notes / Injuries: %s\n", p.HealthNotes)
	}
	switch {
	case p.WeightTargetKg != nil && p.WeeklyWeightLossKg != nil:
		fmt.Fprintf(&b, "- Weight Target: %g kg (losing %g kg/week)\n", *p.WeightTargetKg, *p.WeeklyWeightLossKg)
	case p.WeightTargetKg != nil:
		fmt.Fprintf(&b, "- Weight Target: %g kg\n", *p.WeightTargetKg)
	}
	if s := activitiesSection(p.Activities); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}

	b.WriteString("\nAlways tailor your advice to this specific user. Be encouraging, specific, and science-based. Provide actionable recommendations.")
	return b.String()
}
