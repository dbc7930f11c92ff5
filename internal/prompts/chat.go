package prompts

import (
	"fmt"
	"strings"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

// planSummaryLimit caps how much of each plan document is inlined into
// the chat system prompt.
const planSummaryLimit = 1500

// ChatSystem builds the system prompt for the coaching conversation:
// persona + profile, the coach role description, tool-use guidance, and
// summaries of the current plans.
func ChatSystem(p *store.Profile, workoutPlan, mealPlan, pageContext string) string {
	var b strings.Builder
	b.WriteString(ProfileContext(p))

	b.WriteString(`

**Your Role:**
You are acting as this user's personal fitness coach. You can:
- Answer questions about their workout plan and suggest modifications
- Answer nutrition and diet questions
- Provide motivation and accountability
- Suggest adjustments based on their progress and feedback
- Answer general fitness and health questions
- Help them troubleshoot any issues with their plan
- Estimate calories and macros for meals using the ` + "`estimate_food_macros`" + ` tool

**Tool Use:**
You have access to tools that let you update the user's profile in real-time:
- Use ` + "`manage_activities`" + ` when the user mentions a sport or recurring activity they do (e.g., "I play tennis on Mondays", "I go running on weekends"). Replace their entire activity list with the updated set.
- Use ` + "`update_equipment`" + ` when the user mentions acquiring or using specific gym equipment (e.g., "I just got a barbell and squat rack", "I now have a pull-up bar").
- Use ` + "`estimate_food_macros`" + ` when the user asks about the nutritional content of a meal or food item.

Only call tools when there is clear new information to save. After calling a tool, briefly acknowledge the update and continue helping the user.

Always be encouraging, specific, and practical. Reference their profile when relevant.`)

	if pageContext != "" {
		fmt.Fprintf(&b, "\n\n**Current Page Context:**\nThe user is currently viewing: %s\nHelp them refine, understand, or improve this content.", pageContext)
	}
	if workoutPlan != "" {
		fmt.Fprintf(&b, "\n\n**Current Workout Plan Summary:**\n%s", truncate(workoutPlan, planSummaryLimit))
	}
	if mealPlan != "" {
		fmt.Fprintf(&b, "\n\n**Current Meal Plan Summary:**\n%s", truncate(mealPlan, planSummaryLimit))
	}

	return b.String()
}

// PageChatSystem builds the lightweight system prompt for the floating
// page assistant, which has no profile or tools.
func PageChatSystem(pageContext string) string {
	return fmt.Sprintf("You are a fitness assistant. The user is viewing: %s. Help them refine or understand this content. Be concise and practical.", pageContext)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
