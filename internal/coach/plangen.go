package coach

import (
	"context"
	"fmt"

	"github.com/dmaclachlan/fitcoach/internal/llm"
	"github.com/dmaclachlan/fitcoach/internal/prompts"
	"github.com/dmaclachlan/fitcoach/internal/store"
)

// GenerateWorkoutPlan asks the model for a fresh weekly workout plan
// and persists it as the user's latest.
func (c *Coach) GenerateWorkoutPlan(ctx context.Context, userID string) (*store.Plan, error) {
	return c.generatePlan(ctx, userID, store.PlanWorkout, prompts.WorkoutRequest)
}

// GenerateMealPlan asks the model for a fresh 7-day meal plan and
// persists it as the user's latest.
func (c *Coach) GenerateMealPlan(ctx context.Context, userID string) (*store.Plan, error) {
	return c.generatePlan(ctx, userID, store.PlanMeal, prompts.MealPlanRequest)
}

func (c *Coach) generatePlan(ctx context.Context, userID, kind string, request func(*store.Profile) string) (*store.Plan, error) {
	profile, err := c.store.GetProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, store.ErrNoProfile
	}

	resp, err := c.llm.Chat(ctx, &llm.ChatRequest{
		Model: c.cfg.Model,
		Messages: []llm.Message{
			{Role: "system", Content: prompts.ProfileContext(profile)},
			{Role: "user", Content: request(profile)},
		},
		MaxTokens: c.cfg.PlanMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s plan: %w", kind, err)
	}

	plan, err := c.store.SavePlan(userID, kind, resp.Message.Content)
	if err != nil {
		return nil, fmt.Errorf("save %s plan: %w", kind, err)
	}

	c.logger.Info("plan generated", "kind", kind, "user_id", userID,
		"output_tokens", resp.OutputTokens)
	return plan, nil
}
