package coach

import (
	"context"
	"fmt"

	"github.com/dmaclachlan/fitcoach/internal/llm"
	"github.com/dmaclachlan/fitcoach/internal/prompts"
	"github.com/dmaclachlan/fitcoach/internal/tools"
)

// MacroEstimate is the model's nutritional estimate for one described
// meal.
type MacroEstimate struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatG     float64 `json:"fatG"`
}

// EstimateFoodMacros forces a single estimate_food_macros tool call and
// returns the parsed estimate. Nothing is persisted here; the food log
// endpoint decides what to store.
func (c *Coach) EstimateFoodMacros(ctx context.Context, description string) (*MacroEstimate, error) {
	var decls []llm.Tool
	for _, t := range c.tools.Declarations() {
		if t.Name == "estimate_food_macros" {
			decls = append(decls, t)
		}
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("estimate_food_macros tool not registered")
	}

	resp, err := c.llm.Chat(ctx, &llm.ChatRequest{
		Model: c.cfg.Model,
		Messages: []llm.Message{
			{Role: "user", Content: prompts.MacroEstimateRequest(description)},
		},
		Tools:      decls,
		MaxTokens:  c.cfg.FoodLogMaxTokens,
		ToolChoice: "any",
	})
	if err != nil {
		return nil, fmt.Errorf("estimate macros: %w", err)
	}

	for _, call := range resp.Message.ToolCalls {
		if call.Name != "estimate_food_macros" {
			continue
		}
		calories, _ := call.Arguments["calories"].(float64)
		protein, _ := call.Arguments["protein_g"].(float64)
		carbs, _ := call.Arguments["carbs_g"].(float64)
		fat, _ := call.Arguments["fat_g"].(float64)
		return &MacroEstimate{
			Calories: tools.RoundCalories(calories),
			ProteinG: tools.RoundGrams(protein),
			CarbsG:   tools.RoundGrams(carbs),
			FatG:     tools.RoundGrams(fat),
		}, nil
	}

	return nil, fmt.Errorf("model returned no macro estimate")
}
