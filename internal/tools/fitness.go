package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

// Store is the slice of the persistence layer the tool handlers need.
type Store interface {
	ReplaceActivities(userID string, activities []store.ActivityInput) ([]store.Activity, error)
	UpdateEquipment(userID, category string, items []string) error
}

// RoundCalories rounds a calorie estimate to a whole number.
func RoundCalories(v float64) int {
	return int(math.Round(v))
}

// RoundGrams rounds a macro gram estimate to one decimal place.
func RoundGrams(v float64) float64 {
	return math.Round(v*10) / 10
}

func (r *Registry) registerBuiltins() {
	// Replace the user's recurring activities
	r.Register(&Tool{
		Name: "manage_activities",
		Description: "Update the user's list of other activities/sports (e.g., tennis, BJJ, running). " +
			"This REPLACES the entire activity list, so include all activities the user currently does, " +
			"not just the new one. Use when the user mentions starting, stopping, or changing a recurring activity.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"activities": map[string]any{
					"type":        "array",
					"description": "The complete updated list of the user's activities. Pass an empty array to clear all activities.",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name": map[string]any{
								"type":        "string",
								"description": "Name of the activity (e.g., Tennis, BJJ, Running)",
							},
							"daysOfWeek": map[string]any{
								"type":        "array",
								"description": "Days of the week the user does this activity (e.g., [\"Monday\", \"Thursday\"]). Empty if unknown or flexible.",
								"items":       map[string]any{"type": "string"},
							},
						},
						"required": []string{"name"},
					},
				},
			},
			"required": []string{"activities"},
		},
		Handler:   r.handleManageActivities,
		Summarize: summarizeActivities,
	})

	// Update available equipment
	r.Register(&Tool{
		Name: "update_equipment",
		Description: "Update the user's available workout equipment. Use when the user mentions acquiring " +
			"new equipment or changing where they train.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"equipmentType": map[string]any{
					"type":        "string",
					"description": "The equipment category",
					"enum":        []string{store.EquipmentNone, store.EquipmentDumbbells, store.EquipmentHomeGym, store.EquipmentGym},
				},
				"equipmentItems": map[string]any{
					"type":        "array",
					"description": "Specific equipment items the user has (e.g., [\"Barbell\", \"Squat Rack / Power Rack\"]). Empty for bodyweight-only.",
					"items":       map[string]any{"type": "string"},
				},
			},
			"required": []string{"equipmentType"},
		},
		Handler:   r.handleUpdateEquipment,
		Summarize: summarizeEquipment,
	})

	// Estimate food macros
	r.Register(&Tool{
		Name: "estimate_food_macros",
		Description: "Estimate the calories and macronutrients for a described meal or food item. " +
			"Use your nutrition knowledge to give a reasonable estimate.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"description": map[string]any{
					"type":        "string",
					"description": "The food or meal being estimated",
				},
				"calories": map[string]any{
					"type":        "number",
					"description": "Estimated total calories (kcal)",
				},
				"protein_g": map[string]any{
					"type":        "number",
					"description": "Estimated protein in grams",
				},
				"carbs_g": map[string]any{
					"type":        "number",
					"description": "Estimated carbohydrates in grams",
				},
				"fat_g": map[string]any{
					"type":        "number",
					"description": "Estimated fat in grams",
				},
			},
			"required": []string{"description", "calories", "protein_g", "carbs_g", "fat_g"},
		},
		Handler:   handleEstimateMacros,
		Summarize: summarizeMacros,
	})
}

// parseActivities coerces the model's loosely-typed arguments into
// activity inputs.
func parseActivities(args map[string]any) []store.ActivityInput {
	raw, _ := args["activities"].([]any)
	inputs := make([]store.ActivityInput, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			continue
		}
		input := store.ActivityInput{Name: name}
		if days, ok := m["daysOfWeek"].([]any); ok {
			for _, d := range days {
				if s, ok := d.(string); ok {
					input.Days = append(input.Days, s)
				}
			}
		}
		inputs = append(inputs, input)
	}
	return inputs
}

func (r *Registry) handleManageActivities(_ context.Context, userID string, args map[string]any) (string, error) {
	inputs := parseActivities(args)
	saved, err := r.store.ReplaceActivities(userID, inputs)
	if err != nil {
		return "", err
	}

	if len(saved) == 0 {
		return "Successfully updated activities: cleared all activities.", nil
	}
	names := make([]string, len(saved))
	for i, a := range saved {
		names[i] = a.Name
	}
	return fmt.Sprintf("Successfully updated activities: %s.", strings.Join(names, ", ")), nil
}

func summarizeActivities(args map[string]any) string {
	inputs := parseActivities(args)
	if len(inputs) == 0 {
		return "Cleared all activities"
	}
	parts := make([]string, len(inputs))
	for i, a := range inputs {
		if len(a.Days) > 0 {
			parts[i] = fmt.Sprintf("%s (%s)", a.Name, strings.Join(a.Days, ", "))
		} else {
			parts[i] = a.Name
		}
	}
	return "Updated activities: " + strings.Join(parts, "; ")
}

func parseEquipment(args map[string]any) (string, []string) {
	category, _ := args["equipmentType"].(string)
	var items []string
	if raw, ok := args["equipmentItems"].([]any); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok && s != "" {
				items = append(items, s)
			}
		}
	}
	return category, items
}

func (r *Registry) handleUpdateEquipment(_ context.Context, userID string, args map[string]any) (string, error) {
	category, items := parseEquipment(args)
	if category == "" {
		return "", fmt.Errorf("equipmentType is required")
	}
	if err := r.store.UpdateEquipment(userID, category, items); err != nil {
		return "", err
	}

	itemList := "none"
	if len(items) > 0 {
		itemList = strings.Join(items, ", ")
	}
	return fmt.Sprintf("Successfully updated equipment to %s with items: %s.", category, itemList), nil
}

func summarizeEquipment(args map[string]any) string {
	category, items := parseEquipment(args)
	return fmt.Sprintf("Updated equipment type to %q with %d item(s)", category, len(items))
}

// handleEstimateMacros has no side effects: the model does the
// estimating and this just echoes it back in a stable format.
func handleEstimateMacros(_ context.Context, _ string, args map[string]any) (string, error) {
	description, _ := args["description"].(string)
	if description == "" {
		return "", fmt.Errorf("description is required")
	}
	calories, _ := args["calories"].(float64)
	protein, _ := args["protein_g"].(float64)
	carbs, _ := args["carbs_g"].(float64)
	fat, _ := args["fat_g"].(float64)

	return fmt.Sprintf("Estimated macros for %q: %d kcal, %gg protein, %gg carbs, %gg fat.",
		description, RoundCalories(calories), RoundGrams(protein), RoundGrams(carbs), RoundGrams(fat)), nil
}

func summarizeMacros(args map[string]any) string {
	calories, _ := args["calories"].(float64)
	protein, _ := args["protein_g"].(float64)
	carbs, _ := args["carbs_g"].(float64)
	fat, _ := args["fat_g"].(float64)
	return fmt.Sprintf("Macro estimate: %d kcal, %gg protein, %gg carbs, %gg fat",
		RoundCalories(calories), RoundGrams(protein), RoundGrams(carbs), RoundGrams(fat))
}
