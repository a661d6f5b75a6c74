package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nutriplan/backend/internal/models"
)

// stripJSONFence removes a surrounding markdown code fence, which some
// models emit even when asked for raw JSON.
func stripJSONFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

func decodePlan(text string) (*models.WellnessPlan, error) {
	text = stripJSONFence(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	var plan models.WellnessPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(plan.MealPlan) == 0 || len(plan.WorkoutPlan) == 0 || len(plan.YogaPlan) == 0 {
		return nil, fmt.Errorf("%w: plan sections missing", ErrMalformedResponse)
	}
	return &plan, nil
}

func decodeNutrition(text string) (*models.NutritionSummary, error) {
	text = stripJSONFence(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	var summary models.NutritionSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &summary, nil
}
