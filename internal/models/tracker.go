package models

// LoggedFood is a manually logged food item on a daily sheet.
// Timestamp is a time-of-day string (HH:MM), matching the display.
type LoggedFood struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}

// NutritionSummary is an AI estimate of total intake for one day.
type NutritionSummary struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DailyTaskSheet is the per-calendar-day record of completed plan
// tasks and logged foods. One sheet per date; sheets are never merged
// across days. Task keys are "{type}-{index}", e.g. "meal-0".
type DailyTaskSheet struct {
	Date            string            `json:"date"` // YYYY-MM-DD
	Tasks           map[string]bool   `json:"tasks"`
	LoggedFoods     []LoggedFood      `json:"loggedFoods"`
	CustomNutrition *NutritionSummary `json:"customNutrition,omitempty"`
}

// NewDailyTaskSheet returns an empty sheet for the given date.
func NewDailyTaskSheet(date string) *DailyTaskSheet {
	return &DailyTaskSheet{
		Date:        date,
		Tasks:       make(map[string]bool),
		LoggedFoods: []LoggedFood{},
	}
}
