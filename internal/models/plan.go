package models

import (
	"encoding/json"
)

// UserProfile is the biometric/preference form the client submits to
// request a new wellness protocol.
type UserProfile struct {
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	Weight         float64 `json:"weight"` // kg
	Height         float64 `json:"height"` // cm
	ActivityLevel  string  `json:"activityLevel"`
	Conditions     string  `json:"conditions"`
	Allergies      string  `json:"allergies"`
	DietType       string  `json:"dietType"`
	Persona        string  `json:"persona"`
	Goal           string  `json:"goal"`
	TargetCalories int     `json:"targetCalories,omitempty"`
	MacroFocus     string  `json:"macroFocus,omitempty"`
}

// Meal is one of the five meal events in a plan. ImageURL starts empty
// and is backfilled by the enrichment pipeline.
type Meal struct {
	Meal                 string   `json:"meal"`
	Time                 string   `json:"time"`
	Suggestions          []string `json:"suggestions"`
	PreparationSteps     []string `json:"preparationSteps"`
	NutritionalBenefits  string   `json:"nutritionalBenefits"`
	PrepTime             string   `json:"prepTime"`
	ImageURL             string   `json:"imageUrl,omitempty"`
}

// Exercise is one of the four strength-protocol entries.
type Exercise struct {
	Name         string   `json:"name"`
	Sets         string   `json:"sets"`
	Reps         string   `json:"reps"`
	Instructions []string `json:"instructions"`
	Precautions  string   `json:"precautions"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// YogaPose is one of the four mind-body entries.
type YogaPose struct {
	Name         string   `json:"name"`
	Duration     string   `json:"duration"`
	Instructions []string `json:"instructions"`
	Precautions  string   `json:"precautions"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// Macros holds daily macro targets in grams.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// WellnessPlan is the structured output of plan synthesis. Plans are
// immutable once generated except for image backfill and direct user
// edits to meal text.
type WellnessPlan struct {
	DailyCalories float64    `json:"dailyCalories"`
	Macros        Macros     `json:"macros"`
	MealPlan      []Meal     `json:"mealPlan"`
	WorkoutPlan   []Exercise `json:"workoutPlan"`
	YogaPlan      []YogaPose `json:"yogaPlan"`
	Hydration     string     `json:"hydration"`
	LifestyleTips []string   `json:"lifestyleTips"`
	MedicalAdvice string     `json:"medicalAdvice"`
	Disclaimer    string     `json:"disclaimer"`
}

// Clone returns a deep copy of the plan via a JSON round trip, so a
// snapshot can be mutated without touching the original.
func (p *WellnessPlan) Clone() *WellnessPlan {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	var out WellnessPlan
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return &out
}

// SavedPlan is an archived snapshot of a wellness plan.
type SavedPlan struct {
	ID        string       `json:"id"`
	Timestamp int64        `json:"timestamp"` // unix milliseconds
	Label     string       `json:"label"`
	Plan      WellnessPlan `json:"plan"`
}

// ChatMessage is a single turn in the nutrition chat.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}
