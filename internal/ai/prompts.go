package ai

import (
	"fmt"
	"strings"

	"github.com/nutriplan/backend/internal/models"
)

const planSystemInstruction = "You are a Senior Clinical Wellness Consultant. " +
	"You provide professional, high-detail health protocols. Meal plans must " +
	"include specific portion sizes and exact cooking steps. Activity plans " +
	"must prioritize biomechanical safety and clear instructions."

const welcomeSystemInstruction = "You are the NutriPlan AI Automated Onboarding " +
	"System. You send professional, clinical-grade welcome communications " +
	"containing official identifiers."

const nutritionSystemInstruction = "You are a clinical nutrition estimator. " +
	"Provide reasonable estimates for calories, protein, carbs, and fats in " +
	"grams based on food descriptions. Return JSON ONLY."

const chatSystemInstruction = "You are a Clinical Nutrition Assistant. Be " +
	"extremely concise and fast. Use Markdown. Focus on clinical accuracy."

func planPrompt(p models.UserProfile) string {
	conditions := p.Conditions
	if conditions == "" {
		conditions = "None"
	}
	return fmt.Sprintf(`Generate a COMPREHENSIVE clinical wellness strategy for a %d-year-old %s (%s).

BIO-CONTEXT:
- Stats: %.0fkg, %.0fcm
- Activity: %s
- Medical History: %s
- Allergies: %s
- Diet: %s | Goal: %s

REQUIRED SECTIONS (STRICT FORMATTING):
1. Nutrition: 5 specific Meal Events.
   - suggestions: MUST be a detailed list of ingredients with exact weights/portions (e.g., "150g Grilled Chicken Breast", "1/2 cup Quinoa").
   - preparationSteps: MUST be professional, numbered, step-by-step culinary instructions. Avoid vague summaries.
2. Strength Protocol (Workout): 4 exercises tailored to their profile.
   - instructions: 3-4 specific movement cues.
   - precautions: Age/condition-specific safety warnings.
3. Mind-Body Protocol (Yoga): 4 poses/sequences.
   - instructions: Detailed alignment and breathing cues.
   - precautions: 1 critical contraindication warning.

Return ONLY valid JSON matching this structure:
{"dailyCalories": number, "macros": {"protein": number, "carbs": number, "fats": number},
 "mealPlan": [{"meal": string, "time": string, "suggestions": [string], "preparationSteps": [string], "prepTime": string, "nutritionalBenefits": string}],
 "workoutPlan": [{"name": string, "sets": string, "reps": string, "instructions": [string], "precautions": string}],
 "yogaPlan": [{"name": string, "duration": string, "instructions": [string], "precautions": string}],
 "hydration": string, "lifestyleTips": [string], "medicalAdvice": string, "disclaimer": string}
Ensure all instructions are actionable and precise.`,
		p.Age, p.Gender, p.Persona, p.Weight, p.Height, p.ActivityLevel,
		conditions, p.Allergies, p.DietType, p.Goal)
}

func welcomePrompt(name, email, clinicalID string) string {
	return fmt.Sprintf(`Write a professional, welcoming, and high-detail clinical "Welcome Protocol" email for a new practitioner named %s who just joined NutriPlan AI.

MANDATORY DATA:
- Clinical Practitioner ID: %s
- Registry Email: %s

The email should outline:
1. Official confirmation of their new Clinical ID: %s.
2. Brief explanation of the AI's biometric synthesis capabilities.
3. A note on data privacy and AES-256 encryption standards.
4. Steps to initialize their first wellness protocol.

Keep it formal, medical-grade, and encouraging. Use Markdown formatting.`,
		name, clinicalID, email, clinicalID)
}

// welcomeFallback is the deterministic body used when welcome-mail
// synthesis yields nothing.
func welcomeFallback(clinicalID string) string {
	return fmt.Sprintf("Welcome to NutriPlan AI. Your account is now active. Your Clinical ID is %s.", clinicalID)
}

func nutritionPrompt(foods []string) string {
	return fmt.Sprintf(`Estimate total nutritional value for this list of foods consumed in one day: %s.
Return a single JSON object with keys "calories", "protein", "carbs", "fats" and numeric estimated totals. Be realistic based on average portion sizes.`,
		strings.Join(foods, ", "))
}

func imagePrompt(subject ImageSubject, name, contextText string) string {
	var description string
	switch subject {
	case SubjectMeal:
		description = fmt.Sprintf("A top-down professional food photography shot of a delicious and healthy %s, featuring ingredients like %s. Served on a minimalist ceramic plate.", name, contextText)
	case SubjectWorkout:
		description = fmt.Sprintf("A fitness photography style shot showing the correct starting position or peak contraction of the exercise: %s. Character wearing athletic gear in a modern, brightly lit gym environment.", name)
	case SubjectYoga:
		description = fmt.Sprintf("A peaceful wellness photography shot of the yoga posture %s. Person in a calm, neutral-colored studio with soft morning light. Focus on poise and alignment.", name)
	}
	return description + " 4k resolution, clean background, sharp focus, professional lighting, realistic aesthetic."
}
