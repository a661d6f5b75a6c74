package ai

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nutriplan/backend/internal/models"
)

var (
	// ErrEmptyResponse means the upstream call returned no content.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrMalformedResponse means the content could not be parsed into
	// the expected shape.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrImageSynthesis means no image payload was present in the
	// response.
	ErrImageSynthesis = errors.New("image synthesis failed")
)

// ImageSubject selects the prompt framing for image synthesis.
type ImageSubject string

const (
	SubjectMeal    ImageSubject = "meal"
	SubjectWorkout ImageSubject = "workout"
	SubjectYoga    ImageSubject = "yoga"
)

// Gateway is the sole integration point to the generative content
// service. Implementations are external collaborators with a fixed
// request/response contract; the remote model's behavior is out of
// scope.
type Gateway interface {
	// SynthesizePlan turns a biometric profile into a structured plan
	// (5 meals, 4 exercises, 4 poses).
	SynthesizePlan(ctx context.Context, profile models.UserProfile) (*models.WellnessPlan, error)

	// SynthesizeWelcomeEmail composes the onboarding mail body. It
	// never fails outward: on any upstream problem it returns a
	// deterministic fallback embedding the clinical ID.
	SynthesizeWelcomeEmail(ctx context.Context, name, email, clinicalID string) string

	// SynthesizeImage returns an inline base64 image payload for a
	// plan entry.
	SynthesizeImage(ctx context.Context, subject ImageSubject, name, contextText string) (string, error)

	// EstimateNutrition estimates daily totals for free-text food
	// descriptions.
	EstimateNutrition(ctx context.Context, foods []string) (*models.NutritionSummary, error)

	// StreamChatReply produces an ordered, finite sequence of text
	// fragments. The channel closes on completion; a mid-stream
	// failure is treated as stream termination, not an error.
	StreamChatReply(ctx context.Context, history []models.ChatMessage, message string) (<-chan string, error)
}

// Config selects and configures a gateway provider.
type Config struct {
	Provider string       `json:"provider"` // "google" or "openai"
	Google   GoogleConfig `json:"google"`
	OpenAI   OpenAIConfig `json:"openai"`
}

// New creates a gateway for the configured provider.
func New(ctx context.Context, cfg Config) (Gateway, error) {
	switch cfg.Provider {
	case "google", "":
		return NewGoogleGateway(ctx, cfg.Google)
	case "openai":
		return NewOpenAIGateway(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// envOr returns the environment variable value when the config field
// is unset.
func envOr(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}
