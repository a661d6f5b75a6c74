package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/nutriplan/backend/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GoogleConfig holds configuration for the Vertex AI gateway.
type GoogleConfig struct {
	ProjectID       string `json:"project_id"`
	Location        string `json:"location"`
	CredentialsFile string `json:"credentials_file"`
	TextModel       string `json:"text_model"`
	ImageModel      string `json:"image_model"`
}

// GoogleGateway implements Gateway on Vertex AI Gemini models.
type GoogleGateway struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

// NewGoogleGateway creates the Vertex AI client. Missing config values
// fall back to environment variables.
func NewGoogleGateway(ctx context.Context, cfg GoogleConfig) (*GoogleGateway, error) {
	cfg.ProjectID = envOr(cfg.ProjectID, "GOOGLE_PROJECT_ID")
	cfg.Location = envOr(cfg.Location, "GOOGLE_LOCATION")
	cfg.CredentialsFile = envOr(cfg.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	if cfg.TextModel == "" {
		cfg.TextModel = "gemini-3-flash-preview"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gemini-2.5-flash-image"
	}

	opts := []option.ClientOption{}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &GoogleGateway{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}, nil
}

func (g *GoogleGateway) textGenerator(systemInstruction string, jsonOutput bool) *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.textModel)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	if jsonOutput {
		m.GenerationConfig.ResponseMIMEType = "application/json"
	}
	return m
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

func (g *GoogleGateway) SynthesizePlan(ctx context.Context, profile models.UserProfile) (*models.WellnessPlan, error) {
	m := g.textGenerator(planSystemInstruction, true)
	resp, err := m.GenerateContent(ctx, genai.Text(planPrompt(profile)))
	if err != nil {
		return nil, fmt.Errorf("failed to call ai: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return decodePlan(text)
}

func (g *GoogleGateway) SynthesizeWelcomeEmail(ctx context.Context, name, email, clinicalID string) string {
	m := g.textGenerator(welcomeSystemInstruction, false)
	resp, err := m.GenerateContent(ctx, genai.Text(welcomePrompt(name, email, clinicalID)))
	if err != nil {
		slog.Warn("welcome email synthesis failed, using fallback", "error", err)
		return welcomeFallback(clinicalID)
	}
	if text := responseText(resp); text != "" {
		return text
	}
	return welcomeFallback(clinicalID)
}

func (g *GoogleGateway) SynthesizeImage(ctx context.Context, subject ImageSubject, name, contextText string) (string, error) {
	m := g.client.GenerativeModel(g.imageModel)
	resp, err := m.GenerateContent(ctx, genai.Text(imagePrompt(subject, name, contextText)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageSynthesis, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrImageSynthesis
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return "data:image/png;base64," + base64.StdEncoding.EncodeToString(blob.Data), nil
		}
	}
	return "", ErrImageSynthesis
}

func (g *GoogleGateway) EstimateNutrition(ctx context.Context, foods []string) (*models.NutritionSummary, error) {
	m := g.textGenerator(nutritionSystemInstruction, true)
	resp, err := m.GenerateContent(ctx, genai.Text(nutritionPrompt(foods)))
	if err != nil {
		return nil, fmt.Errorf("failed to call ai: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return decodeNutrition(text)
}

func (g *GoogleGateway) StreamChatReply(ctx context.Context, history []models.ChatMessage, message string) (<-chan string, error) {
	m := g.textGenerator(chatSystemInstruction, false)
	cs := m.StartChat()
	for _, turn := range history {
		role := "user"
		if turn.Role == "model" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	iter := cs.SendMessageStream(ctx, genai.Text(message))
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			resp, err := iter.Next()
			if err != nil {
				// Mid-stream failure is stream termination.
				if err != iterator.Done {
					slog.Warn("chat stream interrupted", "error", err)
				}
				return
			}
			text := responseText(resp)
			if text == "" {
				continue
			}
			select {
			case out <- text:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close releases the underlying client.
func (g *GoogleGateway) Close() error {
	return g.client.Close()
}
