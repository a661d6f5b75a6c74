package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nutriplan/backend/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the OpenAI gateway.
type OpenAIConfig struct {
	APIKey     string `json:"api_key"`
	TextModel  string `json:"text_model"`
	ImageModel string `json:"image_model"`
}

// OpenAIGateway implements Gateway on the OpenAI API.
type OpenAIGateway struct {
	client     *openai.Client
	textModel  string
	imageModel string
}

// NewOpenAIGateway creates the OpenAI client. The API key falls back
// to the OPENAI_API_KEY environment variable.
func NewOpenAIGateway(cfg OpenAIConfig) (*OpenAIGateway, error) {
	cfg.APIKey = envOr(cfg.APIKey, "OPENAI_API_KEY")
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if cfg.TextModel == "" {
		cfg.TextModel = openai.GPT4oMini
		slog.Warn("openai text model not set, defaulting to gpt-4o-mini")
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = openai.CreateImageModelDallE3
	}
	return &OpenAIGateway{
		client:     openai.NewClient(cfg.APIKey),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}, nil
}

func (o *OpenAIGateway) complete(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.textModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIGateway) SynthesizePlan(ctx context.Context, profile models.UserProfile) (*models.WellnessPlan, error) {
	text, err := o.complete(ctx, planSystemInstruction, planPrompt(profile), true)
	if err != nil {
		return nil, err
	}
	return decodePlan(text)
}

func (o *OpenAIGateway) SynthesizeWelcomeEmail(ctx context.Context, name, email, clinicalID string) string {
	text, err := o.complete(ctx, welcomeSystemInstruction, welcomePrompt(name, email, clinicalID), false)
	if err != nil || text == "" {
		if err != nil {
			slog.Warn("welcome email synthesis failed, using fallback", "error", err)
		}
		return welcomeFallback(clinicalID)
	}
	return text
}

func (o *OpenAIGateway) SynthesizeImage(ctx context.Context, subject ImageSubject, name, contextText string) (string, error) {
	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         imagePrompt(subject, name, contextText),
		Model:          o.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageSynthesis, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", ErrImageSynthesis
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

func (o *OpenAIGateway) EstimateNutrition(ctx context.Context, foods []string) (*models.NutritionSummary, error) {
	text, err := o.complete(ctx, nutritionSystemInstruction, nutritionPrompt(foods), true)
	if err != nil {
		return nil, err
	}
	return decodeNutrition(text)
}

func (o *OpenAIGateway) StreamChatReply(ctx context.Context, history []models.ChatMessage, message string) (<-chan string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: chatSystemInstruction},
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: message,
	})

	stream, err := o.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    o.textModel,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if err != nil {
				// Mid-stream failure is stream termination.
				if !errors.Is(err, io.EOF) {
					slog.Warn("chat stream interrupted", "error", err)
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case out <- delta:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
