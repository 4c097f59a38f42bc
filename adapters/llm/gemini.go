package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/adrusia/voxgate/domain/repositories"
)

const (
	defaultModel           = "gemini-2.0-flash"
	defaultTemperature     = 0.7
	defaultMaxOutputTokens = 1024
	defaultTimeoutSeconds  = 30

	// Prompt the coordinator runs under for every query.
	coordinatorSystemPrompt = "You are a coordinator agent that helps organize and delegate tasks. " +
		"You analyze requests, break them down into actionable steps, and provide clear, " +
		"structured responses. Be concise and helpful."
)

// GeminiConfig holds configuration for the Gemini coordinator adapter.
// Required fields:
// - APIKey: Google AI API key
// Optional fields with defaults:
// - Model: model identifier (default: "gemini-2.0-flash")
// - Temperature: sampling temperature between 0 and 1 (default: 0.7)
// - MaxOutputTokens: completion cap (default: 1024)
// - TimeoutSeconds: per-call deadline (default: 30)
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int
	TimeoutSeconds  int
}

// NewGeminiConfigFromEnv builds a GeminiConfig from GEMINI_API_KEY.
func NewGeminiConfigFromEnv() GeminiConfig {
	return GeminiConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	}
}

// ValidateGeminiConfig validates the GeminiConfig.
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}

	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("maxOutputTokens must be positive, got %d", config.MaxOutputTokens)
	}

	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}

	return nil
}

// GeminiCoordinator implements the CoordinatorAgent interface using
// Google's Gemini API.
type GeminiCoordinator struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int
	timeoutSeconds  int
	systemPrompt    string
}

// Ensure GeminiCoordinator implements the CoordinatorAgent interface
var _ repositories.CoordinatorAgent = (*GeminiCoordinator)(nil)

// NewGeminiCoordinator creates a new Gemini-backed coordinator agent.
func NewGeminiCoordinator(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiCoordinator, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = float32(defaultTemperature)
	}

	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxOutputTokens
	}

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &GeminiCoordinator{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
		timeoutSeconds:  timeoutSeconds,
		systemPrompt:    coordinatorSystemPrompt,
	}, nil
}

// Answer implements repositories.CoordinatorAgent.
func (g *GeminiCoordinator) Answer(ctx context.Context, query string, queryContext map[string]interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	contents, err := g.buildContents(query, queryContext)
	if err != nil {
		return "", err
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.generateConfig())
	if err != nil {
		g.logger.Error("Gemini generation failed", zap.Error(err))
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := extractText(response)
	if text == "" {
		g.logger.Warn("Gemini returned no content", zap.String("model", g.model))
		return "", fmt.Errorf("model returned empty response")
	}

	return text, nil
}

// StreamAnswer implements repositories.CoordinatorAgent. Chunks are relayed
// to onChunk in arrival order without buffering the whole response.
func (g *GeminiCoordinator) StreamAnswer(ctx context.Context, query string, onChunk func(chunk string) error) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	contents, err := g.buildContents(query, nil)
	if err != nil {
		return err
	}

	for response, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, g.generateConfig()) {
		if err != nil {
			g.logger.Error("Gemini stream failed", zap.Error(err))
			return fmt.Errorf("generate content stream: %w", err)
		}

		chunk := extractText(response)
		if chunk == "" {
			continue
		}

		if err := onChunk(chunk); err != nil {
			return err
		}
	}

	return nil
}

// buildContents assembles the system prompt, optional caller context, and
// the query into the request contents.
func (g *GeminiCoordinator) buildContents(query string, queryContext map[string]interface{}) ([]*genai.Content, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(g.systemPrompt, genai.RoleUser),
	}

	if len(queryContext) > 0 {
		// Caller context is passed through opaquely, never interpreted here.
		encoded, err := json.Marshal(queryContext)
		if err != nil {
			return nil, fmt.Errorf("encode query context: %w", err)
		}
		contents = append(contents, genai.NewContentFromText("Context: "+string(encoded), genai.RoleUser))
	}

	contents = append(contents, genai.NewContentFromText(query, genai.RoleUser))
	return contents, nil
}

func (g *GeminiCoordinator) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: int32(g.maxOutputTokens),
	}
}

// extractText concatenates the text parts of the first candidate.
func extractText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}
