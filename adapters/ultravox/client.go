package ultravox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/adrusia/voxgate/domain/repositories"
)

const (
	defaultAPIBaseURL  = "https://api.fixie.ai/ultravox"
	defaultModel       = "fixie-ai/ultravox"
	defaultTemperature = 0.7
	defaultTimeout     = 30 * time.Second

	// Prompt used for calls created without a caller-supplied override.
	defaultSystemPrompt = "You are a helpful voice assistant. Answer questions concisely and naturally."

	callsPath = "/calls"
)

// Config holds configuration for the Ultravox client.
// Required fields:
// - APIKey: Ultravox API key
// Optional fields with defaults:
// - APIBaseURL: the base URL for the Ultravox API (default: "https://api.fixie.ai/ultravox")
// - Model: voice model identifier (default: "fixie-ai/ultravox")
// - Temperature: sampling temperature between 0 and 1 (default: 0.7)
// - Timeout: per-request deadline (default: 30s)
type Config struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewConfigFromEnv builds a Config from ULTRAVOX_API_KEY.
func NewConfigFromEnv() Config {
	return Config{
		APIKey: os.Getenv("ULTRAVOX_API_KEY"),
	}
}

// ValidateConfig validates the Config.
func ValidateConfig(config Config) error {
	if config.APIKey == "" {
		return fmt.Errorf("ultravox API key is required")
	}

	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", config.Timeout)
	}

	return nil
}

// Client creates call sessions against the Ultravox API. The transcribed
// speech itself never passes through this client; Ultravox drives the
// gateway's query endpoints directly once a call is up.
type Client struct {
	apiKey       string
	apiBaseURL   string
	model        string
	temperature  float64
	systemPrompt string
	httpClient   *http.Client
	logger       *zap.Logger
}

// Ensure Client implements the VoiceProvider interface
var _ repositories.VoiceProvider = (*Client)(nil)

type createCallRequest struct {
	SystemPrompt string  `json:"systemPrompt"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
}

type createCallResponse struct {
	CallID  string `json:"call_id"`
	JoinURL string `json:"join_url"`
}

// NewClient creates a new Ultravox client.
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:       config.APIKey,
		apiBaseURL:   apiBaseURL,
		model:        model,
		temperature:  temperature,
		systemPrompt: defaultSystemPrompt,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}, nil
}

// CreateCall implements repositories.VoiceProvider. The provider-assigned
// call id and join URL are returned verbatim; rejection is surfaced to the
// caller without retrying.
func (c *Client) CreateCall(ctx context.Context, systemPrompt string) (*repositories.VoiceCall, error) {
	if systemPrompt == "" {
		systemPrompt = c.systemPrompt
	}

	payload, err := json.Marshal(createCallRequest{
		SystemPrompt: systemPrompt,
		Model:        c.model,
		Temperature:  c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("encode call request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+callsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build call request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Ultravox request failed", zap.Error(err))
		return nil, repositories.ErrBackendUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read call response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("Ultravox rejected call creation",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%w: %d", repositories.ErrBackendStatus, resp.StatusCode)
	}

	var parsed createCallResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode call response: %w", err)
	}

	c.logger.Info("Created voice call", zap.String("call_id", parsed.CallID))

	return &repositories.VoiceCall{
		CallID:  parsed.CallID,
		JoinURL: parsed.JoinURL,
	}, nil
}
