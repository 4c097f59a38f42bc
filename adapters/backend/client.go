package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/adrusia/voxgate/domain/repositories"
)

const (
	defaultTimeout = 30 * time.Second

	agentPath = "/agent"
)

// ClientConfig holds configuration for the text backend client.
// Required fields:
// - BaseURL: root URL of the text service (e.g. "http://localhost:8002")
// Optional fields with defaults:
// - Timeout: per-request deadline (default: 30s)
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ValidateClientConfig validates the ClientConfig.
func ValidateClientConfig(config ClientConfig) error {
	if config.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}

	if _, err := url.Parse(config.BaseURL); err != nil {
		return fmt.Errorf("invalid backend base URL: %w", err)
	}

	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", config.Timeout)
	}

	return nil
}

// Client calls the Text Service's agent endpoint on behalf of the Voice
// Gateway. One Query call issues exactly one HTTP request; there is no
// retrying, caching, or batching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure Client implements the AgentBackend interface
var _ repositories.AgentBackend = (*Client)(nil)

type agentRequest struct {
	Query string `json:"query"`
}

type agentResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// NewClient creates a new text backend client.
func NewClient(config ClientConfig, logger *zap.Logger) (*Client, error) {
	if err := ValidateClientConfig(config); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Query implements repositories.AgentBackend.
func (c *Client) Query(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(agentRequest{Query: text})
	if err != nil {
		return "", fmt.Errorf("encode backend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+agentPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Error("Backend request timed out", zap.String("url", c.baseURL+agentPath))
			return "", repositories.ErrBackendTimeout
		}
		c.logger.Error("Backend unreachable", zap.String("url", c.baseURL+agentPath), zap.Error(err))
		return "", repositories.ErrBackendUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read backend response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Backend returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", fmt.Errorf("%w: %d", repositories.ErrBackendStatus, resp.StatusCode)
	}

	var parsed agentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode backend response: %w", err)
	}

	return parsed.Response, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
