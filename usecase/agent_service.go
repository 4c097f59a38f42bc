package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/adrusia/voxgate/domain/repositories"
)

// Validation and sanitized-failure sentinels. Handlers map these to HTTP
// statuses; the underlying provider error never leaves the process.
var (
	ErrEmptyQuery   = errors.New("query must not be empty")
	ErrAgentFailure = errors.New("agent failed to process query")
)

// AgentService invokes the coordinator agent for the Text Service. It
// validates input before the agent is contacted and keeps provider error
// detail out of responses.
type AgentService struct {
	agent  repositories.CoordinatorAgent
	logger *zap.Logger
}

// NewAgentService creates a new agent service.
func NewAgentService(agent repositories.CoordinatorAgent, logger *zap.Logger) *AgentService {
	return &AgentService{agent: agent, logger: logger}
}

// Answer runs one synchronous coordinator completion.
func (s *AgentService) Answer(ctx context.Context, query string, queryContext map[string]interface{}) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	s.logger.Info("Processing query", zap.String("query", query))

	response, err := s.agent.Answer(ctx, query, queryContext)
	if err != nil {
		s.logger.Error("Coordinator agent failed", zap.Error(err))
		return "", ErrAgentFailure
	}

	return response, nil
}

// StreamAnswer relays the coordinator's incremental chunks to onChunk in
// arrival order. Chunk delivery errors (caller went away) are returned
// as-is; provider errors are sanitized.
func (s *AgentService) StreamAnswer(ctx context.Context, query string, onChunk func(chunk string) error) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}

	s.logger.Info("Processing streaming query", zap.String("query", query))

	var delivery error
	err := s.agent.StreamAnswer(ctx, query, func(chunk string) error {
		if err := onChunk(chunk); err != nil {
			delivery = err
			return err
		}
		return nil
	})
	if err != nil {
		if delivery != nil {
			return delivery
		}
		s.logger.Error("Coordinator agent stream failed", zap.Error(err))
		return ErrAgentFailure
	}

	return nil
}
