package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/adrusia/voxgate/domain/repositories"
)

// MockCoordinator is a placeholder coordinator for tests and keyless
// local development.
type MockCoordinator struct{}

// NewMockCoordinator creates a new mock coordinator agent.
func NewMockCoordinator() repositories.CoordinatorAgent {
	return &MockCoordinator{}
}

// Answer implements repositories.CoordinatorAgent.
func (m *MockCoordinator) Answer(ctx context.Context, query string, queryContext map[string]interface{}) (string, error) {
	return fmt.Sprintf("Here is a structured plan for: %s", query), nil
}

// StreamAnswer implements repositories.CoordinatorAgent. The mock splits
// its canned answer on spaces, mirroring how the streaming endpoint is
// consumed downstream.
func (m *MockCoordinator) StreamAnswer(ctx context.Context, query string, onChunk func(chunk string) error) error {
	answer, err := m.Answer(ctx, query, nil)
	if err != nil {
		return err
	}

	for _, word := range strings.Split(answer, " ") {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := onChunk(word + " "); err != nil {
			return err
		}
	}

	return nil
}
