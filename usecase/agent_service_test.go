package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

type stubCoordinator struct {
	answer string
	err    error
	calls  int
}

func (s *stubCoordinator) Answer(ctx context.Context, query string, queryContext map[string]interface{}) (string, error) {
	s.calls++
	return s.answer, s.err
}

func (s *stubCoordinator) StreamAnswer(ctx context.Context, query string, onChunk func(chunk string) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	for _, chunk := range []string{"a ", "b ", "c"} {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func TestAgentService_Answer(t *testing.T) {
	agent := &stubCoordinator{answer: "structured reply"}
	service := NewAgentService(agent, zaptest.NewLogger(t))

	response, err := service.Answer(context.Background(), "organize my tasks", nil)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if response != "structured reply" {
		t.Errorf("Expected agent response, got %q", response)
	}
}

func TestAgentService_Answer_EmptyQuery(t *testing.T) {
	agent := &stubCoordinator{answer: "never"}
	service := NewAgentService(agent, zaptest.NewLogger(t))

	tests := []string{"", "   ", "\n\t"}
	for _, query := range tests {
		if _, err := service.Answer(context.Background(), query, nil); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Expected ErrEmptyQuery for %q, got %v", query, err)
		}
	}

	if agent.calls != 0 {
		t.Errorf("Expected agent untouched on validation failure, got %d calls", agent.calls)
	}
}

func TestAgentService_Answer_SanitizesAgentError(t *testing.T) {
	agent := &stubCoordinator{err: errors.New("quota exceeded for key sk-ABC123")}
	service := NewAgentService(agent, zaptest.NewLogger(t))

	_, err := service.Answer(context.Background(), "hello", nil)
	if !errors.Is(err, ErrAgentFailure) {
		t.Fatalf("Expected ErrAgentFailure, got %v", err)
	}

	// Provider detail must not leak through the returned error.
	if errors.Is(err, agent.err) {
		t.Error("Expected provider error to be hidden from callers")
	}
}

func TestAgentService_StreamAnswer(t *testing.T) {
	agent := &stubCoordinator{}
	service := NewAgentService(agent, zaptest.NewLogger(t))

	var got []string
	err := service.StreamAnswer(context.Background(), "hello", func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamAnswer failed: %v", err)
	}

	want := []string{"a ", "b ", "c"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d chunks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestAgentService_StreamAnswer_EmptyQuery(t *testing.T) {
	agent := &stubCoordinator{}
	service := NewAgentService(agent, zaptest.NewLogger(t))

	err := service.StreamAnswer(context.Background(), " ", func(string) error { return nil })
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Expected ErrEmptyQuery, got %v", err)
	}

	if agent.calls != 0 {
		t.Errorf("Expected agent untouched on validation failure, got %d calls", agent.calls)
	}
}

func TestAgentService_StreamAnswer_DeliveryErrorPassesThrough(t *testing.T) {
	agent := &stubCoordinator{}
	service := NewAgentService(agent, zaptest.NewLogger(t))

	disconnect := errors.New("client went away")
	err := service.StreamAnswer(context.Background(), "hello", func(string) error {
		return disconnect
	})
	if !errors.Is(err, disconnect) {
		t.Errorf("Expected delivery error to pass through, got %v", err)
	}
}
