package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/adrusia/voxgate/usecase"
)

type noopBackend struct{}

func (noopBackend) Query(ctx context.Context, text string) (string, error) {
	return "ack: " + text, nil
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	logger := zaptest.NewLogger(t)
	relay := usecase.NewRelayService(noopBackend{}, logger)
	return NewHub(relay, logger)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()

	client := &Client{
		hub:    hub,
		send:   make(chan []byte, 1),
		connID: "conn-1",
		logger: zaptest.NewLogger(t),
	}

	hub.register <- client

	waitFor(t, func() bool { return hub.ConnectionCount() == 1 })

	hub.unregister <- client

	waitFor(t, func() bool { return hub.ConnectionCount() == 0 })

	// Unregister must close the send channel so writePump exits.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("Expected send channel closed, got a message")
		}
	case <-time.After(time.Second):
		t.Error("Expected send channel closed within a second")
	}
}

func TestClient_ForwardTranscript(t *testing.T) {
	hub := newTestHub(t)

	client := &Client{
		hub:    hub,
		send:   make(chan []byte, 1),
		connID: "conn-1",
		logger: zaptest.NewLogger(t),
	}

	client.forwardTranscript(&TranscriptMessage{
		BaseMessage:     BaseMessage{Type: MessageTypeTranscript},
		TranscribedText: "hello",
		SessionID:       "s1",
	})

	select {
	case payload := <-client.send:
		msg, err := decodeAgentResponse(payload)
		if err != nil {
			t.Fatalf("Failed to decode reply frame: %v", err)
		}
		if msg.SessionID != "s1" {
			t.Errorf("Expected session id 's1' echoed back, got %q", msg.SessionID)
		}
		if msg.Response != "ack: hello" {
			t.Errorf("Expected relayed backend reply, got %q", msg.Response)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected a reply frame within a second")
	}
}

type blockingBackend struct {
	release chan struct{}
}

func (b *blockingBackend) Query(ctx context.Context, text string) (string, error) {
	<-b.release
	return "late reply", nil
}

func TestClient_ForwardTranscript_DisconnectDuringForward(t *testing.T) {
	logger := zaptest.NewLogger(t)
	backend := &blockingBackend{release: make(chan struct{})}
	hub := NewHub(usecase.NewRelayService(backend, logger), logger)
	go hub.Run()

	client := &Client{
		hub:    hub,
		send:   make(chan []byte, 1),
		connID: "conn-1",
		logger: logger,
	}

	hub.register <- client
	waitFor(t, func() bool { return hub.ConnectionCount() == 1 })

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.forwardTranscript(&TranscriptMessage{
			BaseMessage:     BaseMessage{Type: MessageTypeTranscript},
			TranscribedText: "hello",
			SessionID:       "s1",
		})
	}()

	// Peer goes away while the backend call is still in flight.
	hub.unregister <- client
	waitFor(t, func() bool { return hub.ConnectionCount() == 0 })

	close(backend.release)

	// The late reply must be dropped, not sent on the closed channel.
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected forward to finish after the backend replied")
	}

	if _, ok := <-client.send; ok {
		t.Error("Expected no frame after disconnect")
	}
}

func decodeAgentResponse(payload []byte) (*AgentResponseMessage, error) {
	var msg AgentResponseMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met within a second")
}
