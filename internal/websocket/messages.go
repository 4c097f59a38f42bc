package websocket

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeTranscript    MessageType = "transcript"
	MessageTypeAgentResponse MessageType = "agent_response"
	MessageTypePing          MessageType = "ping"
	MessageTypePong          MessageType = "pong"
	MessageTypeError         MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// TranscriptMessage is one transcribed turn pushed by the voice provider's
// streaming side.
type TranscriptMessage struct {
	BaseMessage
	TranscribedText string `json:"transcribed_text"`
	SessionID       string `json:"session_id"`
}

// AgentResponseMessage carries the coordinator's reply back over the same
// connection, echoing the turn's session id.
type AgentResponseMessage struct {
	BaseMessage
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ErrorMessage reports a failed turn without closing the connection
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error"`
	Message string `json:"message"`
}

// ParseTranscript decodes and validates a transcript frame.
func ParseTranscript(payload []byte) (*TranscriptMessage, error) {
	var msg TranscriptMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("malformed transcript message: %w", err)
	}

	if msg.Type != MessageTypeTranscript {
		return nil, fmt.Errorf("unexpected message type %q", msg.Type)
	}

	if strings.TrimSpace(msg.TranscribedText) == "" {
		return nil, fmt.Errorf("transcribed_text is required")
	}

	return &msg, nil
}

// NewAgentResponse builds a reply frame for a transcript turn.
func NewAgentResponse(response, sessionID string) AgentResponseMessage {
	return AgentResponseMessage{
		BaseMessage: BaseMessage{Type: MessageTypeAgentResponse},
		Response:    response,
		SessionID:   sessionID,
	}
}

// NewErrorMessage builds an error frame.
func NewErrorMessage(code, message string) ErrorMessage {
	return ErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeError},
		Code:        code,
		Message:     message,
	}
}
