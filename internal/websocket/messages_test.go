package websocket

import (
	"encoding/json"
	"testing"
)

func TestParseTranscript(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{
			name:    "valid transcript",
			message: `{"type":"transcript","transcribed_text":"hello there","session_id":"s1"}`,
			wantErr: false,
		},
		{
			name:    "missing transcribed_text",
			message: `{"type":"transcript","session_id":"s1"}`,
			wantErr: true,
		},
		{
			name:    "whitespace transcribed_text",
			message: `{"type":"transcript","transcribed_text":"   ","session_id":"s1"}`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			message: `{"type":"agent_response","transcribed_text":"hello"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			message: `{"type":"transcript"`,
			wantErr: true,
		},
		{
			name:    "empty session id is allowed",
			message: `{"type":"transcript","transcribed_text":"hello"}`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseTranscript([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTranscript() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && msg.TranscribedText == "" {
				t.Error("Expected transcribed text on valid message")
			}
		})
	}
}

func TestParseTranscript_SessionPassThrough(t *testing.T) {
	msg, err := ParseTranscript([]byte(`{"type":"transcript","transcribed_text":"hi","session_id":"abc-123"}`))
	if err != nil {
		t.Fatalf("ParseTranscript failed: %v", err)
	}

	if msg.SessionID != "abc-123" {
		t.Errorf("Expected session id 'abc-123', got %q", msg.SessionID)
	}
}

func TestNewAgentResponse(t *testing.T) {
	frame := NewAgentResponse("hello back", "s1")

	payload, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["type"] != string(MessageTypeAgentResponse) {
		t.Errorf("Expected type %q, got %v", MessageTypeAgentResponse, decoded["type"])
	}

	if decoded["session_id"] != "s1" {
		t.Errorf("Expected session id 's1', got %v", decoded["session_id"])
	}
}
