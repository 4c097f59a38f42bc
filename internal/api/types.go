package api

// Version reported by both services' health endpoints.
const Version = "1.0.0"

// AgentRequest represents the request payload for the agent endpoints
type AgentRequest struct {
	Query   string                 `json:"query" validate:"required"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// AgentResponse represents the response payload for the agent endpoint
type AgentResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// VoiceQueryRequest represents one transcribed turn from the voice provider
type VoiceQueryRequest struct {
	TranscribedText string `json:"transcribed_text" validate:"required"`
	SessionID       string `json:"session_id"`
}

// VoiceQueryResponse echoes the session id of the turn it answers
type VoiceQueryResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// CreateCallRequest optionally overrides the provider's system prompt
type CreateCallRequest struct {
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// CreateCallResponse represents a newly created voice call
type CreateCallResponse struct {
	CallID  string `json:"call_id"`
	JoinURL string `json:"join_url"`
	Status  string `json:"status"`
}

// HealthResponse represents the liveness payload
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// InfoResponse echoes the gateway's static configuration
type InfoResponse struct {
	Service         string `json:"service"`
	BackendURL      string `json:"backend_url"`
	VoicePort       int    `json:"voice_port"`
	UltravoxEnabled bool   `json:"ultravox_enabled"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
