package repositories

import "context"

// VoiceCall is the provider's handle for a newly created call session,
// passed through verbatim to the caller.
type VoiceCall struct {
	CallID  string `json:"call_id"`
	JoinURL string `json:"join_url"`
}

// VoiceProvider abstracts the external voice-call SaaS. This repository
// only ever asks it to create calls; transcription and audio stay on the
// provider's side.
type VoiceProvider interface {
	// CreateCall asks the provider to start a new call session. An empty
	// systemPrompt selects the provider adapter's default prompt.
	CreateCall(ctx context.Context, systemPrompt string) (*VoiceCall, error)
}
