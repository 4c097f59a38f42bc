package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/adrusia/voxgate/domain/repositories"
)

// ErrEmptyTranscript rejects voice turns with no transcribed text.
var ErrEmptyTranscript = errors.New("transcribed text must not be empty")

// VoiceTurn is one transcribed utterance from the voice provider. The
// session id is opaque; it is never stored or validated here.
type VoiceTurn struct {
	TranscribedText string
	SessionID       string
}

// VoiceReply pairs the coordinator's answer with the session id the turn
// arrived with.
type VoiceReply struct {
	Response  string
	SessionID string
}

// RelayService forwards voice turns from the gateway to the text backend.
// One turn in produces exactly one backend call out.
type RelayService struct {
	backend repositories.AgentBackend
	logger  *zap.Logger
}

// NewRelayService creates a new relay service.
func NewRelayService(backend repositories.AgentBackend, logger *zap.Logger) *RelayService {
	return &RelayService{backend: backend, logger: logger}
}

// Forward sends the turn's text to the backend and returns the reply with
// the same session id the turn carried (pass-through, never generated).
func (s *RelayService) Forward(ctx context.Context, turn VoiceTurn) (VoiceReply, error) {
	if strings.TrimSpace(turn.TranscribedText) == "" {
		return VoiceReply{}, ErrEmptyTranscript
	}

	s.logger.Info("Forwarding voice query",
		zap.String("session_id", turn.SessionID),
		zap.String("transcribed_text", turn.TranscribedText))

	response, err := s.backend.Query(ctx, turn.TranscribedText)
	if err != nil {
		return VoiceReply{}, err
	}

	return VoiceReply{
		Response:  response,
		SessionID: turn.SessionID,
	}, nil
}
