package repositories

import (
	"context"
	"errors"
)

// Typed failures for the outbound hop to the text backend. Handlers map
// these to HTTP statuses exactly once; nothing in this repository retries.
var (
	// ErrBackendTimeout means the backend did not answer within the
	// configured deadline.
	ErrBackendTimeout = errors.New("backend request timed out")

	// ErrBackendUnavailable means the backend could not be reached at all.
	ErrBackendUnavailable = errors.New("backend unreachable")

	// ErrBackendStatus means the backend answered with a non-success status.
	ErrBackendStatus = errors.New("backend returned error status")
)

// AgentBackend abstracts the Text Service as seen from the Voice Gateway.
// One call in produces exactly one HTTP call out.
type AgentBackend interface {
	// Query sends the transcribed text to the backend's agent endpoint and
	// returns the agent's reply.
	Query(ctx context.Context, text string) (string, error)
}
