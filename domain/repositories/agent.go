package repositories

import "context"

// CoordinatorAgent abstracts the externally-provided agent that turns a
// text query into a text answer. Implementations delegate to an LLM
// provider; this repository never generates answers itself.
type CoordinatorAgent interface {
	// Answer runs one synchronous completion for the query. The context
	// mapping is passed through to the provider untouched.
	Answer(ctx context.Context, query string, queryContext map[string]interface{}) (string, error)

	// StreamAnswer delivers the answer as incremental text chunks in
	// arrival order. onChunk is called once per chunk; returning an error
	// from it aborts the stream. The stream is finite and non-restartable.
	StreamAnswer(ctx context.Context, query string, onChunk func(chunk string) error) error
}
