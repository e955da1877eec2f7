// Package embedding defines the boundary to external embedding providers,
// which convert text into fixed-dimension numeric vectors for similarity
// comparison.
package embedding

import (
	"context"
	"errors"
)

// Common errors returned by embedding providers.
var (
	// ErrEmbeddingFailed is returned when the embedding backend rejects or
	// fails the request
	ErrEmbeddingFailed = errors.New("failed to generate embedding")

	// ErrEmptyText is returned when there is no text to embed
	ErrEmptyText = errors.New("text to embed cannot be empty")
)

// Embedder defines the interface for converting text into an embedding
// vector. Implementations are safe for concurrent use and are shared
// process-wide; the first call may incur a one-time initialization cost.
type Embedder interface {
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
