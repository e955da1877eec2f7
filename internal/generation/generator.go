package generation

import "context"

// Generator defines the interface for text generation against an external
// reasoning provider. Implementations are safe for concurrent use; one
// instance is shared across requests for the process lifetime.
type Generator interface {
	// GenerateText sends the prompt to the provider and returns the raw
	// generated text. The returned text may still carry markdown code
	// fences; callers parsing structured output should strip them first.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
