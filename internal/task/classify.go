package task

import (
	"errors"
	"strings"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/embedding"
	"github.com/imyme/ai-server/internal/generation"
)

// ClassifyFailure maps an analysis failure to an error code. Errors tagged
// at the provider-call boundary are classified structurally; for everything
// else a substring heuristic on the error text decides the failure family,
// falling back to INTERNAL_ERROR when nothing matches.
func ClassifyFailure(err error) domain.Code {
	if err == nil {
		return domain.CodeInternalError
	}

	// Structured classification first.
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	if errors.Is(err, generation.ErrGenerationFailed) ||
		errors.Is(err, generation.ErrInvalidResponse) ||
		errors.Is(err, generation.ErrContentBlocked) ||
		errors.Is(err, generation.ErrTransientFailure) {
		return domain.CodeLLMProviderError
	}
	if errors.Is(err, embedding.ErrEmbeddingFailed) {
		return domain.CodeEmbeddingFailure
	}

	// Substring fallback for errors whose origin cannot be distinguished
	// otherwise.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "llm"),
		strings.Contains(msg, "gemini"),
		strings.Contains(msg, "500"):
		return domain.CodeLLMProviderError
	case strings.Contains(msg, "embedding"),
		strings.Contains(msg, "vector"):
		return domain.CodeEmbeddingFailure
	default:
		return domain.CodeInternalError
	}
}
