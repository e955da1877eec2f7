package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/genai"

	"github.com/imyme/ai-server/internal/embedding"
	"github.com/imyme/ai-server/internal/redact"
)

// Embedder implements the embedding.Embedder interface using Google's
// Gemini embedding models. Knowledge content is stored for similarity
// search, so requests use the RETRIEVAL_DOCUMENT task type.
type Embedder struct {
	logger *slog.Logger
	client *genai.Client
	model  string

	warmOnce sync.Once
}

// NewEmbedder creates an Embedder bound to the given embedding model,
// sharing the provided client.
func NewEmbedder(logger *slog.Logger, client *genai.Client, model string) (*Embedder, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	return &Embedder{
		logger: logger.With("component", "gemini_embedder", "model", model),
		client: client,
		model:  model,
	}, nil
}

// Embed returns the embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	e.warmOnce.Do(func() {
		e.logger.InfoContext(ctx, "first embedding request, backend may need to warm up")
	})

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx,
		e.model,
		contents,
		&genai.EmbedContentConfig{
			TaskType: "RETRIEVAL_DOCUMENT",
		},
	)
	if err != nil {
		e.logger.ErrorContext(ctx, "embedding request failed", "error", redact.Error(err))
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbeddingFailed, err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", embedding.ErrEmbeddingFailed)
	}

	return result.Embeddings[0].Values, nil
}
