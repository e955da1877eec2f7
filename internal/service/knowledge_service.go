package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/embedding"
	"github.com/imyme/ai-server/internal/generation"
	"github.com/imyme/ai-server/internal/metrics"
	"github.com/imyme/ai-server/internal/redact"
)

// KnowledgeService refines raw feedback into knowledge candidates and
// evaluates candidates against existing similar entries. Refinement uses
// the fast model; evaluation uses the reasoning model.
type KnowledgeService struct {
	refiner   generation.Generator
	evaluator generation.Generator
	embedder  embedding.Embedder
	metrics   *metrics.Metrics
	logger    *slog.Logger

	refinerModel   string
	evaluatorModel string
}

// NewKnowledgeService creates a KnowledgeService.
func NewKnowledgeService(
	refiner generation.Generator,
	evaluator generation.Generator,
	embedder embedding.Embedder,
	m *metrics.Metrics,
	logger *slog.Logger,
	refinerModel, evaluatorModel string,
) (*KnowledgeService, error) {
	if refiner == nil || evaluator == nil {
		return nil, fmt.Errorf("generators cannot be nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &KnowledgeService{
		refiner:        refiner,
		evaluator:      evaluator,
		embedder:       embedder,
		metrics:        m,
		logger:         logger.With(slog.String("component", "knowledge_service")),
		refinerModel:   refinerModel,
		evaluatorModel: evaluatorModel,
	}, nil
}

// RefineCandidatesBatch refines every item concurrently. An item whose
// refinement or embedding fails is dropped from the batch; its siblings
// are unaffected. ProcessedCount counts only the surviving candidates.
func (s *KnowledgeService) RefineCandidatesBatch(ctx context.Context, items []domain.RawFeedbackItem) (*domain.RefineBatchResult, error) {
	results := make([]*domain.KnowledgeCandidate, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item domain.RawFeedbackItem) {
			defer wg.Done()
			candidate, err := s.refineItem(ctx, item)
			if err != nil {
				s.logger.Error("failed to refine item",
					slog.String("item_id", item.ID),
					slog.String("error", redact.Error(err)))
				return
			}
			results[i] = candidate
		}(i, item)
	}
	wg.Wait()

	candidates := make([]domain.KnowledgeCandidate, 0, len(items))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}

	return &domain.RefineBatchResult{
		ProcessedCount: len(candidates),
		Candidates:     candidates,
	}, nil
}

func (s *KnowledgeService) refineItem(ctx context.Context, item domain.RawFeedbackItem) (*domain.KnowledgeCandidate, error) {
	start := time.Now()

	refined, err := s.refiner.GenerateText(ctx, buildRefinementPrompt(item.Keyword, item.RawFeedback))
	if err != nil {
		s.metrics.RecordLLMRequest("refinement", s.refinerModel, "failed", time.Since(start))
		return nil, fmt.Errorf("refining feedback: %w", err)
	}
	s.metrics.RecordLLMRequest("refinement", s.refinerModel, "success", time.Since(start))

	vector, err := s.embedder.Embed(ctx, refined)
	if err != nil {
		return nil, fmt.Errorf("embedding refined text: %w", err)
	}

	return &domain.KnowledgeCandidate{
		ID:          item.ID,
		Keyword:     item.Keyword,
		RefinedText: refined,
		Embedding:   vector,
	}, nil
}

// rawEvaluationResult mirrors one element of the model's results array.
// TargetID is left loose because the model sometimes emits numeric IDs.
type rawEvaluationResult struct {
	Decision     string `json:"decision"`
	TargetID     any    `json:"targetId"`
	FinalContent string `json:"finalContent"`
	Reasoning    string `json:"reasoning"`
}

// EvaluateKnowledge evaluates a candidate against its similar entries in
// a single reasoning-model call. An unparseable response fails the whole
// call; an empty results array is a valid empty batch.
func (s *KnowledgeService) EvaluateKnowledge(ctx context.Context, candidate domain.EvaluateCandidateInput, similars []domain.EvaluateSimilarInput) (*domain.BatchKnowledgeEvaluationResult, error) {
	start := time.Now()

	text, err := s.evaluator.GenerateText(ctx, buildEvaluationPrompt(candidate, similars))
	if err != nil {
		s.metrics.RecordLLMRequest("evaluation", s.evaluatorModel, "failed", time.Since(start))
		s.logger.Error("evaluation call failed", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	cleaned := generation.StripCodeFences(text)
	var parsed struct {
		Results []rawEvaluationResult `json:"results"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		s.metrics.RecordLLMRequest("evaluation", s.evaluatorModel, "failed", time.Since(start))
		s.logger.Error("evaluation response was not valid JSON", slog.String("error", err.Error()))
		return nil, domain.NewError(domain.CodeInvalidLLMResponse, "the model returned an unparseable evaluation")
	}
	s.metrics.RecordLLMRequest("evaluation", s.evaluatorModel, "success", time.Since(start))

	if len(parsed.Results) == 0 {
		s.logger.Warn("no results in evaluation response, returning empty batch")
		return &domain.BatchKnowledgeEvaluationResult{Results: []domain.KnowledgeEvaluationResult{}}, nil
	}

	results := make([]domain.KnowledgeEvaluationResult, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		decision := domain.KnowledgeAction(item.Decision)
		if !decision.IsValid() {
			s.logger.Warn("invalid decision from model, defaulting to IGNORE",
				slog.String("decision", item.Decision))
			decision = domain.KnowledgeActionIgnore
		}

		var vector []float32
		if decision == domain.KnowledgeActionUpdate && item.FinalContent != "" {
			vector, err = s.embedder.Embed(ctx, item.FinalContent)
			if err != nil {
				return nil, fmt.Errorf("embedding final content: %w", err)
			}
		}

		results = append(results, domain.KnowledgeEvaluationResult{
			Decision:     decision,
			TargetID:     normalizeTargetID(item.TargetID),
			FinalContent: item.FinalContent,
			FinalVector:  vector,
			Reasoning:    item.Reasoning,
		})
	}

	return &domain.BatchKnowledgeEvaluationResult{Results: results}, nil
}

// normalizeTargetID renders the model-supplied target ID as a string.
// JSON numbers arrive as float64; integral values are printed without a
// decimal point.
func normalizeTargetID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
