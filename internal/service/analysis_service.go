package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/generation"
	"github.com/imyme/ai-server/internal/metrics"
	"github.com/imyme/ai-server/internal/redact"
)

// AnalysisService computes a full analysis result for one submission by
// fanning out the scoring and feedback model calls and joining the halves.
// It satisfies the task package's Analyzer interface.
type AnalysisService struct {
	generator generation.Generator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	model     string
}

// NewAnalysisService creates an AnalysisService. The generator should be
// backed by the fast model; both halves of the analysis use it.
func NewAnalysisService(generator generation.Generator, m *metrics.Metrics, logger *slog.Logger, model string) (*AnalysisService, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &AnalysisService{
		generator: generator,
		metrics:   m,
		logger:    logger.With(slog.String("component", "analysis_service")),
		model:     model,
	}, nil
}

// Analyze runs the scoring and feedback calls concurrently and aggregates
// them. Either half failing fails the whole analysis; there is no partial
// result.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	var (
		score    domain.ScoreResult
		feedback domain.Feedback
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := s.evaluateScore(gctx, req)
		if err != nil {
			return err
		}
		score = *result
		return nil
	})
	g.Go(func() error {
		result, err := s.generateFeedback(gctx, req)
		if err != nil {
			return err
		}
		feedback = *result
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.metrics.RecordEvaluationResult(score.OverallScore, score.Level)

	return &domain.AnalysisResult{
		OverallScore: score.OverallScore,
		Level:        score.Level,
		Feedback:     feedback,
	}, nil
}

func (s *AnalysisService) evaluateScore(ctx context.Context, req domain.AnalysisRequest) (*domain.ScoreResult, error) {
	start := time.Now()

	text, err := s.generator.GenerateText(ctx, buildScoringPrompt(req.UserText, req.Criteria))
	if err != nil {
		s.metrics.RecordLLMRequest("scoring", s.model, "failed", time.Since(start))
		s.logger.Error("scoring call failed", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	var score domain.ScoreResult
	if err := json.Unmarshal([]byte(generation.StripCodeFences(text)), &score); err != nil {
		s.metrics.RecordLLMRequest("scoring", s.model, "failed", time.Since(start))
		s.logger.Error("scoring response was not valid JSON", slog.String("error", err.Error()))
		return nil, fmt.Errorf("parsing score response: %w", generation.ErrInvalidResponse)
	}
	if score.Level == 0 {
		score.Level = 1
	}

	s.metrics.RecordLLMRequest("scoring", s.model, "success", time.Since(start))
	return &score, nil
}

func (s *AnalysisService) generateFeedback(ctx context.Context, req domain.AnalysisRequest) (*domain.Feedback, error) {
	start := time.Now()

	text, err := s.generator.GenerateText(ctx, buildFeedbackPrompt(req.UserText, req.Criteria, req.History))
	if err != nil {
		s.metrics.RecordLLMRequest("feedback", s.model, "failed", time.Since(start))
		s.logger.Error("feedback call failed", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("feedback generation failed: %w", err)
	}

	var feedback domain.Feedback
	if err := json.Unmarshal([]byte(generation.StripCodeFences(text)), &feedback); err != nil {
		s.metrics.RecordLLMRequest("feedback", s.model, "failed", time.Since(start))
		s.logger.Error("feedback response was not valid JSON", slog.String("error", err.Error()))
		return nil, fmt.Errorf("parsing feedback response: %w", generation.ErrInvalidResponse)
	}

	s.metrics.RecordLLMRequest("feedback", s.model, "success", time.Since(start))
	return &feedback, nil
}
