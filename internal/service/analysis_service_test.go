package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/generation"
	"github.com/imyme/ai-server/internal/metrics"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// mockGenerator routes each prompt through a caller-supplied function and
// records the prompts it saw.
type mockGenerator struct {
	mu       sync.Mutex
	prompts  []string
	generate func(prompt string) (string, error)
}

func (m *mockGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.generate(prompt)
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// scoringOrFeedback answers the scoring and feedback prompts with the
// given payloads, telling them apart by their role preamble.
func scoringOrFeedback(scoreResp, feedbackResp string, scoreErr, feedbackErr error) func(string) (string, error) {
	return func(prompt string) (string, error) {
		if strings.Contains(prompt, "language evaluator") {
			return scoreResp, scoreErr
		}
		return feedbackResp, feedbackErr
	}
}

func newTestAnalysisService(t *testing.T, gen generation.Generator) *AnalysisService {
	t.Helper()
	svc, err := NewAnalysisService(gen, metrics.New(), setupTestLogger(), "test-model")
	require.NoError(t, err)
	return svc
}

func TestNewAnalysisServiceValidation(t *testing.T) {
	gen := &mockGenerator{generate: func(string) (string, error) { return "", nil }}

	_, err := NewAnalysisService(nil, metrics.New(), setupTestLogger(), "m")
	assert.Error(t, err)

	_, err = NewAnalysisService(gen, nil, setupTestLogger(), "m")
	assert.Error(t, err)

	_, err = NewAnalysisService(gen, metrics.New(), nil, "m")
	assert.Error(t, err)
}

func TestAnalyzeSuccess(t *testing.T) {
	gen := &mockGenerator{generate: scoringOrFeedback(
		"```json\n{\"overall_score\": 85, \"level\": 4}\n```",
		`{"summarize":"Good answer","keyword":["tense","vocabulary"],"facts":"Used past tense correctly","understanding":"Understands the topic","personalized":"Try longer sentences"}`,
		nil, nil,
	)}
	svc := newTestAnalysisService(t, gen)

	result, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		UserText: "I went to the market yesterday",
		Criteria: map[string]any{"focus": "past tense"},
	})

	require.NoError(t, err)
	assert.Equal(t, 85, result.OverallScore)
	assert.Equal(t, 4, result.Level)
	assert.Equal(t, "Good answer", result.Feedback.Summarize)
	assert.Equal(t, []string{"tense", "vocabulary"}, result.Feedback.Keyword)
	assert.Equal(t, "Try longer sentences", result.Feedback.Personalized)
	assert.Equal(t, 2, gen.callCount())
}

func TestAnalyzeDefaultsMissingLevel(t *testing.T) {
	gen := &mockGenerator{generate: scoringOrFeedback(
		`{"overall_score": 10}`,
		`{"summarize":"s","keyword":[],"facts":"f","understanding":"u","personalized":"p"}`,
		nil, nil,
	)}
	svc := newTestAnalysisService(t, gen)

	result, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		UserText: "short but valid answer",
		Criteria: map[string]any{"focus": "anything"},
	})

	require.NoError(t, err)
	assert.Equal(t, 10, result.OverallScore)
	assert.Equal(t, 1, result.Level)
}

func TestAnalyzeScoringFailure(t *testing.T) {
	providerErr := errors.New("gemini: 500 internal")
	gen := &mockGenerator{generate: scoringOrFeedback(
		"", `{"summarize":"s","keyword":[],"facts":"f","understanding":"u","personalized":"p"}`,
		providerErr, nil,
	)}
	svc := newTestAnalysisService(t, gen)

	result, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		UserText: "a perfectly fine answer",
		Criteria: map[string]any{"focus": "grammar"},
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, providerErr)
}

func TestAnalyzeFeedbackNotJSON(t *testing.T) {
	gen := &mockGenerator{generate: scoringOrFeedback(
		`{"overall_score": 50, "level": 2}`,
		"Sorry, I cannot answer that.",
		nil, nil,
	)}
	svc := newTestAnalysisService(t, gen)

	result, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		UserText: "a perfectly fine answer",
		Criteria: map[string]any{"focus": "grammar"},
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestAnalyzePromptsCarryInput(t *testing.T) {
	gen := &mockGenerator{generate: scoringOrFeedback(
		`{"overall_score": 70, "level": 3}`,
		`{"summarize":"s","keyword":[],"facts":"f","understanding":"u","personalized":"p"}`,
		nil, nil,
	)}
	svc := newTestAnalysisService(t, gen)

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		UserText: "the quick brown fox",
		Criteria: map[string]any{"focus": "vocabulary"},
		History:  []map[string]any{{"role": "user", "text": "hello"}},
	})
	require.NoError(t, err)

	require.Equal(t, 2, gen.callCount())
	for _, prompt := range gen.prompts {
		assert.Contains(t, prompt, "the quick brown fox")
		assert.Contains(t, prompt, "vocabulary")
	}
}
