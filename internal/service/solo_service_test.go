package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/task"
)

// stubRunner records submitted tasks, or rejects them with a fixed error.
type stubRunner struct {
	submitted []task.Task
	err       error
}

func (r *stubRunner) Submit(t task.Task) error {
	if r.err != nil {
		return r.err
	}
	r.submitted = append(r.submitted, t)
	return nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(context.Context, domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	return &domain.AnalysisResult{OverallScore: 50, Level: 2}, nil
}

func newTestSoloService(t *testing.T, runner TaskRunner) (*SoloService, *task.Store) {
	t.Helper()
	store := task.NewStore(time.Minute, setupTestLogger())
	svc, err := NewSoloService(store, runner, stubAnalyzer{}, nil, setupTestLogger())
	require.NoError(t, err)
	return svc, store
}

func TestSubmitAnalysisCreatesPendingRecord(t *testing.T) {
	runner := &stubRunner{}
	svc, store := newTestSoloService(t, runner)

	key, err := svc.SubmitAnalysis(context.Background(), "attempt-7", domain.AnalysisRequest{
		UserText: "some answer text",
		Criteria: map[string]any{"focus": "grammar"},
	})

	require.NoError(t, err)
	assert.Equal(t, "attempt-7", key)
	require.Len(t, runner.submitted, 1)
	assert.Equal(t, "attempt-7", runner.submitted[0].Key())

	record, ok := store.Get("attempt-7")
	require.True(t, ok)
	assert.Equal(t, task.StatusPending, record.Status)
}

func TestSubmitAnalysisGeneratesKeyWhenEmpty(t *testing.T) {
	runner := &stubRunner{}
	svc, store := newTestSoloService(t, runner)

	key, err := svc.SubmitAnalysis(context.Background(), "", domain.AnalysisRequest{
		UserText: "some answer text",
		Criteria: map[string]any{"focus": "grammar"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, key)
	_, ok := store.Get(key)
	assert.True(t, ok)
}

func TestSubmitAnalysisQueueFull(t *testing.T) {
	runner := &stubRunner{err: task.ErrQueueFull}
	svc, store := newTestSoloService(t, runner)

	_, err := svc.SubmitAnalysis(context.Background(), "attempt-9", domain.AnalysisRequest{
		UserText: "some answer text",
		Criteria: map[string]any{"focus": "grammar"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, task.ErrQueueFull)
	assert.Equal(t, domain.CodeInternalError, domain.CodeOf(err))

	// The record must not be left PENDING forever.
	record, ok := store.Get("attempt-9")
	require.True(t, ok)
	assert.Equal(t, task.StatusFailed, record.Status)
	require.NotNil(t, record.Error)
	assert.Equal(t, domain.CodeInternalError, record.Error.Code)
}

func TestGetTask(t *testing.T) {
	svc, store := newTestSoloService(t, &stubRunner{})

	store.Create("known", task.StatusProcessing)

	record, ok := svc.GetTask("known")
	require.True(t, ok)
	assert.Equal(t, task.StatusProcessing, record.Status)

	_, ok = svc.GetTask("unknown")
	assert.False(t, ok)
}
