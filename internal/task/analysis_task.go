package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/events"
	"github.com/imyme/ai-server/internal/redact"
)

// Common errors
var (
	ErrNilStore    = errors.New("task store cannot be nil")
	ErrNilAnalyzer = errors.New("analyzer cannot be nil")
	ErrNilLogger   = errors.New("logger cannot be nil")
	ErrEmptyKey    = errors.New("task key cannot be empty")
)

// Analyzer runs the scoring/feedback fan-out for one analysis request.
// Defined here, implemented by the service layer.
type Analyzer interface {
	// Analyze evaluates the request and returns the aggregated result.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error)
}

// AnalysisTask drives one submitted analysis request to a terminal task
// record: PROCESSING, then exactly one of COMPLETED or FAILED. It owns all
// failure classification; Execute itself never returns an error for
// analysis failures.
type AnalysisTask struct {
	key         string
	req         domain.AnalysisRequest
	store       *Store
	analyzer    Analyzer
	emitter     events.EventEmitter
	logger      *slog.Logger
	submittedAt time.Time
}

// NewAnalysisTask creates an analysis task for the given store key.
// The emitter is optional.
func NewAnalysisTask(
	key string,
	req domain.AnalysisRequest,
	store *Store,
	analyzer Analyzer,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*AnalysisTask, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if store == nil {
		return nil, ErrNilStore
	}
	if analyzer == nil {
		return nil, ErrNilAnalyzer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &AnalysisTask{
		key:         key,
		req:         req,
		store:       store,
		analyzer:    analyzer,
		emitter:     emitter,
		logger:      logger.With("task_type", TypeSoloAnalysis, "task_key", key),
		submittedAt: time.Now(),
	}, nil
}

// Key returns the task's store key
func (t *AnalysisTask) Key() string {
	return t.key
}

// Type returns the task type identifier
func (t *AnalysisTask) Type() string {
	return TypeSoloAnalysis
}

// Execute runs the analysis to a terminal state.
func (t *AnalysisTask) Execute(ctx context.Context) error {
	t.logger.Info("started analysis")

	t.transition(ctx, StatusProcessing, nil, nil)

	if len(t.req.Criteria) == 0 {
		t.logger.Info("analysis rejected, criteria missing")
		t.fail(ctx, domain.CodeMissingContext)
		return nil
	}

	if t.req.IsTooShort() {
		// Not an error: short input gets a fixed low-confidence result
		// without touching any provider.
		t.logger.Info("text too short, returning fixed feedback",
			"text_length", len(t.req.UserText))
		t.transition(ctx, StatusCompleted, domain.ShortTextResult(), nil)
		return nil
	}

	result, err := t.analyzer.Analyze(ctx, t.req)
	if err != nil {
		t.logger.Error("analysis failed", "error", redact.Error(err))
		t.fail(ctx, ClassifyFailure(err))
		return nil
	}

	t.transition(ctx, StatusCompleted, result, nil)
	t.logger.Info("analysis completed",
		"overall_score", result.OverallScore,
		"level", result.Level)
	return nil
}

// fail writes the terminal FAILED record with a user-safe message; the
// underlying error text stays in the logs only.
func (t *AnalysisTask) fail(ctx context.Context, code domain.Code) {
	t.transition(ctx, StatusFailed, nil, &Error{
		Code:    code,
		Message: fmt.Sprintf("An error occurred while processing the analysis. (%s)", code),
	})
}

func (t *AnalysisTask) transition(ctx context.Context, status Status, result any, taskErr *Error) {
	t.store.Update(t.key, status, result, taskErr)

	if t.emitter == nil {
		return
	}

	event := events.NewTaskLifecycleEvent(t.key, string(status))
	if status.IsTerminal() {
		event.Duration = time.Since(t.submittedAt)
	}
	if taskErr != nil {
		event.ErrorCode = string(taskErr.Code)
	}
	if err := t.emitter.EmitEvent(ctx, event); err != nil {
		t.logger.Warn("failed to emit lifecycle event", "error", err)
	}
}
