package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/events"
	"github.com/imyme/ai-server/internal/task"
)

// TaskRunner is the submission-side view of the background runner.
type TaskRunner interface {
	Submit(t task.Task) error
}

// SoloService accepts analysis submissions and answers poll requests. A
// submission creates a PENDING record and enqueues the work; the caller
// gets the task key back immediately and polls for the outcome.
type SoloService struct {
	store    *task.Store
	runner   TaskRunner
	analyzer task.Analyzer
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// NewSoloService creates a SoloService. The emitter is optional.
func NewSoloService(
	store *task.Store,
	runner TaskRunner,
	analyzer task.Analyzer,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*SoloService, error) {
	if store == nil {
		return nil, task.ErrNilStore
	}
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}
	if analyzer == nil {
		return nil, task.ErrNilAnalyzer
	}
	if logger == nil {
		return nil, task.ErrNilLogger
	}
	return &SoloService{
		store:    store,
		runner:   runner,
		analyzer: analyzer,
		emitter:  emitter,
		logger:   logger.With(slog.String("component", "solo_service")),
	}, nil
}

// SubmitAnalysis registers a PENDING record under the given key and
// enqueues the analysis. An empty key gets a server-generated one. The
// returned key is what the caller polls with. Queue exhaustion is a
// synchronous error; the record is marked FAILED so a poll on the key
// does not hang forever.
func (s *SoloService) SubmitAnalysis(ctx context.Context, key string, req domain.AnalysisRequest) (string, error) {
	if key == "" {
		key = uuid.NewString()
	}

	t, err := task.NewAnalysisTask(key, req, s.store, s.analyzer, s.emitter, s.logger)
	if err != nil {
		return "", fmt.Errorf("creating analysis task: %w", err)
	}

	s.store.Create(key, task.StatusPending)
	s.emitLifecycle(ctx, key, task.StatusPending, "")

	if err := s.runner.Submit(t); err != nil {
		s.logger.Error("failed to enqueue analysis task",
			slog.String("task_key", key),
			slog.String("error", err.Error()))
		s.store.Update(key, task.StatusFailed, nil, &task.Error{
			Code:    domain.CodeInternalError,
			Message: "The server is overloaded. Please try again later.",
		})
		s.emitLifecycle(ctx, key, task.StatusFailed, string(domain.CodeInternalError))
		if errors.Is(err, task.ErrQueueFull) {
			return "", domain.WrapError(domain.CodeInternalError, "the analysis queue is full", err)
		}
		return "", fmt.Errorf("enqueueing analysis task: %w", err)
	}

	s.logger.Info("analysis submitted", slog.String("task_key", key))
	return key, nil
}

// GetTask returns the current record for a task key.
func (s *SoloService) GetTask(key string) (task.Record, bool) {
	return s.store.Get(key)
}

func (s *SoloService) emitLifecycle(ctx context.Context, key string, status task.Status, errorCode string) {
	if s.emitter == nil {
		return
	}
	event := events.NewTaskLifecycleEvent(key, string(status))
	event.ErrorCode = errorCode
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("failed to emit lifecycle event", slog.String("error", err.Error()))
	}
}
