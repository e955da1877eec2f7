package events

import (
	"context"
	"time"
)

// TaskLifecycleEvent records one task status transition. Terminal events
// carry the task's total wall time and, for failures, the error code.
type TaskLifecycleEvent struct {
	// TaskKey identifies the task the transition belongs to
	TaskKey string `json:"task_key"`

	// Status is the status the task transitioned to
	Status string `json:"status"`

	// ErrorCode is set on FAILED transitions
	ErrorCode string `json:"error_code,omitempty"`

	// Duration is the elapsed time since submission, set on terminal
	// transitions
	Duration time.Duration `json:"duration,omitempty"`

	// OccurredAt is the timestamp of the transition
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskLifecycleEvent creates an event for the given transition.
func NewTaskLifecycleEvent(taskKey, status string) *TaskLifecycleEvent {
	return &TaskLifecycleEvent{
		TaskKey:    taskKey,
		Status:     status,
		OccurredAt: time.Now(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskLifecycleEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the task runner to publish transitions without direct
// knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskLifecycleEvent) error
}
