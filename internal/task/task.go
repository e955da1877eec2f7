package task

import (
	"context"
	"time"

	"github.com/imyme/ai-server/internal/domain"
)

// Status represents the current state of a task. Values are part of the
// API contract: clients poll until they observe a terminal status.
type Status string

// Possible task status values
const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// IsTerminal reports whether the status is final. Terminal records are
// never mutated again.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task type constants
const (
	// TypeSoloAnalysis is the task type for deep analysis of one submission
	TypeSoloAnalysis = "solo_analysis"
)

// Task represents a unit of background work to be processed
type Task interface {
	// Key returns the task's store key
	Key() string

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic. Execute drives the task's store record
	// to a terminal state and never returns an error for business
	// failures; the returned error only signals abnormal execution worth
	// surfacing to the runner's error handler.
	Execute(ctx context.Context) error
}

// Error is the structured error stored on a FAILED record. Message is
// user-safe; raw provider errors never appear here.
type Error struct {
	Code    domain.Code `json:"code"`
	Message string      `json:"message"`
}

// Record is one task's state as seen by pollers. Exactly one of
// Result/Error is set once the status is terminal; non-terminal records
// carry neither.
type Record struct {
	Key       string    `json:"taskId"`
	Status    Status    `json:"status"`
	Result    any       `json:"result,omitempty"`
	Error     *Error    `json:"error,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
