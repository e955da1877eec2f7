package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/imyme/ai-server/internal/api/shared"
	"github.com/imyme/ai-server/internal/domain"
	"github.com/imyme/ai-server/internal/task"
)

// SoloSubmissionRequest is the body for submitting an analysis. AttemptID
// is the caller's polling key; when omitted the server generates one.
type SoloSubmissionRequest struct {
	AttemptID int64            `json:"attemptId"`
	UserText  string           `json:"userText" validate:"required"`
	Criteria  map[string]any   `json:"criteria"`
	History   []map[string]any `json:"history"`
}

// SoloSubmissionData acknowledges an accepted submission.
type SoloSubmissionData struct {
	AttemptID string `json:"attemptId"`
	Status    string `json:"status"`
}

// SoloResultData is the polling payload. Result is nil until the task
// completes.
type SoloResultData struct {
	AttemptID string `json:"attemptId"`
	Status    string `json:"status"`
	Result    any    `json:"result"`
}

// SoloHandler handles analysis submission and polling.
type SoloHandler struct {
	service SoloService
	logger  *slog.Logger
}

// SoloService is the handler's view of the submission service.
type SoloService interface {
	SubmitAnalysis(ctx context.Context, key string, req domain.AnalysisRequest) (string, error)
	GetTask(key string) (task.Record, bool)
}

// NewSoloHandler creates a SoloHandler.
func NewSoloHandler(service SoloService, logger *slog.Logger) *SoloHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SoloHandler")
	}
	return &SoloHandler{
		service: service,
		logger:  logger.With(slog.String("component", "solo_handler")),
	}
}

// Submit handles POST /solo/submissions. It registers the analysis as a
// background task and acknowledges with 202 immediately.
func (h *SoloHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SoloSubmissionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondErrorAndLog(w, r, http.StatusBadRequest,
			domain.CodeInvalidJSON, "Request body is not valid JSON", nil, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondErrorAndLog(w, r, http.StatusBadRequest,
			domain.CodeValidationError, shared.ValidationMessage(err), nil, err)
		return
	}

	key := ""
	if req.AttemptID != 0 {
		key = strconv.FormatInt(req.AttemptID, 10)
	}

	key, err := h.service.SubmitAnalysis(r.Context(), key, domain.AnalysisRequest{
		UserText: req.UserText,
		Criteria: req.Criteria,
		History:  req.History,
	})
	if err != nil {
		shared.RespondErrorAndLog(w, r, StatusForError(err),
			domain.CodeOf(err), "Failed to register the analysis task", nil, err)
		return
	}

	shared.RespondSuccess(w, r, http.StatusAccepted, SoloSubmissionData{
		AttemptID: key,
		Status:    string(task.StatusPending),
	})
}

// GetResult handles GET /solo/submissions/{attemptId}. It reports the
// current task state; 404 means the key is unknown or already evicted.
func (h *SoloHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptId")

	record, ok := h.service.GetTask(attemptID)
	if !ok {
		shared.RespondError(w, r, http.StatusNotFound, domain.CodeTaskNotFound,
			"The task does not exist or has expired",
			map[string]any{"attemptId": attemptID})
		return
	}

	if record.Status == task.StatusFailed {
		data := SoloResultData{
			AttemptID: attemptID,
			Status:    string(record.Status),
		}
		code := domain.CodeInternalError
		message := "The analysis failed"
		if record.Error != nil {
			code = record.Error.Code
			message = record.Error.Message
		}
		shared.RespondFailureData(w, r, http.StatusOK, data, code, message)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, SoloResultData{
		AttemptID: attemptID,
		Status:    string(record.Status),
		Result:    record.Result,
	})
}
