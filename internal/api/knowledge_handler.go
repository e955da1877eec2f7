package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/imyme/ai-server/internal/api/shared"
	"github.com/imyme/ai-server/internal/domain"
)

// RefineCandidatesRequest is the body for the batch refinement endpoint.
type RefineCandidatesRequest struct {
	Items []domain.RawFeedbackItem `json:"items" validate:"dive"`
}

// KnowledgeEvaluationRequest is the body for the evaluation endpoint.
type KnowledgeEvaluationRequest struct {
	Candidate domain.EvaluateCandidateInput `json:"candidate" validate:"required"`
	Similars  []domain.EvaluateSimilarInput `json:"similars"  validate:"dive"`
}

// KnowledgeService is the handler's view of the knowledge pipelines.
type KnowledgeService interface {
	RefineCandidatesBatch(ctx context.Context, items []domain.RawFeedbackItem) (*domain.RefineBatchResult, error)
	EvaluateKnowledge(ctx context.Context, candidate domain.EvaluateCandidateInput, similars []domain.EvaluateSimilarInput) (*domain.BatchKnowledgeEvaluationResult, error)
}

// KnowledgeHandler handles knowledge refinement and evaluation requests.
type KnowledgeHandler struct {
	service KnowledgeService
	logger  *slog.Logger
}

// NewKnowledgeHandler creates a KnowledgeHandler.
func NewKnowledgeHandler(service KnowledgeService, logger *slog.Logger) *KnowledgeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for KnowledgeHandler")
	}
	return &KnowledgeHandler{
		service: service,
		logger:  logger.With(slog.String("component", "knowledge_handler")),
	}
}

// RefineBatch handles POST /knowledge/candidates/batch. An empty batch is
// rejected before the service runs; a partial batch is a success with the
// failed items dropped.
func (h *KnowledgeHandler) RefineBatch(w http.ResponseWriter, r *http.Request) {
	var req RefineCandidatesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondErrorAndLog(w, r, http.StatusBadRequest,
			domain.CodeInvalidJSON, "Request body is not valid JSON", nil, err)
		return
	}

	if len(req.Items) == 0 {
		shared.RespondFailureData(w, r, http.StatusBadRequest,
			domain.RefineBatchResult{ProcessedCount: 0, Candidates: []domain.KnowledgeCandidate{}},
			domain.CodeEmptyBatchData, "The input batch is empty")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondErrorAndLog(w, r, http.StatusBadRequest,
			domain.CodeValidationError, shared.ValidationMessage(err), nil, err)
		return
	}

	result, err := h.service.RefineCandidatesBatch(r.Context(), req.Items)
	if err != nil {
		shared.RespondErrorAndLog(w, r, StatusForError(err),
			domain.CodeOf(err), "Batch refinement failed", nil, err)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, result)
}

// Evaluate handles POST /knowledge/evaluations.
func (h *KnowledgeHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req KnowledgeEvaluationRequest
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

	if len(req.Candidate.Text) > domain.MaxEvaluationTextLength {
		shared.RespondError(w, r, http.StatusBadRequest, domain.CodeTextTooLong,
			"The candidate text exceeds the length limit",
			map[string]any{
				"length": len(req.Candidate.Text),
				"limit":  domain.MaxEvaluationTextLength,
			})
		return
	}

	result, err := h.service.EvaluateKnowledge(r.Context(), req.Candidate, req.Similars)
	if err != nil {
		shared.RespondErrorAndLog(w, r, StatusForError(err),
			domain.CodeOf(err), "Knowledge evaluation failed", nil, err)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, result)
}
