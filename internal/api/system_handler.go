package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/imyme/ai-server/internal/api/shared"
	"github.com/imyme/ai-server/internal/domain"
)

// Warmer is the handler's view of the worker warmup trigger.
type Warmer interface {
	Warmup(ctx context.Context) error
}

// SystemHandler handles operational endpoints: warmup, liveness, root.
type SystemHandler struct {
	warmer      Warmer
	logger      *slog.Logger
	serviceName string
}

// NewSystemHandler creates a SystemHandler.
func NewSystemHandler(warmer Warmer, logger *slog.Logger, serviceName string) *SystemHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SystemHandler")
	}
	return &SystemHandler{
		warmer:      warmer,
		logger:      logger.With(slog.String("component", "system_handler")),
		serviceName: serviceName,
	}
}

// Warmup handles POST /system/warmup. Submission is acknowledged with 202;
// the worker loads its model in the background.
func (h *SystemHandler) Warmup(w http.ResponseWriter, r *http.Request) {
	if err := h.warmer.Warmup(r.Context()); err != nil {
		shared.RespondErrorAndLog(w, r, http.StatusInternalServerError,
			domain.CodeGPUFail, "Worker warmup failed", nil, err)
		return
	}

	shared.RespondSuccess(w, r, http.StatusAccepted, map[string]string{
		"status": "WARMING_UP",
	})
}

// Root handles GET /, used by load balancers that probe the root path.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondSuccess(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.serviceName,
	})
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondSuccess(w, r, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
