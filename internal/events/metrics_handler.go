package events

import (
	"context"

	"github.com/imyme/ai-server/internal/metrics"
)

// MetricsHandler feeds task lifecycle transitions into the Prometheus
// collectors.
type MetricsHandler struct {
	metrics *metrics.Metrics
}

// NewMetricsHandler creates a MetricsHandler.
func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// HandleEvent implements EventHandler.
func (h *MetricsHandler) HandleEvent(_ context.Context, event *TaskLifecycleEvent) error {
	h.metrics.RecordTaskStatus(event.Status)
	if event.Duration > 0 {
		h.metrics.RecordAnalysisDuration(event.Duration)
	}
	return nil
}
