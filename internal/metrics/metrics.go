// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the server records. A single instance is
// created at startup and shared by the middleware, the task runner, and the
// services.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// LLM
	llmRequestsTotal     *prometheus.CounterVec
	llmInferenceDuration *prometheus.HistogramVec

	// STT
	sttRequestsTotal      *prometheus.CounterVec
	sttProcessingDuration prometheus.Histogram

	// Analysis tasks
	analysisTasksTotal *prometheus.CounterVec
	analysisDuration   prometheus.Histogram

	// Quality
	evaluationScore prometheus.Histogram
	evaluationLevel prometheus.Histogram
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}, []string{"method", "endpoint"}),

		llmRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total LLM requests",
		}, []string{"service", "status"}),

		llmInferenceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "llm_inference_duration_seconds",
			Help:    "LLM inference time in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}, []string{"service", "model"}),

		sttRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stt_requests_total",
			Help: "Total STT requests",
		}, []string{"status"}),

		sttProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stt_processing_duration_seconds",
			Help:    "STT processing time in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 120.0},
		}),

		analysisTasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "analysis_tasks_total",
			Help: "Total analysis tasks",
		}, []string{"status"}),

		analysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Analysis task duration in seconds",
			Buckets: []float64{0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}),

		evaluationScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "evaluation_score",
			Help:    "Evaluation overall score distribution",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		evaluationLevel: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "evaluation_level",
			Help:    "Evaluation level distribution",
			Buckets: []float64{1, 2, 3, 4, 5},
		}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusLabel(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordLLMRequest records one reasoning-provider call.
func (m *Metrics) RecordLLMRequest(service, model, status string, duration time.Duration) {
	m.llmRequestsTotal.WithLabelValues(service, status).Inc()
	m.llmInferenceDuration.WithLabelValues(service, model).Observe(duration.Seconds())
}

// RecordSTTRequest records one transcription call.
func (m *Metrics) RecordSTTRequest(status string, duration time.Duration) {
	m.sttRequestsTotal.WithLabelValues(status).Inc()
	m.sttProcessingDuration.Observe(duration.Seconds())
}

// RecordTaskStatus records an analysis task status transition.
func (m *Metrics) RecordTaskStatus(status string) {
	m.analysisTasksTotal.WithLabelValues(status).Inc()
}

// RecordAnalysisDuration records the wall time of one analysis run.
func (m *Metrics) RecordAnalysisDuration(duration time.Duration) {
	m.analysisDuration.Observe(duration.Seconds())
}

// RecordEvaluationResult records the quality distribution of one completed
// analysis.
func (m *Metrics) RecordEvaluationResult(overallScore, level int) {
	m.evaluationScore.Observe(float64(overallScore))
	m.evaluationLevel.Observe(float64(level))
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
