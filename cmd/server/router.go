package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imyme/ai-server/internal/api"
	apimiddleware "github.com/imyme/ai-server/internal/api/middleware"
)

// setupRouter builds the full route tree. Probe and metrics endpoints sit
// outside the secret gate; everything under /api/v1 requires the internal
// secret when one is configured.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)
	r.Use(apimiddleware.Metrics(app.metrics))
	r.Use(apimiddleware.InternalAuth(app.config.Auth.InternalSecret))

	soloHandler := api.NewSoloHandler(app.soloService, app.logger)
	knowledgeHandler := api.NewKnowledgeHandler(app.knowledgeService, app.logger)
	transcriptionHandler := api.NewTranscriptionHandler(
		app.runpodClient, app.metrics, app.logger, app.config.Transcription.Language)
	systemHandler := api.NewSystemHandler(app.runpodClient, app.logger, serviceName)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solo/submissions", soloHandler.Submit)
		r.Get("/solo/submissions/{attemptId}", soloHandler.GetResult)

		r.Post("/knowledge/candidates/batch", knowledgeHandler.RefineBatch)
		r.Post("/knowledge/evaluations", knowledgeHandler.Evaluate)

		r.Post("/audio/transcriptions", transcriptionHandler.Transcribe)

		r.Post("/system/warmup", systemHandler.Warmup)
	})

	r.Get("/", systemHandler.Root)
	r.Get("/health", systemHandler.Health)
	r.Handle("/metrics", promhttp.HandlerFor(app.metrics.Registry(), promhttp.HandlerOpts{}))

	return r
}
