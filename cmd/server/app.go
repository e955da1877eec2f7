package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/imyme/ai-server/internal/config"
	"github.com/imyme/ai-server/internal/events"
	"github.com/imyme/ai-server/internal/metrics"
	"github.com/imyme/ai-server/internal/platform/gemini"
	"github.com/imyme/ai-server/internal/platform/runpod"
	"github.com/imyme/ai-server/internal/service"
	"github.com/imyme/ai-server/internal/task"
)

// serviceName identifies the server in the root probe payload.
const serviceName = "ai-server"

// application holds the wired dependency graph. Everything is constructed
// once at startup and shared for the process lifetime.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	store  *task.Store
	runner *task.Runner

	soloService      *service.SoloService
	knowledgeService *service.KnowledgeService
	runpodClient     *runpod.Client
}

// newApplication wires every component: the Gemini client with one
// generator per model tier, the embedder, the task store and runner, the
// services, and the lifecycle event plumbing that feeds metrics.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	m := metrics.New()

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewMetricsHandler(m))

	client, err := gemini.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	flashGenerator, err := gemini.NewGenerator(logger, client, cfg.LLM, cfg.LLM.FlashModel)
	if err != nil {
		return nil, fmt.Errorf("creating flash generator: %w", err)
	}
	proGenerator, err := gemini.NewGenerator(logger, client, cfg.LLM, cfg.LLM.ProModel)
	if err != nil {
		return nil, fmt.Errorf("creating pro generator: %w", err)
	}
	embedder, err := gemini.NewEmbedder(logger, client, cfg.LLM.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	analysisService, err := service.NewAnalysisService(flashGenerator, m, logger, cfg.LLM.FlashModel)
	if err != nil {
		return nil, fmt.Errorf("creating analysis service: %w", err)
	}
	knowledgeService, err := service.NewKnowledgeService(
		flashGenerator, proGenerator, embedder, m, logger,
		cfg.LLM.FlashModel, cfg.LLM.ProModel)
	if err != nil {
		return nil, fmt.Errorf("creating knowledge service: %w", err)
	}

	store := task.NewStore(time.Duration(cfg.Task.RetentionMinutes)*time.Minute, logger)
	runner := task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)

	soloService, err := service.NewSoloService(store, runner, analysisService, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("creating solo service: %w", err)
	}

	runpodClient := runpod.NewClient(logger,
		cfg.Transcription.EndpointURL,
		cfg.Transcription.APIKey,
		time.Duration(cfg.Transcription.TimeoutSeconds)*time.Second)

	store.Start()
	runner.Start()

	return &application{
		config:           cfg,
		logger:           logger,
		metrics:          m,
		store:            store,
		runner:           runner,
		soloService:      soloService,
		knowledgeService: knowledgeService,
		runpodClient:     runpodClient,
	}, nil
}

// cleanup stops the background components in dependency order: no new
// work enters the runner once the HTTP server is down, and the store's
// janitor goes last.
func (app *application) cleanup() {
	app.runner.Stop()
	app.store.Stop()
}
