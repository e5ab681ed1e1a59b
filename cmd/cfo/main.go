package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	cfohttp "github.com/felipeotarola/cfo-orchestrator/internal/adapter/http"
	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/litellm"
	cfonats "github.com/felipeotarola/cfo-orchestrator/internal/adapter/nats"
	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/otel"
	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/postgres"
	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/ristretto"
	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/ws"
	"github.com/felipeotarola/cfo-orchestrator/internal/config"
	"github.com/felipeotarola/cfo-orchestrator/internal/logger"
	"github.com/felipeotarola/cfo-orchestrator/internal/middleware"
	"github.com/felipeotarola/cfo-orchestrator/internal/resilience"
	"github.com/felipeotarola/cfo-orchestrator/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"llm_model", cfg.LLM.Model,
	)

	shutdownOtel := otel.Init(cfg.Logging.Service)
	defer func() { _ = shutdownOtel(context.Background()) }()

	ctx := context.Background()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	queue, err := cfonats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	reportCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("report cache: %w", err)
	}
	defer reportCache.Close()

	llmClient := litellm.NewClient(cfg.LLM.URL, cfg.LLM.APIKey)
	llmClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Services ---

	hub := ws.NewHub()
	store := postgres.NewStore(pool)

	classifier := service.NewClassifierService(llmClient, cfg.LLM.Model, cfg.Classifier)
	orchestrator := service.NewOrchestrator(classifier, queue, hub, metrics)
	classifier.SetFallbackHook(func() { metrics.ClassifierFallback.Add(ctx, 1) })

	orchestrator.RegisterAgent(service.NewBookkeepingAgent(store))
	orchestrator.RegisterAgent(service.NewInvoicingAgent(store))
	orchestrator.RegisterAgent(service.NewReportingAgent(store, reportCache, cfg.Cache.ReportTTL))
	orchestrator.RegisterAgent(service.NewReceiptsAgent(store))

	chatSvc := service.NewChatService(store, orchestrator)

	// --- HTTP ---

	handlers := cfohttp.NewHandlers(chatSvc, orchestrator, store, llmClient)

	r := chi.NewRouter()
	r.Use(cfohttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(cfohttp.Logger)
	r.Use(cfohttp.SecurityHeaders)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))

	r.Get("/ws", hub.HandleWS)
	cfohttp.MountRoutes(r, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("shutdown complete")
	return nil
}
