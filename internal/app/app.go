package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/shirtsearch/internal/catalog"
	"github.com/utafrali/shirtsearch/internal/config"
	"github.com/utafrali/shirtsearch/internal/event"
	handler "github.com/utafrali/shirtsearch/internal/handler/http"
	"github.com/utafrali/shirtsearch/internal/service"
	"github.com/utafrali/shirtsearch/pkg/health"
	"github.com/utafrali/shirtsearch/pkg/httpclient"
	pkgkafka "github.com/utafrali/shirtsearch/pkg/kafka"
	"github.com/utafrali/shirtsearch/pkg/tracing"
)

// App wires together all dependencies and runs the shirt search service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	searchService  *service.SearchService
	consumers      []*pkgkafka.Consumer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// The initial catalog load is fatal unless Kafka is enabled, in which case a
// catalog may still arrive as an event and readiness reports the gap.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.CatalogTimeout+5*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "shirtsearch",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	source, err := newSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Build the service layer and load the first catalog.
	searchService := service.NewSearchService(source, logger)

	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.CatalogTimeout)
	_, err = searchService.Reload(loadCtx)
	loadCancel()
	if err != nil {
		if !cfg.KafkaEnabled {
			return nil, fmt.Errorf("load initial catalog: %w", err)
		}
		logger.Warn("initial catalog load failed, waiting for catalog events",
			slog.String("error", err.Error()),
		)
	}

	// Kafka consumer for catalog snapshots.
	var consumers []*pkgkafka.Consumer
	if cfg.KafkaEnabled {
		eventConsumer := event.NewConsumer(searchService, logger)
		consumerCfg := pkgkafka.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			GroupID:  cfg.KafkaGroupID,
			Topic:    event.TopicCatalogPublished,
			MinBytes: 1,
			MaxBytes: 10e6, // 10 MB
		}
		consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
		logger.Info("kafka consumer initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", event.TopicCatalogPublished),
		)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("catalog", searchService.Ready)
	if cfg.KafkaEnabled {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
	}

	// HTTP router.
	router := handler.NewRouter(searchService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		searchService:  searchService,
		consumers:      consumers,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

func newSource(cfg *config.Config, logger *slog.Logger) (catalog.Source, error) {
	switch cfg.CatalogSource {
	case config.CatalogSourceFile:
		logger.Info("using file catalog source", slog.String("path", cfg.CatalogPath))
		return catalog.NewFileSource(cfg.CatalogPath), nil
	case config.CatalogSourceHTTP:
		clientCfg := httpclient.DefaultConfig()
		clientCfg.Timeout = cfg.CatalogTimeout
		logger.Info("using http catalog source", slog.String("url", cfg.CatalogURL))
		return catalog.NewHTTPSource(cfg.CatalogURL, clientCfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and Kafka consumers, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	// Start Kafka consumers in background goroutines.
	for _, c := range a.consumers {
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	// Start HTTP server.
	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.Int("catalog_shirts", a.searchService.CatalogSize()),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Close Kafka consumers.
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
