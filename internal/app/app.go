// Package app wires the application together: configuration, logging, the
// ingestion pipeline, the analytics service and the HTTP server.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salama/internal/analytics"
	"salama/internal/config"
	"salama/internal/dataprocessing"
	"salama/internal/exporter"
	"salama/internal/infrastructure"
	custommw "salama/internal/middleware"
	"salama/internal/services"
	handlers "salama/internal/transport/http"
	"salama/pkg/contracts"
)

// Application is the dependency container for the web server.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	DataService   *services.DataService
	HealthService *services.HealthService

	registry  *prometheus.Registry
	logCloser io.Closer
}

// NewApplication builds the application from configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, logCloser, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", contracts.Version),
		slog.Int("port", cfg.Server.Port))

	manifest, err := config.LoadManifest(cfg.Pipeline.ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load source manifest: %w", err)
	}

	processor := dataprocessing.NewProcessor(logger, dataprocessing.LoaderConfig{
		BaseDir:     cfg.Pipeline.DataDir,
		Encodings:   cfg.Pipeline.Encodings,
		Parallelism: cfg.Pipeline.Parallelism,
		HeaderPromoter: dataprocessing.HeaderPromoterConfig{
			StringRatio:      cfg.Pipeline.HeaderRatio,
			PlaceholderRatio: cfg.Pipeline.PlaceholderRatio,
		},
	})
	analyticsSvc := analytics.NewService(logger, time.Now)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		registry:  prometheus.NewRegistry(),
		logCloser: logCloser,
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app.DataService = services.NewDataService(logger, processor, analyticsSvc, manifest.ToLoaderManifest())
	app.HealthService = services.NewHealthService(logger, app.DataService)

	app.setupRouter()
	app.createServer()
	return app, nil
}

// setupRouter configures the HTTP router and all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.NewMetrics(a.registry).Handler)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", healthHandler.Version)

		dataHandler := handlers.NewDataHandler(a.DataService, a.Logger)
		r.Mount("/", dataHandler.Routes())

		analyticsHandler := handlers.NewAnalyticsHandler(a.DataService, a.Logger)
		r.Mount("/analytics", analyticsHandler.Routes())

		exportHandler := handlers.NewExportHandler(
			a.DataService,
			exporter.NewCSVWriter(a.Logger, a.Config.Export.OutputDir),
			exporter.NewExcelWriter(a.Logger, a.Config.Export.OutputDir),
			exporter.NewJSONWriter(a.Logger, a.Config.Export.OutputDir),
			a.Logger,
		)
		r.Mount("/export", exportHandler.Routes())
	})

	a.Router = r
}

// createServer creates the HTTP server from configuration.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run performs the initial data load, serves HTTP and blocks until shutdown.
// A failed initial load is logged but not fatal; the API reports degraded
// health until a reload succeeds.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.DataService.Reload(ctx); err != nil {
		a.Logger.Error("initial data load failed",
			slog.String("error", err.Error()))
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
	return nil
}
