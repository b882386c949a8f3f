package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"churnlens/internal/config"
	"churnlens/internal/dataset"
	apperrors "churnlens/internal/errors"
	"churnlens/internal/files"
	"churnlens/internal/infrastructure"
	"churnlens/internal/middleware"
	"churnlens/internal/services"
	httphandlers "churnlens/internal/transport/http"
	"churnlens/pkg/contracts"
)

// requestTimeout bounds a single dashboard request
const requestTimeout = 30 * time.Second

// Application wires the dashboard server around one loaded dataset
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ChurnMetrics
	Dataset       *dataset.Dataset
	ChurnService  *services.ChurnService
	HealthService *services.HealthService
	ErrorHandler  *apperrors.ErrorHandler
	Router        *chi.Mux
	Server        *http.Server
}

// NewApplication loads the configured dataset and builds the dashboard server
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	a, err := newBase(cfg, logger)
	if err != nil {
		return nil, err
	}

	data, err := loadDataset(ctx, cfg, a.Paths, a.Logger, a.Metrics)
	if err != nil {
		_ = a.OTelProviders.Shutdown(context.Background())
		return nil, err
	}

	a.wire(data)
	return a, nil
}

// NewWithDataset builds the dashboard server around an already loaded dataset
func NewWithDataset(cfg *config.Config, logger *slog.Logger, data *dataset.Dataset) (*Application, error) {
	a, err := newBase(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.wire(data)
	return a, nil
}

func newBase(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, apperrors.NewConfigError("configuration is required", nil)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	paths, err := config.PathsFromConfig(cfg)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize telemetry", err)
	}

	metrics, err := infrastructure.CreateChurnMetrics(providers.Meter)
	if err != nil {
		logger.Warn("Failed to create metrics, continuing without them", slog.String("error", err.Error()))
		metrics = infrastructure.NoopChurnMetrics()
	}

	return &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  apperrors.NewErrorHandler(logger, false),
	}, nil
}

func (a *Application) wire(data *dataset.Dataset) {
	a.Dataset = data
	a.ChurnService = services.NewChurnService(data, a.Config.Analysis, a.Logger, a.Metrics)
	a.HealthService = services.NewHealthService(
		contracts.Version, contracts.BuildTime, contracts.GitCommit,
		a.Paths, a.ChurnService, a.Logger)

	a.setupRouter()
	a.createServer()
}

// setupRouter configures the HTTP router with all middleware and routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(apperrors.RecoveryMiddleware(a.ErrorHandler))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		Logger:         a.Logger,
	}))

	if rl := a.Config.Server.RateLimit; rl.Enabled && rl.RPS > 0 {
		r.Use(middleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Scraped outside the request timeout
	r.Handle("/metrics", httphandlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	churnHandler := httphandlers.NewChurnHandler(a.ChurnService, a.Logger, a.ErrorHandler)
	healthHandler := httphandlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.Compress(5))

		r.Route("/api", func(r chi.Router) {
			r.Mount("/health", healthHandler.Routes())
			r.Get("/version", healthHandler.Version)
			r.Get("/dataset", churnHandler.GetDataset)
			r.Mount("/churn", churnHandler.Routes())
		})
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	srv := a.Config.Server
	a.Server = &http.Server{
		Addr:         srv.Address(),
		Handler:      a.Router,
		ReadTimeout:  srv.ReadTimeout,
		WriteTimeout: srv.WriteTimeout,
		IdleTimeout:  srv.IdleTimeout,
	}
}

// Run serves the dashboard until ctx is cancelled, then shuts down gracefully
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("Starting dashboard server",
			slog.String("address", a.Server.Addr),
			slog.String("dataset", a.Dataset.Info.Path),
			slog.Int("rows", a.Dataset.Info.Rows))

		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop()
	})

	return g.Wait()
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop() error {
	a.Logger.Info("Shutting down dashboard server")

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
		}
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown failed: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		a.Logger.Error("Shutdown finished with errors", slog.String("error", err.Error()))
		return err
	}

	a.Logger.Info("Dashboard server stopped")
	return nil
}

// LoadDataset reads the dataset at path, or the configured one when path is
// empty, relative to the working directory.
func LoadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) (*dataset.Dataset, error) {
	if path == "" {
		path = cfg.Dataset.Path
	}
	paths, err := config.PathsFromConfig(cfg)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}
	return loadDatasetFrom(ctx, cfg.Dataset, paths.ResolveDataPath(path), logger, infrastructure.NoopChurnMetrics())
}

// loadDataset reads the configured dataset and classifies failures
func loadDataset(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger, metrics *infrastructure.ChurnMetrics) (*dataset.Dataset, error) {
	return loadDatasetFrom(ctx, cfg.Dataset, paths.ResolveDataPath(cfg.Dataset.Path), logger, metrics)
}

// loadDatasetFrom resolves path, which may be a drop directory, and loads it
func loadDatasetFrom(ctx context.Context, cfg config.DatasetConfig, path string, logger *slog.Logger, metrics *infrastructure.ChurnMetrics) (*dataset.Dataset, error) {
	resolved, err := files.NewDiscovery("").ResolveDataset(path)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to locate dataset", err).WithContext("path", path)
	}
	if resolved != path {
		logger.InfoContext(ctx, "dataset selected from directory",
			slog.String("directory", path),
			slog.String("file", resolved))
		path = resolved
	}

	data, err := dataset.NewLoader(cfg, logger, metrics).LoadDataset(ctx, path)
	if err == nil {
		return data, nil
	}

	var parseErr *dataset.ParseError
	if errors.As(err, &parseErr) {
		return nil, apperrors.NewParsingError("dataset rejected", err).WithContext("path", path)
	}
	return nil, apperrors.NewLoadError("failed to load dataset", err).WithContext("path", path)
}
