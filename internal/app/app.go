package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"agrostats/internal/config"
	"agrostats/internal/dataprocessing"
	apierrors "agrostats/internal/errors"
	"agrostats/internal/infrastructure"
	customMiddleware "agrostats/internal/middleware"
	"agrostats/internal/services"
	"agrostats/internal/sidra"
	handlers "agrostats/internal/transport/http"
	"agrostats/internal/validation"
	"agrostats/pkg/contracts"
)

const (
	AppName = "AgroStats - municipal crop production API"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Sidra      *sidra.Client
	Fetcher    *dataprocessing.Fetcher
	Production *services.ProductionService
	Crops      *services.CropService
	Health     *services.HealthService
}

// NewApplication wires every component from cfg. The caller owns logger.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(
		infrastructure.OTelConfigFrom(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the pipeline bottom-up
func (a *Application) initializeServices() {
	tracer := a.OTelProviders.Tracer

	client := sidra.NewClient(a.Config.Sidra, a.Logger, tracer)
	processor := dataprocessing.NewProcessor(dataprocessing.NewColumnMapper(a.Logger), a.Logger, a.Metrics)
	fetcher := dataprocessing.NewFetcher(client, processor, a.Config.Sidra, a.Logger, a.Metrics, tracer)

	crops := services.NewCropService(config.Crops, a.Logger)
	production := services.NewProductionService(
		validation.NewParamValidator(a.Config.Query),
		fetcher,
		a.Config.Query,
		a.Logger,
	).WithCropResolver(crops)

	health := services.NewHealthService(
		contracts.Version,
		contracts.BuildTime,
		map[string]services.Checker{
			"sidra": services.CheckerFunc(client.Check),
		},
		a.Logger,
	)

	a.Services = &ServiceContainer{
		Sidra:      client,
		Fetcher:    fetcher,
		Production: production,
		Crops:      crops,
		Health:     health,
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → StripSlashes → OTel → Logger → Recovery
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Scraped by Prometheus; kept out of rate limiting and CORS.
	metrics := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP)
	if metrics.Enabled() {
		r.Handle("/metrics", metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.SecurityHeaders)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	production := handlers.NewProductionHandler(a.Services.Production, a.Logger, a.ErrorHandler)
	cultures := handlers.NewCultureHandler(a.Services.Crops, a.Logger, a.ErrorHandler)
	health := handlers.NewHealthHandler(a.Services.Health, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/productions", production.Routes())
		r.Get("/data", production.GetProductions)

		r.Mount("/cultures", cultures.Routes())
		r.Get("/opcoes/cultures", cultures.ListCultures)

		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/health_check", health.HealthCheck)
		r.Get("/version", health.Version)
	})

	r.Get("/health_check", health.HealthCheck)
}

// getCORSConfig returns the CORS settings for the dashboard origins
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		ExposedHeaders: []string{customMiddleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Starting HTTP server",
			slog.String("address", a.Server.Addr),
			slog.String("sidra", a.Config.Sidra.BaseURL))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if interval := a.Config.Telemetry.RuntimeInterval; interval > 0 && a.OTelProviders.Meter != nil {
		collector, err := infrastructure.NewSystemMetricsCollector(a.OTelProviders.Meter, interval)
		if err != nil {
			a.Logger.WarnContext(ctx, "Runtime metrics disabled", slog.String("error", err.Error()))
		} else {
			g.Go(func() error { return collector.Run(gctx) })
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}
