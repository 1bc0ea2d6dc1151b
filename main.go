package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blogem/telemetry-log/config"
	"github.com/blogem/telemetry-log/controllers"
	"github.com/blogem/telemetry-log/database"
	"github.com/blogem/telemetry-log/logging"
	appmiddleware "github.com/blogem/telemetry-log/middleware"
	"github.com/blogem/telemetry-log/repositories"
	"github.com/blogem/telemetry-log/services"
)

const serviceName = "telemetry-log"

func main() {
	// Load configuration from .env and the environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Initialize the log store
	store, err := database.InitializeStore(cfg.StorePath)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry store: %v", err)
	}

	// Initialize repositories
	repos := repositories.NewRepositories(store)

	// Initialize services
	srvs := services.NewServices(repos, logger)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, controllers.Options{
		MaxBodyBytes:    cfg.MaxBodyBytes,
		HistoryLimit:    cfg.HistoryLimit,
		MaxHistoryLimit: cfg.MaxHistoryLimit,
		ServiceName:     serviceName,
	})

	// Set up router
	r, err := setupRouter(ctrl, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	fmt.Printf("🚀 Telemetry log starting on port %s\n", cfg.Port)
	fmt.Printf("📂 Visit: http://localhost:%s\n", cfg.Port)
	fmt.Printf("🗃️  Store: %s\n", store.Path())

	if err := serve(r, cfg, logger); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// serve runs the HTTP server until SIGINT or SIGTERM, then drains it
func serve(handler http.Handler, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, cfg *config.Config, logger *slog.Logger) (*chi.Mux, error) {
	// Forwarding headers only count when they come from one of our proxies
	resolver, err := appmiddleware.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(appmiddleware.Metrics)

	// Dashboard pages may be served from another origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", ctrl.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Telemetry API
	r.With(
		appmiddleware.RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst, resolver),
		appmiddleware.IngestAudit(logger, resolver),
	).Post("/log-telemetry", ctrl.Telemetry.LogTelemetry)
	r.Get("/get-dashboard-data", ctrl.Telemetry.GetDashboardData)
	r.Get("/api/data", ctrl.Telemetry.GetHistory)

	// Dashboard pages
	r.Get("/*", controllers.StaticFiles(cfg.StaticDir).ServeHTTP)

	return r, nil
}
