package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appLogger "github.com/FACorreiaa/go-rental-dashboard/app/logger"
	appMiddleware "github.com/FACorreiaa/go-rental-dashboard/app/middleware"
	"github.com/FACorreiaa/go-rental-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-rental-dashboard/app/tracer"
	"github.com/FACorreiaa/go-rental-dashboard/config"
	"github.com/FACorreiaa/go-rental-dashboard/internal/container"
	api "github.com/FACorreiaa/go-rental-dashboard/internal/router"
)

const serviceName = "rental-dashboard"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title           Rental Dashboard API
// @version         1.0
// @description     Inside Airbnb listings dashboards: room types, prices and neighbourhoods.
// @BasePath        /api/v1
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "Serve the Inside Airbnb listings dashboards",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newExportCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// bootstrap loads the environment, the config and the default logger.
func bootstrap() (config.Config, *slog.Logger, error) {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("error initializing config: %w", err)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = cfg.Mode
	}
	logger := appLogger.New(os.Stdout, env)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newHTTPHandler wraps the application router with the server-wide middleware.
func newHTTPHandler(cfg *config.Config, c *container.Container, metricsHandler http.Handler) http.Handler {
	routerConfig := &api.Config{
		DashboardHandler: c.DashboardHandler,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		SwaggerEnabled:   cfg.Handlers.Swagger.Enabled,
	}
	if cfg.Handlers.Prometheus.Enabled {
		routerConfig.MetricsHandler = metricsHandler
		routerConfig.MetricsPath = cfg.Handlers.Prometheus.Path
	}
	mainRouter := api.SetupRouter(routerConfig)

	timeout := cfg.Server.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(c.Logger))
	router.Use(appMiddleware.RequestMetrics)
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(timeout))
	router.Use(middleware.Compress(5, "application/json", "application/geo+json", "text/html", "image/svg+xml"))
	router.Mount("/", mainRouter)
	return router
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	providers, err := tracer.InitTracingAndMetrics(serviceName)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		return err
	}
	metrics.InitAppMetrics()

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		return err
	}
	defer c.Close()

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           newHTTPHandler(&cfg, c, providers.MetricsHandler),
		ReadHeaderTimeout: 5 * time.Second,
		// Dataset downloads on a cold cache can take most of a minute.
		WriteTimeout: cfg.Dataset.FetchTimeout + cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress), slog.String("version", version))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
	}

	logger.Info("Application shut down complete.")
	return nil
}
