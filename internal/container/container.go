package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-rental-dashboard/app/db"
	"github.com/FACorreiaa/go-rental-dashboard/config"
	"github.com/FACorreiaa/go-rental-dashboard/internal/api/dashboard"
	"github.com/FACorreiaa/go-rental-dashboard/internal/api/listings"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool // nil unless the snapshot store is enabled
	Cache            *listings.CachedRepository
	DashboardService *dashboard.ServiceImpl
	DashboardHandler *dashboard.HandlerImpl
}

// NewContainer wires the dataset repositories, the dashboard service and its handlers.
// The Postgres snapshot store is only connected when enabled in the config.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	fetcher := listings.NewFetcher(&http.Client{}, listings.FetcherConfig{
		Timeout:   cfg.Dataset.FetchTimeout,
		Retries:   cfg.Dataset.Retries,
		BaseDelay: cfg.Dataset.RetryBaseDelay,
	}, logger)
	var repo listings.Repository = listings.NewHTTPRepository(fetcher, listings.Source{
		City:          cfg.Dataset.City,
		ListingsURL:   cfg.Dataset.ListingsURL,
		BoundariesURL: cfg.Dataset.BoundariesURL,
	}, logger)

	pool, err := c.connectSnapshotStore(ctx)
	switch {
	case errors.Is(err, database.ErrPostgresDisabled):
		logger.Info("Snapshot store disabled, serving the remote dataset only")
	case err != nil:
		return nil, err
	default:
		c.Pool = pool
		repo = listings.NewFallbackRepository(repo, listings.NewPostgresSnapshotRepository(pool, logger), logger)
	}

	c.Cache = listings.NewCachedRepository(repo, cfg.Dataset.City, cfg.Dataset.CacheTTL, logger)
	c.DashboardService = dashboard.NewServiceImpl(c.Cache, c.Cache, dashboard.Options{
		PriceQuantile: cfg.Dashboard.PriceQuantile,
	}, logger)
	c.DashboardHandler = dashboard.NewHandlerImpl(c.DashboardService, cfg.Dashboard, logger)
	return c, nil
}

func (c *Container) connectSnapshotStore(ctx context.Context) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	pool, err := database.Init(ctx, dbConfig, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	if !database.WaitForDB(ctx, pool, c.Logger) {
		pool.Close()
		return nil, errors.New("database not ready after waiting")
	}
	return pool, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
