package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	DatasetFetchesTotal       metric.Int64Counter
	DatasetFetchErrorsTotal   metric.Int64Counter
	DatasetFetchDurationSecs  metric.Float64Histogram
	DatasetCacheHitsTotal     metric.Int64Counter
	DatasetCacheMissesTotal   metric.Int64Counter
	SnapshotReplaysTotal      metric.Int64Counter
	ChartRenderDurationSecs   metric.Float64Histogram
	DbQueryDurationSeconds    metric.Float64Histogram
	DbQueryErrorsTotal        metric.Int64Counter
	HTTPRequestsTotal         metric.Int64Counter
	HTTPRequestDurationSecond metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the metric instruments once, from the global MeterProvider.
// Without a configured provider the instruments are no-ops.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("rental-dashboard")
		var err error
		m := &AppMetrics{}

		m.DatasetFetchesTotal, err = meter.Int64Counter(
			"dataset_fetches_total",
			metric.WithDescription("Total number of remote dataset file downloads"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create dataset_fetches_total: %v", err)
		}

		m.DatasetFetchErrorsTotal, err = meter.Int64Counter(
			"dataset_fetch_errors_total",
			metric.WithDescription("Total number of failed dataset download attempts"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create dataset_fetch_errors_total: %v", err)
		}

		m.DatasetFetchDurationSecs, err = meter.Float64Histogram(
			"dataset_fetch_duration_seconds",
			metric.WithDescription("Duration of dataset downloads in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create dataset_fetch_duration_seconds: %v", err)
		}

		m.DatasetCacheHitsTotal, err = meter.Int64Counter(
			"dataset_cache_hits_total",
			metric.WithDescription("Dataset loads served from the cache"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create dataset_cache_hits_total: %v", err)
		}

		m.DatasetCacheMissesTotal, err = meter.Int64Counter(
			"dataset_cache_misses_total",
			metric.WithDescription("Dataset loads that went to the source"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create dataset_cache_misses_total: %v", err)
		}

		m.SnapshotReplaysTotal, err = meter.Int64Counter(
			"snapshot_replays_total",
			metric.WithDescription("Dataset loads served from a stored snapshot after a fetch failure"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create snapshot_replays_total: %v", err)
		}

		m.ChartRenderDurationSecs, err = meter.Float64Histogram(
			"chart_render_duration_seconds",
			metric.WithDescription("Duration of chart rendering in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chart_render_duration_seconds: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests by route and status"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDurationSecond, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the AppMetrics instance, initializing it on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// DbQueryDuration records the duration of a named database operation.
func (m *AppMetrics) DbQueryDuration(ctx context.Context, operation string, d time.Duration) {
	m.DbQueryDurationSeconds.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("db.operation", operation)))
}
