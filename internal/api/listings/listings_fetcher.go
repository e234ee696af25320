package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-rental-dashboard/app/observability/metrics"
)

// ErrFetch wraps every failure to download a remote dataset file.
var ErrFetch = errors.New("dataset fetch failed")

const defaultRetries = 3

// FetcherConfig configures remote downloads.
type FetcherConfig struct {
	Timeout   time.Duration // per attempt
	Retries   int           // attempts, including the first
	BaseDelay time.Duration // doubled after every failed attempt
}

// Fetcher downloads remote files with bounded retries.
type Fetcher struct {
	client *http.Client
	cfg    FetcherConfig
	logger *slog.Logger
}

func NewFetcher(client *http.Client, cfg FetcherConfig, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaultRetries
	}
	return &Fetcher{client: client, cfg: cfg, logger: logger}
}

// statusError is a non-2xx response. 4xx responses are not retried.
type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.url, e.status)
}

func (e *statusError) retryable() bool {
	return e.status >= 500 || e.status == http.StatusTooManyRequests
}

// Fetch downloads url, retrying transient failures with exponential back-off.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := otel.Tracer("ListingsFetcher").Start(ctx, "Fetch", trace.WithAttributes(
		attribute.String("url.full", url),
	))
	defer span.End()

	l := f.logger.With(slog.String("method", "Fetch"), slog.String("url", url))
	m := metrics.Get()
	start := time.Now()
	delay := f.cfg.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= f.cfg.Retries; attempt++ {
		m.DatasetFetchesTotal.Add(ctx, 1)
		body, err := f.get(ctx, url)
		if err == nil {
			m.DatasetFetchDurationSecs.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(attribute.String("outcome", "success")))
			l.InfoContext(ctx, "Dataset file downloaded",
				slog.Int("bytes", len(body)),
				slog.Int("attempt", attempt),
				slog.Duration("latency", time.Since(start)),
			)
			span.SetStatus(codes.Ok, "downloaded")
			return body, nil
		}
		lastErr = err
		m.DatasetFetchErrorsTotal.Add(ctx, 1)

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
		if ctx.Err() != nil || attempt == f.cfg.Retries {
			break
		}

		l.WarnContext(ctx, "Dataset download failed, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", f.cfg.Retries),
			slog.Duration("wait_duration", delay),
			slog.String("error", err.Error()),
		)
		if err := sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
		delay *= 2
	}

	m.DatasetFetchDurationSecs.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("outcome", "error")))
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "download failed")
	l.ErrorContext(ctx, "Dataset download failed", slog.Any("error", lastErr))
	return nil, fmt.Errorf("%w: %w", ErrFetch, lastErr)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{url: url, status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
