package listings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-rental-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

var (
	_ Repository = (*HTTPRepository)(nil)
	_ Repository = (*CachedRepository)(nil)
	_ Repository = (*FallbackRepository)(nil)
)

// Repository loads the current dataset.
type Repository interface {
	Load(ctx context.Context) (*types.Dataset, error)
}

// Source locates the remote files of one city snapshot.
type Source struct {
	City          string
	ListingsURL   string
	BoundariesURL string
}

// HTTPRepository downloads and parses both remote files on every Load.
type HTTPRepository struct {
	fetcher *Fetcher
	source  Source
	logger  *slog.Logger
	now     func() time.Time
}

func NewHTTPRepository(fetcher *Fetcher, source Source, logger *slog.Logger) *HTTPRepository {
	return &HTTPRepository{
		fetcher: fetcher,
		source:  source,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *HTTPRepository) Load(ctx context.Context) (*types.Dataset, error) {
	ctx, span := otel.Tracer("ListingsRepository").Start(ctx, "Load", trace.WithAttributes(
		attribute.String("dataset.city", r.source.City),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Load"), slog.String("city", r.source.City))

	var (
		columns    []string
		listings   []types.Listing
		boundaries []types.NeighbourhoodBoundary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := r.fetcher.Fetch(gctx, r.source.ListingsURL)
		if err != nil {
			return err
		}
		columns, listings, err = ParseListings(bytes.NewReader(body))
		return err
	})
	g.Go(func() error {
		body, err := r.fetcher.Fetch(gctx, r.source.BoundariesURL)
		if err != nil {
			return err
		}
		boundaries, err = ParseBoundaries(body)
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to load dataset", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, fmt.Errorf("failed to load dataset for %s: %w", r.source.City, err)
	}

	ds := &types.Dataset{
		SnapshotID: uuid.New(),
		City:       r.source.City,
		SourceURL:  r.source.ListingsURL,
		FetchedAt:  r.now().UTC(),
		Columns:    columns,
		Listings:   listings,
		Boundaries: boundaries,
	}
	l.InfoContext(ctx, "Dataset loaded",
		slog.Int("listings", len(listings)),
		slog.Int("neighbourhoods", len(boundaries)),
	)
	span.SetStatus(codes.Ok, "dataset loaded")
	return ds, nil
}

// CachedRepository keeps the last loaded dataset for a TTL. Concurrent misses share a
// single load of the underlying repository.
type CachedRepository struct {
	next   Repository
	cache  *cache.Cache
	key    string
	ttl    time.Duration
	mu     sync.Mutex
	logger *slog.Logger
}

func NewCachedRepository(next Repository, key string, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedRepository) Load(ctx context.Context) (*types.Dataset, error) {
	m := metrics.Get()
	if ds, ok := r.cached(); ok {
		m.DatasetCacheHitsTotal.Add(ctx, 1)
		return ds, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ds, ok := r.cached(); ok {
		m.DatasetCacheHitsTotal.Add(ctx, 1)
		return ds, nil
	}

	m.DatasetCacheMissesTotal.Add(ctx, 1)
	r.logger.DebugContext(ctx, "Dataset cache miss", slog.String("key", r.key))
	ds, err := r.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(r.key, ds, r.ttl)
	return ds, nil
}

func (r *CachedRepository) cached() (*types.Dataset, bool) {
	v, ok := r.cache.Get(r.key)
	if !ok {
		return nil, false
	}
	ds, ok := v.(*types.Dataset)
	return ds, ok
}

// Invalidate drops the cached dataset so the next Load goes to the source.
func (r *CachedRepository) Invalidate() {
	r.cache.Delete(r.key)
}

// SnapshotStore persists datasets so a failed download can be replayed from the last copy.
type SnapshotStore interface {
	Save(ctx context.Context, ds *types.Dataset) (uuid.UUID, error)
	Latest(ctx context.Context) (*types.Dataset, error)
}

// FallbackRepository saves every successful load and replays the latest snapshot when
// the primary repository fails.
type FallbackRepository struct {
	primary Repository
	store   SnapshotStore
	logger  *slog.Logger
}

func NewFallbackRepository(primary Repository, store SnapshotStore, logger *slog.Logger) *FallbackRepository {
	return &FallbackRepository{primary: primary, store: store, logger: logger}
}

func (r *FallbackRepository) Load(ctx context.Context) (*types.Dataset, error) {
	l := r.logger.With(slog.String("method", "FallbackLoad"))

	ds, err := r.primary.Load(ctx)
	if err == nil {
		if _, saveErr := r.store.Save(ctx, ds); saveErr != nil {
			l.WarnContext(ctx, "Failed to store dataset snapshot", slog.Any("error", saveErr))
		}
		return ds, nil
	}

	l.WarnContext(ctx, "Primary load failed, replaying latest snapshot", slog.Any("error", err))
	snap, snapErr := r.store.Latest(ctx)
	if snapErr != nil {
		return nil, errors.Join(err, fmt.Errorf("snapshot replay failed: %w", snapErr))
	}
	metrics.Get().SnapshotReplaysTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Serving dataset from snapshot",
		slog.String("snapshot_id", snap.SnapshotID.String()),
		slog.Time("fetched_at", snap.FetchedAt),
	)
	return snap, nil
}
