package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-rental-dashboard/internal/analytics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/api/listings"
	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

var (
	// ErrDatasetUnavailable wraps every failure to load the dataset.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrUnknownFacet is returned when a small-multiples facet does not exist.
	ErrUnknownFacet = errors.New("unknown facet")
	// ErrInvalidParameter is returned for out-of-range widget values.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// NeighbourhoodQuery is the widget state of the neighbourhoods dashboard.
type NeighbourhoodQuery struct {
	Metric   analytics.Metric
	MinCount int
}

// NeighbourhoodView is the filtered and ranked neighbourhood table.
type NeighbourhoodView struct {
	Metric   analytics.Metric          `json:"metric"`
	Label    string                    `json:"label"`
	MinCount int                       `json:"min_count"`
	MaxCount int                       `json:"max_count"`
	Summary  types.Summary             `json:"summary"`
	Stats    []types.NeighbourhoodStat `json:"stats"`
}

// ChoroplethView holds the coloured regions of the neighbourhoods map.
type ChoroplethView struct {
	Regions []analytics.ChoroplethRegion
	Scale   analytics.ColorScale
}

// Service computes the dashboards from the current dataset.
type Service interface {
	Dataset(ctx context.Context) (types.DatasetInfo, error)
	Refresh(ctx context.Context) (types.DatasetInfo, error)
	Invalidate(ctx context.Context)

	RoomTypes(ctx context.Context) ([]string, error)
	SmallMultiples(ctx context.Context, column string) (types.SmallMultiples, error)
	Histogram(ctx context.Context) ([]types.HistogramBucket, error)
	PriceDistribution(ctx context.Context, roomType string) (types.PriceDistribution, error)
	MapPoints(ctx context.Context, n int) ([]types.MapPoint, int, error)

	Neighbourhoods(ctx context.Context, q NeighbourhoodQuery) (NeighbourhoodView, error)
	Choropleth(ctx context.Context, q NeighbourhoodQuery) (ChoroplethView, error)
}

// Invalidator drops a cached dataset.
type Invalidator interface {
	Invalidate()
}

// Options are the analysis defaults of the service.
type Options struct {
	PriceQuantile float64
}

type ServiceImpl struct {
	logger      *slog.Logger
	repo        listings.Repository
	invalidator Invalidator
	opts        Options
}

// NewServiceImpl builds the service. invalidator may be nil when the repository does not cache.
func NewServiceImpl(repo listings.Repository, invalidator Invalidator, opts Options, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		repo:        repo,
		invalidator: invalidator,
		opts:        opts,
	}
}

func (s *ServiceImpl) load(ctx context.Context) (*types.Dataset, error) {
	ds, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load dataset", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}
	return ds, nil
}

func (s *ServiceImpl) Dataset(ctx context.Context) (types.DatasetInfo, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return types.DatasetInfo{}, err
	}
	return ds.Info(), nil
}

func (s *ServiceImpl) Invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.Invalidate()
	s.logger.InfoContext(ctx, "Dataset cache invalidated")
}

// Refresh drops the cached dataset and loads it again.
func (s *ServiceImpl) Refresh(ctx context.Context) (types.DatasetInfo, error) {
	ctx, span := otel.Tracer("DashboardService").Start(ctx, "Refresh")
	defer span.End()

	s.Invalidate(ctx)
	info, err := s.Dataset(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload failed")
		return types.DatasetInfo{}, err
	}
	span.SetStatus(codes.Ok, "dataset reloaded")
	return info, nil
}

func (s *ServiceImpl) RoomTypes(ctx context.Context) ([]string, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.RoomTypes(ds.Listings), nil
}

func (s *ServiceImpl) SmallMultiples(ctx context.Context, column string) (types.SmallMultiples, error) {
	ctx, span := otel.Tracer("DashboardService").Start(ctx, "SmallMultiples", trace.WithAttributes(
		attribute.String("column", column),
	))
	defer span.End()

	ds, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		return types.SmallMultiples{}, err
	}
	return analytics.SmallMultiples(analytics.RoomTypeCounts(ds.Listings), column)
}

func (s *ServiceImpl) Histogram(ctx context.Context) ([]types.HistogramBucket, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.RoomTypeHistogram(ds.Listings), nil
}

// PriceDistribution summarises the prices of roomType. An empty roomType selects the
// first room type of the file.
func (s *ServiceImpl) PriceDistribution(ctx context.Context, roomType string) (types.PriceDistribution, error) {
	ctx, span := otel.Tracer("DashboardService").Start(ctx, "PriceDistribution", trace.WithAttributes(
		attribute.String("room_type", roomType),
		attribute.Float64("quantile", s.opts.PriceQuantile),
	))
	defer span.End()

	ds, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		return types.PriceDistribution{}, err
	}
	if roomType == "" {
		rts := analytics.RoomTypes(ds.Listings)
		if len(rts) == 0 {
			return types.PriceDistribution{}, nil
		}
		roomType = rts[0]
	}
	return analytics.PriceDistribution(ds.Listings, roomType, s.opts.PriceQuantile)
}

// MapPoints returns the first n listings as markers, along with the total number of
// listings so callers can bound their selector.
func (s *ServiceImpl) MapPoints(ctx context.Context, n int) ([]types.MapPoint, int, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, 0, err
	}
	return analytics.MapPoints(ds.Listings, n), len(ds.Listings), nil
}

// Neighbourhoods aggregates listings per neighbourhood, keeps those with at least
// MinCount listings and ranks them by the metric.
func (s *ServiceImpl) Neighbourhoods(ctx context.Context, q NeighbourhoodQuery) (NeighbourhoodView, error) {
	ctx, span := otel.Tracer("DashboardService").Start(ctx, "Neighbourhoods", trace.WithAttributes(
		attribute.String("metric", string(q.Metric)),
		attribute.Int("min_count", q.MinCount),
	))
	defer span.End()

	if q.MinCount < 0 {
		return NeighbourhoodView{}, fmt.Errorf("%w: min count %d is negative", ErrInvalidParameter, q.MinCount)
	}
	ds, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		return NeighbourhoodView{}, err
	}

	all := analytics.NeighbourhoodStats(ds.Listings)
	kept := analytics.SortByMetric(analytics.FilterMinCount(all, q.MinCount), q.Metric)
	return NeighbourhoodView{
		Metric:   q.Metric,
		Label:    q.Metric.Label(),
		MinCount: q.MinCount,
		MaxCount: analytics.MaxCount(all),
		Summary:  analytics.Summarize(kept),
		Stats:    kept,
	}, nil
}

func (s *ServiceImpl) Choropleth(ctx context.Context, q NeighbourhoodQuery) (ChoroplethView, error) {
	view, err := s.Neighbourhoods(ctx, q)
	if err != nil {
		return ChoroplethView{}, err
	}
	ds, err := s.load(ctx)
	if err != nil {
		return ChoroplethView{}, err
	}
	regions, scale := analytics.Choropleth(view.Stats, ds.Boundaries, q.Metric)
	return ChoroplethView{Regions: regions, Scale: scale}, nil
}
