package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-dashboard/internal/analytics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// MockRepository is a mock implementation of listings.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Load(ctx context.Context) (*types.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Dataset), args.Error(1)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate() { c.calls++ }

func price(v float64) *float64 { return &v }

func square(x, y float64) orb.Polygon {
	return orb.Polygon{{{x, y}, {x + 0.01, y}, {x + 0.01, y + 0.01}, {x, y + 0.01}, {x, y}}}
}

func fixtureDataset() *types.Dataset {
	return &types.Dataset{
		City:    "Paris",
		Columns: []string{"id", "name", "neighbourhood", "room_type", "price", "latitude", "longitude"},
		Listings: []types.Listing{
			{ID: 1, Name: "A", RoomType: types.RoomTypeEntireHome, Neighbourhood: "Louvre", Price: price(100), Latitude: 48.861, Longitude: 2.335},
			{ID: 2, Name: "B", RoomType: types.RoomTypePrivate, Neighbourhood: "Louvre", Price: price(50), Latitude: 48.862, Longitude: 2.336},
			{ID: 3, Name: "C", RoomType: types.RoomTypeEntireHome, Neighbourhood: "Marais", Price: price(200), Latitude: 48.855, Longitude: 2.355},
			{ID: 4, Name: "D", RoomType: types.RoomTypeEntireHome, Neighbourhood: "Marais", Latitude: 48.856, Longitude: 2.356},
			{ID: 5, Name: "E", RoomType: types.RoomTypeShared, Neighbourhood: "Marais", Price: price(30), Latitude: 48.857, Longitude: 2.357},
			{ID: 6, Name: "F", RoomType: types.RoomTypePrivate, Neighbourhood: "Louvre", Price: price(70), Latitude: 48.863, Longitude: 2.337},
			{ID: 7, Name: "G", RoomType: types.RoomTypeEntireHome, Neighbourhood: "Louvre", Price: price(400), Latitude: 48.864, Longitude: 2.338},
		},
		Boundaries: []types.NeighbourhoodBoundary{
			{Name: "Louvre", Geometry: square(2.33, 48.86)},
			{Name: "Marais", Geometry: square(2.35, 48.85)},
			{Name: "Opéra", Geometry: square(2.33, 48.87)},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, ds *types.Dataset, err error) (*ServiceImpl, *MockRepository, *countingInvalidator) {
	t.Helper()
	repo := new(MockRepository)
	if err != nil {
		repo.On("Load", mock.Anything).Return(nil, err)
	} else {
		repo.On("Load", mock.Anything).Return(ds, nil)
	}
	inv := &countingInvalidator{}
	return NewServiceImpl(repo, inv, Options{PriceQuantile: 0.9}, discardLogger()), repo, inv
}

func TestServiceSmallMultiples(t *testing.T) {
	svc, _, _ := newTestService(t, fixtureDataset(), nil)
	ctx := context.Background()

	sm, err := svc.SmallMultiples(ctx, analytics.ColumnNeighbourhood)
	require.NoError(t, err)
	require.Len(t, sm.Facets, 3)
	assert.Equal(t, types.RoomTypeEntireHome, sm.Facets[0].Value)

	_, err = svc.SmallMultiples(ctx, "price")
	assert.ErrorIs(t, err, analytics.ErrUnknownColumn)
}

func TestServicePriceDistribution(t *testing.T) {
	svc, _, _ := newTestService(t, fixtureDataset(), nil)
	ctx := context.Background()

	dist, err := svc.PriceDistribution(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, types.RoomTypeEntireHome, dist.RoomType, "defaults to the first room type")
	assert.InDelta(t, 360.0, dist.Threshold, 1e-9)
	assert.Equal(t, 2, dist.Count)
	assert.Equal(t, 150.0, dist.Median)

	_, err = svc.PriceDistribution(ctx, "Castle")
	assert.ErrorIs(t, err, analytics.ErrUnknownRoomType)
}

func TestServiceMapPoints(t *testing.T) {
	svc, _, _ := newTestService(t, fixtureDataset(), nil)

	points, total, err := svc.MapPoints(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, points, 7)
	assert.Equal(t, "A", points[0].Name)
}

func TestServiceNeighbourhoods(t *testing.T) {
	svc, _, _ := newTestService(t, fixtureDataset(), nil)
	ctx := context.Background()

	view, err := svc.Neighbourhoods(ctx, NeighbourhoodQuery{Metric: analytics.MetricAvgPrice})
	require.NoError(t, err)
	require.Len(t, view.Stats, 2)
	assert.Equal(t, "Louvre", view.Stats[0].Neighbourhood)
	assert.Equal(t, 4, view.MaxCount)
	assert.Equal(t, types.Summary{Neighbourhoods: 2, Listings: 7}, view.Summary)
	assert.Equal(t, "Prix moyen (€)", view.Label)

	view, err = svc.Neighbourhoods(ctx, NeighbourhoodQuery{Metric: analytics.MetricCount, MinCount: 4})
	require.NoError(t, err)
	require.Len(t, view.Stats, 1)
	assert.Equal(t, types.Summary{Neighbourhoods: 1, Listings: 4}, view.Summary)
	assert.Equal(t, 4, view.MaxCount, "max count ignores the filter")

	_, err = svc.Neighbourhoods(ctx, NeighbourhoodQuery{Metric: analytics.MetricCount, MinCount: -5})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestServiceChoropleth(t *testing.T) {
	svc, _, _ := newTestService(t, fixtureDataset(), nil)

	view, err := svc.Choropleth(context.Background(), NeighbourhoodQuery{Metric: analytics.MetricCount})
	require.NoError(t, err)
	require.Len(t, view.Regions, 2, "boundaries without listings are dropped")
	assert.Equal(t, 3.0, view.Scale.Min)
	assert.Equal(t, 4.0, view.Scale.Max)
}

func TestServiceRefresh(t *testing.T) {
	svc, repo, inv := newTestService(t, fixtureDataset(), nil)

	info, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, info.Listings)
	assert.Equal(t, 3, info.Neighbourhoods)
	assert.Equal(t, 1, inv.calls)
	repo.AssertNumberOfCalls(t, "Load", 1)
}

func TestServiceLoadFailure(t *testing.T) {
	svc, _, _ := newTestService(t, nil, errors.New("connection refused"))

	_, err := svc.Histogram(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}
