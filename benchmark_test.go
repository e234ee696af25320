package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/FACorreiaa/go-rental-dashboard/config"
	"github.com/FACorreiaa/go-rental-dashboard/internal/analytics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/api/dashboard"
	"github.com/FACorreiaa/go-rental-dashboard/internal/router"
	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// staticRepository serves one in-memory dataset.
type staticRepository struct {
	ds *types.Dataset
}

func (r staticRepository) Load(context.Context) (*types.Dataset, error) { return r.ds, nil }

var benchRoomTypes = []string{"Entire home/apt", "Private room", "Shared room", "Hotel room"}

// syntheticDataset spreads n listings over the given number of square neighbourhoods.
func syntheticDataset(n, neighbourhoods int) *types.Dataset {
	ds := &types.Dataset{
		SnapshotID: uuid.New(),
		City:       "Paris",
		FetchedAt:  time.Now(),
	}
	for i := 0; i < neighbourhoods; i++ {
		x := 2.25 + float64(i%5)*0.02
		y := 48.81 + float64(i/5)*0.02
		ds.Boundaries = append(ds.Boundaries, types.NeighbourhoodBoundary{
			Name:     fmt.Sprintf("Quartier %02d", i),
			Geometry: orb.Polygon{{{x, y}, {x + 0.02, y}, {x + 0.02, y + 0.02}, {x, y + 0.02}, {x, y}}},
		})
	}
	for i := 0; i < n; i++ {
		price := float64(40 + (i*37)%400)
		ds.Listings = append(ds.Listings, types.Listing{
			ID:            int64(i),
			Name:          fmt.Sprintf("listing %d", i),
			Neighbourhood: fmt.Sprintf("Quartier %02d", i%neighbourhoods),
			RoomType:      benchRoomTypes[i%len(benchRoomTypes)],
			Price:         &price,
			Latitude:      48.85,
			Longitude:     2.35,
		})
	}
	return ds
}

func setupBenchmarkRouter(b *testing.B, n int) http.Handler {
	b.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := dashboard.NewServiceImpl(staticRepository{syntheticDataset(n, 20)}, nil, dashboard.Options{PriceQuantile: 0.9}, logger)
	cfg := config.DashboardConfig{
		DefaultMapPoints: 50,
		PriceQuantile:    0.9,
		MinCountStep:     5,
		MapStyles:        []config.MapStyle{{Key: "carto-positron", Name: "Carto Positron"}},
	}
	return router.SetupRouter(&router.Config{DashboardHandler: dashboard.NewHandlerImpl(svc, cfg, logger)})
}

func benchmarkGet(b *testing.B, h http.Handler, path string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			b.Fatalf("GET %s: status %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func BenchmarkSmallMultiples(b *testing.B) {
	benchmarkGet(b, setupBenchmarkRouter(b, 50_000), "/api/v1/small-multiples")
}

func BenchmarkPriceDistribution(b *testing.B) {
	benchmarkGet(b, setupBenchmarkRouter(b, 50_000), "/api/v1/price-distribution?room_type=Private+room")
}

func BenchmarkNeighbourhoods(b *testing.B) {
	benchmarkGet(b, setupBenchmarkRouter(b, 50_000), "/api/v1/neighbourhoods?stat=avg_price&min=10")
}

func BenchmarkChoroplethGeoJSON(b *testing.B) {
	benchmarkGet(b, setupBenchmarkRouter(b, 50_000), "/api/v1/choropleth?stat=entire_share")
}

func BenchmarkHistogramChartPNG(b *testing.B) {
	benchmarkGet(b, setupBenchmarkRouter(b, 10_000), "/api/v1/charts/histogram.png")
}

func BenchmarkChoroplethChartSVG(b *testing.B) {
	benchmarkGet(b, setupBenchmarkRouter(b, 10_000), "/api/v1/charts/choropleth.svg")
}

func BenchmarkNeighbourhoodStats(b *testing.B) {
	ds := syntheticDataset(100_000, 80)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stats := analytics.NeighbourhoodStats(ds.Listings)
		_ = analytics.SortByMetric(stats, analytics.MetricAvgPrice)
	}
}

func BenchmarkConcurrentRequests(b *testing.B) {
	h := setupBenchmarkRouter(b, 20_000)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/histogram", nil))
		}
	})
}
