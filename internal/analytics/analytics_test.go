package analytics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

func price(v float64) *float64 { return &v }

func fixtureListings() []types.Listing {
	return []types.Listing{
		{ID: 1, Name: "A", RoomType: types.RoomTypeEntireHome, Neighbourhood: "Louvre", Price: price(100), Latitude: 48.86, Longitude: 2.33},
		{ID: 2, Name: "B", RoomType: types.RoomTypePrivate, Neighbourhood: "Louvre", Price: price(50)},
		{ID: 3, Name: "C", RoomType: types.RoomTypeEntireHome, Neighbourhood: "Marais", Price: price(200)},
		{ID: 4, Name: "D", RoomType: types.RoomTypeEntireHome, Neighbourhood: "Marais"},
		{ID: 5, Name: "E", RoomType: types.RoomTypeShared, Neighbourhood: "Marais", Price: price(30)},
		{ID: 6, Name: "F", RoomType: types.RoomTypePrivate, Neighbourhood: "Louvre", Price: price(70)},
		{ID: 7, Name: "G", RoomType: types.RoomTypeEntireHome, Neighbourhood: "Louvre", Price: price(400)},
	}
}

func square(x, y float64) orb.Polygon {
	return orb.Polygon{{{x, y}, {x + 0.01, y}, {x + 0.01, y + 0.01}, {x, y + 0.01}, {x, y}}}
}

func fixtureBoundaries() []types.NeighbourhoodBoundary {
	return []types.NeighbourhoodBoundary{
		{Name: "Louvre", Geometry: square(2.33, 48.86)},
		{Name: "Marais", Geometry: square(2.35, 48.85)},
		{Name: "Opéra", Geometry: square(2.33, 48.87)},
	}
}

func TestQuantile(t *testing.T) {
	assert.Equal(t, 2.5, Quantile([]float64{4, 1, 3, 2}, 0.5))
	assert.Equal(t, 1.0, Quantile([]float64{4, 1, 3, 2}, 0))
	assert.Equal(t, 4.0, Quantile([]float64{4, 1, 3, 2}, 1))
	assert.InDelta(t, 360.0, Quantile([]float64{100, 400, 200}, 0.9), 1e-9)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	assert.True(t, math.IsNaN(Quantile([]float64{1}, 1.5)))
}

func TestRoomTypeCounts(t *testing.T) {
	got := RoomTypeCounts(fixtureListings())
	want := []types.RoomTypeCount{
		{RoomType: types.RoomTypeEntireHome, Neighbourhood: "Louvre", Count: 2},
		{RoomType: types.RoomTypeEntireHome, Neighbourhood: "Marais", Count: 2},
		{RoomType: types.RoomTypePrivate, Neighbourhood: "Louvre", Count: 2},
		{RoomType: types.RoomTypeShared, Neighbourhood: "Marais", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RoomTypeCounts mismatch (-want +got):\n%s", diff)
	}
}

func TestSmallMultiples(t *testing.T) {
	counts := RoomTypeCounts(fixtureListings())

	t.Run("neighbourhood on the x axis", func(t *testing.T) {
		sm, err := SmallMultiples(counts, ColumnNeighbourhood)
		require.NoError(t, err)
		assert.Equal(t, ColumnRoomType, sm.FacetColumn)
		require.Len(t, sm.Facets, 3)
		assert.Equal(t, types.RoomTypeEntireHome, sm.Facets[0].Value)
		assert.Equal(t, "Nombre de Entire home/apt par quartier parisien", sm.Facets[0].Title)
		assert.Equal(t, []types.Bar{
			{Label: "Louvre", Neighbourhood: "Louvre", Count: 2},
			{Label: "Marais", Neighbourhood: "Marais", Count: 2},
		}, sm.Facets[0].Bars)
		assert.Equal(t, types.RoomTypeShared, sm.Facets[2].Value)
	})

	t.Run("room type on the x axis", func(t *testing.T) {
		sm, err := SmallMultiples(counts, ColumnRoomType)
		require.NoError(t, err)
		require.Len(t, sm.Facets, 2)
		assert.Equal(t, "Louvre", sm.Facets[0].Value)
		assert.Equal(t, []types.Bar{
			{Label: types.RoomTypeEntireHome, Neighbourhood: "Louvre", Count: 2},
			{Label: types.RoomTypePrivate, Neighbourhood: "Louvre", Count: 2},
		}, sm.Facets[0].Bars)
		assert.Equal(t, "Marais", sm.Facets[1].Value)
		assert.Len(t, sm.Facets[1].Bars, 2)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := SmallMultiples(counts, "price")
		assert.ErrorIs(t, err, ErrUnknownColumn)
	})
}

func TestRoomTypeHistogram(t *testing.T) {
	got := RoomTypeHistogram(fixtureListings())
	assert.Equal(t, []types.HistogramBucket{
		{RoomType: types.RoomTypeEntireHome, Label: "Maison/Appartement", Count: 4},
		{RoomType: types.RoomTypePrivate, Label: "Chambre privée", Count: 2},
		{RoomType: types.RoomTypeShared, Label: "Chambre partagée", Count: 1},
	}, got)
	assert.Equal(t, []string{types.RoomTypeEntireHome, types.RoomTypePrivate, types.RoomTypeShared}, RoomTypes(fixtureListings()))
}

func TestPriceDistribution(t *testing.T) {
	t.Run("drops prices above the quantile", func(t *testing.T) {
		d, err := PriceDistribution(fixtureListings(), types.RoomTypeEntireHome, 0.9)
		require.NoError(t, err)
		assert.InDelta(t, 360.0, d.Threshold, 1e-9)
		assert.Equal(t, 2, d.Count)
		assert.Equal(t, []float64{100, 200}, d.Prices)
		assert.Equal(t, 100.0, d.Min)
		assert.Equal(t, 200.0, d.Max)
		assert.InDelta(t, 125.0, d.Q1, 1e-9)
		assert.InDelta(t, 150.0, d.Median, 1e-9)
		assert.InDelta(t, 175.0, d.Q3, 1e-9)
		assert.InDelta(t, 150.0, d.Mean, 1e-9)
	})

	t.Run("single retained price", func(t *testing.T) {
		d, err := PriceDistribution(fixtureListings(), types.RoomTypePrivate, 0.9)
		require.NoError(t, err)
		assert.InDelta(t, 68.0, d.Threshold, 1e-9)
		assert.Equal(t, 1, d.Count)
		assert.Equal(t, 50.0, d.Median)
	})

	t.Run("room type without prices", func(t *testing.T) {
		listings := []types.Listing{{ID: 1, RoomType: types.RoomTypeHotel, Neighbourhood: "Louvre"}}
		d, err := PriceDistribution(listings, types.RoomTypeHotel, 0.9)
		require.NoError(t, err)
		assert.Zero(t, d.Count)
		assert.Zero(t, d.Threshold)
	})

	t.Run("unknown room type", func(t *testing.T) {
		_, err := PriceDistribution(fixtureListings(), types.RoomTypeHotel, 0.9)
		assert.ErrorIs(t, err, ErrUnknownRoomType)
	})

	t.Run("quantile out of range", func(t *testing.T) {
		_, err := PriceDistribution(fixtureListings(), types.RoomTypePrivate, 1.2)
		assert.Error(t, err)
	})
}

func TestMapPoints(t *testing.T) {
	listings := fixtureListings()
	assert.Len(t, MapPoints(listings, 50), 7)
	assert.Len(t, MapPoints(listings, 3), 7)

	many := make([]types.Listing, 0, 20)
	for i := 0; i < 20; i++ {
		many = append(many, types.Listing{ID: int64(i + 1)})
	}
	assert.Len(t, MapPoints(many, 3), 10)
	assert.Len(t, MapPoints(many, 15), 15)

	first := MapPoints(listings, 7)[0]
	assert.Equal(t, "A", first.Name)
	assert.Equal(t, 48.86, first.Latitude)
	assert.Empty(t, MapPoints(nil, 50))
}

func TestNeighbourhoodStats(t *testing.T) {
	stats := NeighbourhoodStats(fixtureListings())
	require.Len(t, stats, 2)

	louvre, marais := stats[0], stats[1]
	assert.Equal(t, "Louvre", louvre.Neighbourhood)
	assert.Equal(t, 4, louvre.Count)
	assert.Equal(t, 2, louvre.EntireCount)
	assert.InDelta(t, 50.0, louvre.EntireShare, 1e-9)
	require.NotNil(t, louvre.AvgPrice)
	assert.InDelta(t, 155.0, *louvre.AvgPrice, 1e-9)

	assert.Equal(t, "Marais", marais.Neighbourhood)
	assert.Equal(t, 3, marais.Count)
	assert.InDelta(t, 200.0/3, marais.EntireShare, 1e-9)
	require.NotNil(t, marais.AvgPrice)
	assert.InDelta(t, 115.0, *marais.AvgPrice, 1e-9)

	assert.Equal(t, 4, MaxCount(stats))
	assert.Equal(t, types.Summary{Neighbourhoods: 2, Listings: 7}, Summarize(stats))

	filtered := FilterMinCount(stats, 4)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Louvre", filtered[0].Neighbourhood)
	assert.Empty(t, FilterMinCount(stats, 5))
}

func TestNeighbourhoodStatsWithoutPrices(t *testing.T) {
	stats := NeighbourhoodStats([]types.Listing{{ID: 1, Neighbourhood: "Louvre", RoomType: types.RoomTypePrivate}})
	require.Len(t, stats, 1)
	assert.Nil(t, stats[0].AvgPrice)
	assert.Zero(t, stats[0].EntireShare)
}

func TestSortByMetric(t *testing.T) {
	stats := NeighbourhoodStats(fixtureListings())

	byShare := SortByMetric(stats, MetricEntireShare)
	assert.Equal(t, "Marais", byShare[0].Neighbourhood)

	byPrice := SortByMetric(stats, MetricAvgPrice)
	assert.Equal(t, "Louvre", byPrice[0].Neighbourhood)
	assert.Equal(t, "Louvre", stats[0].Neighbourhood, "input must not be reordered")

	withMissing := append(stats, types.NeighbourhoodStat{Neighbourhood: "Opéra", Count: 9})
	sorted := SortByMetric(withMissing, MetricAvgPrice)
	assert.Equal(t, "Opéra", sorted[len(sorted)-1].Neighbourhood)
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want Metric
	}{
		{"count", MetricCount},
		{"Nombre de logements", MetricCount},
		{"Prix moyen", MetricAvgPrice},
		{"entire_share", MetricEntireShare},
		{"Part de logement entier", MetricEntireShare},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseMetric("median")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	assert.Equal(t, "Prix moyen (€)", MetricAvgPrice.Label())
}

func TestViridis(t *testing.T) {
	assert.Equal(t, "#440154", Hex(Viridis(0)))
	assert.Equal(t, "#fde725", Hex(Viridis(1)))
	assert.Equal(t, "#440154", Hex(Viridis(-3)))
	assert.Equal(t, "#fde725", Hex(Viridis(7)))
	assert.Equal(t, "#26828e", Hex(Viridis(4.0/9)))
}

func TestChoropleth(t *testing.T) {
	stats := NeighbourhoodStats(fixtureListings())

	regions, scale := Choropleth(stats, fixtureBoundaries(), MetricCount)
	require.Len(t, regions, 2, "boundaries without stats are dropped")
	assert.Equal(t, 3.0, scale.Min)
	assert.Equal(t, 4.0, scale.Max)
	assert.Equal(t, "Nombre de logements", scale.Label)
	assert.Equal(t, "#fde725", Hex(regions[0].Fill))
	assert.Equal(t, "#440154", Hex(regions[1].Fill))

	fc := ChoroplethGeoJSON(regions)
	require.Len(t, fc.Features, 2)
	props := fc.Features[1].Properties
	assert.Equal(t, "Marais", props["neighbourhood"])
	assert.Equal(t, 3, props["count"])
	assert.Equal(t, 115.0, props["avg_price"])
	assert.Equal(t, 66.67, props["entire_share"])
	assert.Equal(t, "#440154", props["fill"])
}

func TestChoroplethMissingAndFlatValues(t *testing.T) {
	stats := []types.NeighbourhoodStat{
		{Neighbourhood: "Louvre", Count: 2, AvgPrice: price(80)},
		{Neighbourhood: "Marais", Count: 2},
	}

	regions, scale := Choropleth(stats, fixtureBoundaries(), MetricAvgPrice)
	require.Len(t, regions, 2)
	assert.Equal(t, 80.0, scale.Min)
	assert.Equal(t, 80.0, scale.Max)
	assert.Equal(t, Viridis(0.5), regions[0].Fill)
	assert.Equal(t, MissingColor, regions[1].Fill)

	fc := ChoroplethGeoJSON(regions)
	assert.Nil(t, fc.Features[1].Properties["value"])
	assert.Nil(t, fc.Features[1].Properties["avg_price"])
}
