package listings

import (
	"os"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

func TestParseListings(t *testing.T) {
	f, err := os.Open("testdata/listings.csv")
	require.NoError(t, err)
	defer f.Close()

	columns, listings, err := ParseListings(f)
	require.NoError(t, err)

	assert.Equal(t, "id", columns[0])
	assert.Equal(t, "license", columns[len(columns)-1])
	require.Len(t, listings, 3)

	first := listings[0]
	assert.Equal(t, int64(3109), first.ID)
	assert.Equal(t, "zen and calm", first.Name)
	assert.Equal(t, int64(3631), first.HostID)
	assert.Equal(t, "Observatoire", first.Neighbourhood)
	assert.Equal(t, types.RoomTypeEntireHome, first.RoomType)
	assert.InDelta(t, 48.83191, first.Latitude, 1e-9)
	assert.InDelta(t, 2.3187, first.Longitude, 1e-9)
	assert.Nil(t, first.Price, "empty price must stay missing")
	assert.Equal(t, 2, first.MinimumNights)

	second := listings[1]
	assert.Equal(t, "Cozy, Cheap Studio", second.Name)
	assert.Equal(t, "Hôtel-de-Ville", second.Neighbourhood)
	require.NotNil(t, second.Price)
	assert.Equal(t, 146.0, *second.Price)
	assert.Equal(t, 395, second.NumberOfReviews)
	assert.Equal(t, 253, second.Availability365)

	assert.Equal(t, types.RoomTypePrivate, listings[2].RoomType)
	assert.Equal(t, 88.5, *listings[2].Price)
}

func TestParseListingsErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		csv := "id,name,neighbourhood,room_type,latitude,longitude\n1,a,b,Private room,48.8,2.3\n"
		_, _, err := ParseListings(strings.NewReader(csv))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), `"price"`)
	})

	t.Run("invalid id names the line", func(t *testing.T) {
		csv := "id,name,neighbourhood,room_type,price,latitude,longitude\n" +
			"1,a,Louvre,Private room,10,48.8,2.3\n" +
			"x2,b,Louvre,Private room,10,48.8,2.3\n"
		_, _, err := ParseListings(strings.NewReader(csv))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
	})
}

func TestParseBoundaries(t *testing.T) {
	data, err := os.ReadFile("testdata/neighbourhoods.geojson")
	require.NoError(t, err)

	boundaries, err := ParseBoundaries(data)
	require.NoError(t, err)
	require.Len(t, boundaries, 2, "point and unnamed features are skipped")

	assert.Equal(t, "Observatoire", boundaries[0].Name)
	assert.Empty(t, boundaries[0].Group)
	assert.IsType(t, orb.MultiPolygon{}, boundaries[0].Geometry)

	assert.Equal(t, "Hôtel-de-Ville", boundaries[1].Name)
	assert.Equal(t, "Centre", boundaries[1].Group)
	assert.IsType(t, orb.Polygon{}, boundaries[1].Geometry)

	_, err = ParseBoundaries([]byte("not json"))
	assert.Error(t, err)
}

func TestGeometryRoundTrip(t *testing.T) {
	poly := orb.Polygon{{{2.35, 48.85}, {2.36, 48.85}, {2.36, 48.86}, {2.35, 48.85}}}
	data, err := MarshalGeometry(poly)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Polygon"`)

	g, err := UnmarshalGeometry(data)
	require.NoError(t, err)
	assert.Equal(t, poly, g)
}
