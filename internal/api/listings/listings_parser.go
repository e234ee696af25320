package listings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// ErrMissingColumn is returned when the listings file lacks a required column.
var ErrMissingColumn = errors.New("missing column")

var requiredColumns = []string{"id", "name", "neighbourhood", "room_type", "price", "latitude", "longitude"}

var columnTypes = map[string]series.Type{
	"price":     series.Float,
	"latitude":  series.Float,
	"longitude": series.Float,
}

// ParseListings reads a listings CSV with a header row. It returns the header in file
// order and one Listing per row. Empty prices become nil.
func ParseListings(r io.Reader) ([]string, []types.Listing, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
		dataframe.NaNValues([]string{"NaN"}),
	)
	if df.Err != nil {
		return nil, nil, fmt.Errorf("failed to read listings csv: %w", df.Err)
	}

	columns := df.Names()
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	for _, c := range requiredColumns {
		if !present[c] {
			return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}

	optional := func(name string) []string {
		if !present[name] {
			return make([]string, df.Nrow())
		}
		return df.Col(name).Records()
	}

	ids := df.Col("id").Records()
	names := df.Col("name").Records()
	neighbourhoods := df.Col("neighbourhood").Records()
	roomTypes := df.Col("room_type").Records()
	prices := df.Col("price").Float()
	lats := df.Col("latitude").Float()
	lons := df.Col("longitude").Float()
	hostIDs := optional("host_id")
	hostNames := optional("host_name")
	groups := optional("neighbourhood_group")
	minNights := optional("minimum_nights")
	reviews := optional("number_of_reviews")
	availability := optional("availability_365")

	listings := make([]types.Listing, df.Nrow())
	for i := range listings {
		line := i + 2 // header is line 1

		id, err := strconv.ParseInt(strings.TrimSpace(ids[i]), 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: invalid id %q: %w", line, ids[i], err)
		}
		if math.IsNaN(lats[i]) || math.IsNaN(lons[i]) {
			return nil, nil, fmt.Errorf("line %d: listing %d has no coordinates", line, id)
		}

		l := types.Listing{
			ID:                 id,
			Name:               cleanString(names[i]),
			HostID:             parseInt64(hostIDs[i]),
			HostName:           cleanString(hostNames[i]),
			NeighbourhoodGroup: cleanString(groups[i]),
			Neighbourhood:      cleanString(neighbourhoods[i]),
			Latitude:           lats[i],
			Longitude:          lons[i],
			RoomType:           cleanString(roomTypes[i]),
			MinimumNights:      int(parseInt64(minNights[i])),
			NumberOfReviews:    int(parseInt64(reviews[i])),
			Availability365:    int(parseInt64(availability[i])),
		}
		if p := prices[i]; !math.IsNaN(p) {
			l.Price = &p
		}
		listings[i] = l
	}
	return columns, listings, nil
}

func cleanString(s string) string {
	if s == "NaN" {
		return ""
	}
	return strings.TrimSpace(s)
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseBoundaries reads a GeoJSON feature collection of neighbourhoods. Features without
// a neighbourhood name or with a non-polygonal geometry are skipped.
func ParseBoundaries(data []byte) ([]types.NeighbourhoodBoundary, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode boundaries geojson: %w", err)
	}

	boundaries := make([]types.NeighbourhoodBoundary, 0, len(fc.Features))
	for _, f := range fc.Features {
		name, _ := f.Properties["neighbourhood"].(string)
		if name == "" {
			continue
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		group, _ := f.Properties["neighbourhood_group"].(string)
		boundaries = append(boundaries, types.NeighbourhoodBoundary{
			Name:     name,
			Group:    group,
			Geometry: f.Geometry,
		})
	}
	return boundaries, nil
}

// MarshalGeometry encodes a boundary geometry as a GeoJSON geometry object.
func MarshalGeometry(g orb.Geometry) ([]byte, error) {
	return json.Marshal(geojson.NewGeometry(g))
}

// UnmarshalGeometry decodes a GeoJSON geometry object.
func UnmarshalGeometry(data []byte) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	return g.Geometry(), nil
}
