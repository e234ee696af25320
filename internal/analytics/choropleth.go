package analytics

import (
	"image/color"

	"github.com/paulmach/orb/geojson"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// ChoroplethRegion is a neighbourhood boundary bound to its statistics.
type ChoroplethRegion struct {
	Boundary types.NeighbourhoodBoundary
	Stat     types.NeighbourhoodStat
	Value    float64
	HasValue bool
	Fill     color.RGBA
}

// ColorScale is the value range the fill colours are spread over.
type ColorScale struct {
	Metric Metric  `json:"metric"`
	Label  string  `json:"label"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Choropleth joins stats onto boundaries by neighbourhood name and colours each region on
// the Viridis scale, linearly between the smallest and largest metric value of the joined
// regions. Boundaries without stats are dropped.
func Choropleth(stats []types.NeighbourhoodStat, boundaries []types.NeighbourhoodBoundary, metric Metric) ([]ChoroplethRegion, ColorScale) {
	byName := make(map[string]types.NeighbourhoodStat, len(stats))
	for _, s := range stats {
		byName[s.Neighbourhood] = s
	}

	scale := ColorScale{Metric: metric, Label: metric.Label()}
	var regions []ChoroplethRegion
	first := true
	for _, b := range boundaries {
		s, ok := byName[b.Name]
		if !ok {
			continue
		}
		r := ChoroplethRegion{Boundary: b, Stat: s}
		r.Value, r.HasValue = metric.Value(s)
		if r.HasValue {
			if first || r.Value < scale.Min {
				scale.Min = r.Value
			}
			if first || r.Value > scale.Max {
				scale.Max = r.Value
			}
			first = false
		}
		regions = append(regions, r)
	}

	for i := range regions {
		r := &regions[i]
		switch {
		case !r.HasValue:
			r.Fill = MissingColor
		case scale.Max == scale.Min:
			r.Fill = Viridis(0.5)
		default:
			r.Fill = Viridis((r.Value - scale.Min) / (scale.Max - scale.Min))
		}
	}
	return regions, scale
}

// ChoroplethGeoJSON renders regions as a feature collection whose properties carry the
// hover data and the fill colour.
func ChoroplethGeoJSON(regions []ChoroplethRegion) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range regions {
		f := geojson.NewFeature(r.Boundary.Geometry)
		f.Properties["neighbourhood"] = r.Boundary.Name
		f.Properties["count"] = r.Stat.Count
		if r.Stat.AvgPrice != nil {
			f.Properties["avg_price"] = round2(*r.Stat.AvgPrice)
		} else {
			f.Properties["avg_price"] = nil
		}
		f.Properties["entire_share"] = round2(r.Stat.EntireShare)
		if r.HasValue {
			f.Properties["value"] = r.Value
		} else {
			f.Properties["value"] = nil
		}
		f.Properties["fill"] = Hex(r.Fill)
		fc.Append(f)
	}
	return fc
}
