package charts

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/FACorreiaa/go-rental-dashboard/internal/analytics"
)

// ChoroplethMap draws each region filled with its colour, in lon/lat coordinates.
func ChoroplethMap(ctx context.Context, regions []analytics.ChoroplethRegion, scale analytics.ColorScale, format Format) ([]byte, error) {
	title := fmt.Sprintf("%s (%.0f à %.0f)", scale.Label, scale.Min, scale.Max)
	p := newPlot(title, "", "")
	p.HideAxes()

	bound := orb.Bound{}
	first := true
	for _, r := range regions {
		polys, err := polygons(r)
		if err != nil {
			return nil, err
		}
		for _, poly := range polys {
			p.Add(poly)
		}
		if r.Boundary.Geometry == nil {
			continue
		}
		if first {
			bound = r.Boundary.Geometry.Bound()
			first = false
		} else {
			bound = bound.Union(r.Boundary.Geometry.Bound())
		}
	}
	if !first {
		p.X.Min, p.X.Max = bound.Min.Lon(), bound.Max.Lon()
		p.Y.Min, p.Y.Max = bound.Min.Lat(), bound.Max.Lat()
	}
	return render(ctx, "choropleth", p, MapSize, format)
}

func polygons(r analytics.ChoroplethRegion) ([]plot.Plotter, error) {
	var shapes []orb.Polygon
	switch g := r.Boundary.Geometry.(type) {
	case orb.Polygon:
		shapes = []orb.Polygon{g}
	case orb.MultiPolygon:
		shapes = g
	default:
		return nil, nil
	}

	out := make([]plot.Plotter, 0, len(shapes))
	for _, shape := range shapes {
		rings := make([]plotter.XYer, 0, len(shape))
		for _, ring := range shape {
			xys := make(plotter.XYs, len(ring))
			for i, pt := range ring {
				xys[i].X, xys[i].Y = pt.Lon(), pt.Lat()
			}
			rings = append(rings, xys)
		}
		poly, err := plotter.NewPolygon(rings...)
		if err != nil {
			return nil, fmt.Errorf("neighbourhood %q: %w", r.Boundary.Name, err)
		}
		poly.Color = r.Fill
		poly.LineStyle.Width = vg.Points(0.5)
		poly.LineStyle.Color = analytics.MissingColor
		out = append(out, poly)
	}
	return out, nil
}
