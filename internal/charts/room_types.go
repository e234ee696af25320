package charts

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// Histogram draws the number of listings per room type with the display labels on the x axis.
func Histogram(ctx context.Context, buckets []types.HistogramBucket, format Format) ([]byte, error) {
	labels := make([]string, len(buckets))
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
		values[i] = float64(b.Count)
	}
	p := newPlot("Répartition des types de logements", "Type de logement", "Nombre de logements")
	if err := addBars(p, labels, values); err != nil {
		return nil, err
	}
	return render(ctx, "histogram", p, DefaultSize, format)
}

// BoxPlot draws the price distribution of one room type.
func BoxPlot(ctx context.Context, dist types.PriceDistribution, format Format) ([]byte, error) {
	title := fmt.Sprintf("Distribution des prix (%s, <= %.0f€)", types.RoomTypeLabel(dist.RoomType), dist.Threshold)
	p := newPlot(title, "", "Prix (€)")

	if len(dist.Prices) > 0 {
		values := make(plotter.Values, 0, len(dist.Prices))
		for _, v := range dist.Prices {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		box, err := plotter.NewBoxPlot(vg.Points(60), 0, values)
		if err != nil {
			return nil, fmt.Errorf("failed to build box plot: %w", err)
		}
		box.FillColor = barColor
		p.Add(box)
		p.NominalX(types.RoomTypeLabel(dist.RoomType))
	}
	return render(ctx, "box", p, DefaultSize, format)
}
