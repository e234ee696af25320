// Package charts renders the dashboard figures as PNG or SVG images with gonum/plot.
package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/FACorreiaa/go-rental-dashboard/app/observability/metrics"
)

// ErrUnsupportedFormat is returned for image formats other than png and svg.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat validates an image format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatSVG:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Size is the canvas size of a chart.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

var (
	DefaultSize = Size{Width: 8 * vg.Inch, Height: 5 * vg.Inch}
	MapSize     = Size{Width: 8 * vg.Inch, Height: 7 * vg.Inch}
)

// barColor matches the default trace colour of the original dashboard.
var barColor = color.RGBA{R: 0x63, G: 0x6e, B: 0xfa, A: 0xff}

// rotateAfter is the number of categories above which x tick labels are rotated.
const rotateAfter = 6

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func render(ctx context.Context, name string, p *plot.Plot, size Size, format Format) ([]byte, error) {
	start := time.Now()
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	w, err := p.WriterTo(size.Width, size.Height, string(format))
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", name, err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode %s chart: %w", name, err)
	}
	metrics.Get().ChartRenderDurationSecs.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(
			attribute.String("chart", name),
			attribute.String("format", string(format)),
		))
	return buf.Bytes(), nil
}

// BarChart draws one bar per label. Long category lists get rotated tick labels.
func BarChart(ctx context.Context, title, xLabel, yLabel string, labels []string, values []float64, format Format) ([]byte, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("bar chart: %d labels for %d values", len(labels), len(values))
	}
	p := newPlot(title, xLabel, yLabel)
	if err := addBars(p, labels, values); err != nil {
		return nil, err
	}
	return render(ctx, "bar", p, DefaultSize, format)
}

func addBars(p *plot.Plot, labels []string, values []float64) error {
	if len(values) == 0 {
		return nil
	}
	vs := make(plotter.Values, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		vs[i] = v
	}
	bars, err := plotter.NewBarChart(vs, vg.Points(18))
	if err != nil {
		return fmt.Errorf("failed to build bars: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.Y.Min = 0
	if len(labels) > rotateAfter {
		p.X.Tick.Label.Rotation = math.Pi / 3
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return nil
}
