package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-rental-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/analytics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/api/dashboard"
	"github.com/FACorreiaa/go-rental-dashboard/internal/charts"
	"github.com/FACorreiaa/go-rental-dashboard/internal/container"
	"github.com/FACorreiaa/go-rental-dashboard/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		outDir string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the dashboards in their default state to files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := charts.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			metrics.InitAppMetrics()

			c, err := container.NewContainer(cmd.Context(), &cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			files, err := exportDashboards(cmd.Context(), c.DashboardService, outDir, f)
			if err != nil {
				return err
			}
			for _, name := range files {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "export", "Output directory")
	cmd.Flags().StringVar(&format, "format", string(charts.FormatPNG), "Chart format, png or svg")
	return cmd
}

type artifact struct {
	name   string
	render func(ctx context.Context) ([]byte, error)
}

// exportDashboards writes every chart and the neighbourhood workbook to dir and returns
// the written paths.
func exportDashboards(ctx context.Context, svc dashboard.Service, dir string, format charts.Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Loads the dataset once. Every artifact below is served from the cache.
	info, err := svc.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Exporting dashboards",
		slog.String("city", info.City),
		slog.Int("listings", info.Listings),
		slog.String("dir", dir))

	defaultQuery := dashboard.NeighbourhoodQuery{Metric: analytics.MetricCount}
	ext := "." + string(format)
	artifacts := []artifact{
		{"small-multiples" + ext, func(ctx context.Context) ([]byte, error) {
			sm, err := svc.SmallMultiples(ctx, analytics.ColumnNeighbourhood)
			if err != nil {
				return nil, err
			}
			if len(sm.Facets) == 0 {
				return nil, fmt.Errorf("%w: dataset has no facets", dashboard.ErrUnknownFacet)
			}
			facet := sm.Facets[0]
			labels := make([]string, len(facet.Bars))
			values := make([]float64, len(facet.Bars))
			for i, b := range facet.Bars {
				labels[i] = b.Label
				values[i] = float64(b.Count)
			}
			return charts.BarChart(ctx, facet.Title, "Quartier", "Nombre de logements", labels, values, format)
		}},
		{"histogram" + ext, func(ctx context.Context) ([]byte, error) {
			buckets, err := svc.Histogram(ctx)
			if err != nil {
				return nil, err
			}
			return charts.Histogram(ctx, buckets, format)
		}},
		{"box" + ext, func(ctx context.Context) ([]byte, error) {
			rts, err := svc.RoomTypes(ctx)
			if err != nil {
				return nil, err
			}
			if len(rts) == 0 {
				return nil, fmt.Errorf("%w: dataset has no room types", analytics.ErrUnknownRoomType)
			}
			dist, err := svc.PriceDistribution(ctx, rts[0])
			if err != nil {
				return nil, err
			}
			return charts.BoxPlot(ctx, dist, format)
		}},
		{"ranking" + ext, func(ctx context.Context) ([]byte, error) {
			view, err := svc.Neighbourhoods(ctx, defaultQuery)
			if err != nil {
				return nil, err
			}
			labels, values := rankingSeries(view)
			title := fmt.Sprintf("Classement des quartiers par %s", view.Metric.Option())
			return charts.BarChart(ctx, title, "Quartier", view.Label, labels, values, format)
		}},
		{"choropleth" + ext, func(ctx context.Context) ([]byte, error) {
			view, err := svc.Choropleth(ctx, defaultQuery)
			if err != nil {
				return nil, err
			}
			return charts.ChoroplethMap(ctx, view.Regions, view.Scale, format)
		}},
		{"quartiers.xlsx", func(ctx context.Context) ([]byte, error) {
			view, err := svc.Neighbourhoods(ctx, defaultQuery)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := export.WriteNeighbourhoodWorkbook(&buf, view.Stats); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}},
	}

	paths := make([]string, len(artifacts))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range artifacts {
		i, a := i, a
		g.Go(func() error {
			data, err := a.render(gctx)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", a.name, err)
			}
			path := filepath.Join(dir, a.name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func rankingSeries(view dashboard.NeighbourhoodView) ([]string, []float64) {
	labels := make([]string, 0, len(view.Stats))
	values := make([]float64, 0, len(view.Stats))
	for _, s := range view.Stats {
		v, ok := view.Metric.Value(s)
		if !ok {
			continue
		}
		labels = append(labels, s.Neighbourhood)
		values = append(values, v)
	}
	return labels, values
}
