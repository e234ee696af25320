package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-rental-dashboard/internal/analytics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/charts"
	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// columnLabels are the axis labels of the small-multiples columns.
var columnLabels = map[string]string{
	analytics.ColumnNeighbourhood: "Quartier",
	analytics.ColumnRoomType:      "Type de logement",
}

// chartURL builds the URL of a chart endpoint for the given widget state.
func chartURL(name string, format charts.Format, params url.Values) string {
	u := fmt.Sprintf("/api/v1/charts/%s.%s", name, format)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (h *HandlerImpl) writeImage(w http.ResponseWriter, r *http.Request, l *slog.Logger, format charts.Format, img []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		l.ErrorContext(r.Context(), "Failed to write chart", slog.Any("error", err))
	}
}

func (h *HandlerImpl) startChart(r *http.Request, name string) (context.Context, trace.Span, *slog.Logger, charts.Format, error) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "Chart", trace.WithAttributes(
		attribute.String("chart", name),
	))
	l := h.logger.With(slog.String("method", "Chart"), slog.String("chart", name))
	format, err := charts.ParseFormat(chi.URLParam(r, "format"))
	return ctx, span, l, format, err
}

// SmallMultiplesChart godoc
// @Summary      Small-multiples facet chart
// @Tags         Charts
// @Produce      png
// @Produce      image/svg+xml
// @Param        format path string true "png or svg"
// @Param        column query string false "x-axis column" default(neighbourhood)
// @Param        facet query string false "Facet value, defaults to the first facet"
// @Success      200 {file} file
// @Failure      400 {object} api.Response
// @Failure      404 {object} api.Response "Unknown facet"
// @Router       /charts/small-multiples.{format} [get]
func (h *HandlerImpl) SmallMultiplesChart(w http.ResponseWriter, r *http.Request) {
	ctx, span, l, format, err := h.startChart(r, "small-multiples")
	defer span.End()
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	column := queryString(r, "column", analytics.ColumnNeighbourhood)
	sm, err := h.service.SmallMultiples(ctx, column)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	facet, err := pickFacet(sm, r.URL.Query().Get("facet"))
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	labels := make([]string, len(facet.Bars))
	values := make([]float64, len(facet.Bars))
	for i, b := range facet.Bars {
		labels[i] = b.Label
		if column == analytics.ColumnRoomType {
			labels[i] = types.RoomTypeLabel(b.Label)
		}
		values[i] = float64(b.Count)
	}
	img, err := charts.BarChart(ctx, facet.Title, columnLabels[column], "Nombre de logements", labels, values, format)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "chart rendered")
	h.writeImage(w, r, l, format, img)
}

func pickFacet(sm types.SmallMultiples, value string) (types.Facet, error) {
	if value == "" {
		if len(sm.Facets) == 0 {
			return types.Facet{}, fmt.Errorf("%w: dataset has no facets", ErrUnknownFacet)
		}
		return sm.Facets[0], nil
	}
	for _, f := range sm.Facets {
		if f.Value == value {
			return f, nil
		}
	}
	return types.Facet{}, fmt.Errorf("%w: %q", ErrUnknownFacet, value)
}

// HistogramChart godoc
// @Summary      Room type histogram chart
// @Tags         Charts
// @Produce      png
// @Produce      image/svg+xml
// @Param        format path string true "png or svg"
// @Success      200 {file} file
// @Failure      400 {object} api.Response
// @Router       /charts/histogram.{format} [get]
func (h *HandlerImpl) HistogramChart(w http.ResponseWriter, r *http.Request) {
	ctx, span, l, format, err := h.startChart(r, "histogram")
	defer span.End()
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	buckets, err := h.service.Histogram(ctx)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	img, err := charts.Histogram(ctx, buckets, format)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "chart rendered")
	h.writeImage(w, r, l, format, img)
}

// BoxChart godoc
// @Summary      Price box plot
// @Tags         Charts
// @Produce      png
// @Produce      image/svg+xml
// @Param        format path string true "png or svg"
// @Param        room_type query string false "Room type"
// @Success      200 {file} file
// @Failure      400 {object} api.Response
// @Router       /charts/box.{format} [get]
func (h *HandlerImpl) BoxChart(w http.ResponseWriter, r *http.Request) {
	ctx, span, l, format, err := h.startChart(r, "box")
	defer span.End()
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	dist, err := h.service.PriceDistribution(ctx, r.URL.Query().Get("room_type"))
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	img, err := charts.BoxPlot(ctx, dist, format)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "chart rendered")
	h.writeImage(w, r, l, format, img)
}

// RankingChart godoc
// @Summary      Neighbourhood ranking chart
// @Description  Bars of the selected statistic per neighbourhood, highest first.
// @Tags         Charts
// @Produce      png
// @Produce      image/svg+xml
// @Param        format path string true "png or svg"
// @Param        stat query string false "Statistic" default(count)
// @Param        min query int false "Minimum number of listings" default(0)
// @Success      200 {file} file
// @Failure      400 {object} api.Response
// @Router       /charts/ranking.{format} [get]
func (h *HandlerImpl) RankingChart(w http.ResponseWriter, r *http.Request) {
	ctx, span, l, format, err := h.startChart(r, "ranking")
	defer span.End()
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	q, err := neighbourhoodQuery(r)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	view, err := h.service.Neighbourhoods(ctx, q)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	labels := make([]string, 0, len(view.Stats))
	values := make([]float64, 0, len(view.Stats))
	for _, s := range view.Stats {
		v, ok := q.Metric.Value(s)
		if !ok {
			continue
		}
		labels = append(labels, s.Neighbourhood)
		values = append(values, v)
	}
	title := fmt.Sprintf("Classement des quartiers par %s", q.Metric.Option())
	img, err := charts.BarChart(ctx, title, "Quartier", q.Metric.Label(), labels, values, format)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "chart rendered")
	h.writeImage(w, r, l, format, img)
}

// ChoroplethChart godoc
// @Summary      Static choropleth
// @Tags         Charts
// @Produce      png
// @Produce      image/svg+xml
// @Param        format path string true "png or svg"
// @Param        stat query string false "Statistic" default(count)
// @Param        min query int false "Minimum number of listings" default(0)
// @Success      200 {file} file
// @Failure      400 {object} api.Response
// @Router       /charts/choropleth.{format} [get]
func (h *HandlerImpl) ChoroplethChart(w http.ResponseWriter, r *http.Request) {
	ctx, span, l, format, err := h.startChart(r, "choropleth")
	defer span.End()
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	q, err := neighbourhoodQuery(r)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	view, err := h.service.Choropleth(ctx, q)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	img, err := charts.ChoroplethMap(ctx, view.Regions, view.Scale, format)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "chart rendered")
	h.writeImage(w, r, l, format, img)
}
