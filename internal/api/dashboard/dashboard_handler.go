package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-rental-dashboard/config"
	"github.com/FACorreiaa/go-rental-dashboard/internal/analytics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/api"
	"github.com/FACorreiaa/go-rental-dashboard/internal/charts"
	"github.com/FACorreiaa/go-rental-dashboard/internal/export"
	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
	cfg     config.DashboardConfig
}

func NewHandlerImpl(service Service, cfg config.DashboardConfig, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
		cfg:     cfg,
	}
}

// RoomTypeOption is a room type selector entry.
type RoomTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RefreshRequest is the optional body of the refresh endpoint.
type RefreshRequest struct {
	// Reload loads the dataset again right away. Defaults to true.
	Reload *bool `json:"reload,omitempty"`
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrDatasetUnavailable):
		return http.StatusBadGateway, "Failed to load the listings dataset"
	case errors.Is(err, ErrUnknownFacet):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, analytics.ErrUnknownMetric),
		errors.Is(err, analytics.ErrUnknownColumn),
		errors.Is(err, analytics.ErrUnknownRoomType),
		errors.Is(err, charts.ErrUnsupportedFormat),
		errors.Is(err, ErrInvalidParameter):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *HandlerImpl) fail(w http.ResponseWriter, r *http.Request, span trace.Span, l *slog.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "Request failed", slog.Any("error", err), slog.Int("status", status))
	} else {
		l.WarnContext(r.Context(), "Rejected request", slog.Any("error", err), slog.Int("status", status))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	api.ErrorResponse(w, r, status, msg)
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidParameter, name, raw)
	}
	return n, nil
}

func queryString(r *http.Request, name, def string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return def
}

// neighbourhoodQuery reads the stat and min parameters of the neighbourhoods dashboard.
func neighbourhoodQuery(r *http.Request) (NeighbourhoodQuery, error) {
	metric, err := analytics.ParseMetric(queryString(r, "stat", string(analytics.MetricCount)))
	if err != nil {
		return NeighbourhoodQuery{}, err
	}
	minCount, err := queryInt(r, "min", 0)
	if err != nil {
		return NeighbourhoodQuery{}, err
	}
	return NeighbourhoodQuery{Metric: metric, MinCount: minCount}, nil
}

// GetDataset godoc
// @Summary      Dataset metadata
// @Description  Describes the snapshot currently served: source, fetch time, columns and sizes.
// @Tags         Dataset
// @Produce      json
// @Success      200 {object} api.Response{data=types.DatasetInfo}
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /dataset [get]
func (h *HandlerImpl) GetDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetDataset")
	defer span.End()
	l := h.logger.With(slog.String("method", "GetDataset"))

	info, err := h.service.Dataset(ctx)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "dataset described")
	api.DataResponse(w, r, info)
}

// RefreshDataset godoc
// @Summary      Refresh the dataset
// @Description  Drops the cached snapshot. Unless reload is false, the dataset is downloaded again.
// @Tags         Dataset
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest false "Refresh options"
// @Success      200 {object} api.Response{data=types.DatasetInfo}
// @Success      202 {object} api.Response "Cache invalidated"
// @Failure      400 {object} api.Response "Invalid body"
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /dataset/refresh [post]
func (h *HandlerImpl) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "RefreshDataset")
	defer span.End()
	l := h.logger.With(slog.String("method", "RefreshDataset"))

	var req RefreshRequest
	if r.ContentLength > 0 {
		if err := api.DecodeJSONBody(w, r, &req); err != nil {
			l.WarnContext(ctx, "Invalid refresh body", slog.Any("error", err))
			span.SetStatus(codes.Error, "invalid body")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	if req.Reload != nil && !*req.Reload {
		h.service.Invalidate(ctx)
		span.SetStatus(codes.Ok, "cache invalidated")
		api.WriteJSONResponse(w, r, http.StatusAccepted, api.Response{Success: true})
		return
	}

	info, err := h.service.Refresh(ctx)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	l.InfoContext(ctx, "Dataset refreshed", slog.Int("listings", info.Listings))
	span.SetStatus(codes.Ok, "dataset refreshed")
	api.DataResponse(w, r, info)
}

// GetRoomTypes godoc
// @Summary      Room types
// @Description  Distinct room types in file order, with their display labels.
// @Tags         Room types
// @Produce      json
// @Success      200 {object} api.Response{data=[]RoomTypeOption}
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /room-types [get]
func (h *HandlerImpl) GetRoomTypes(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetRoomTypes")
	defer span.End()
	l := h.logger.With(slog.String("method", "GetRoomTypes"))

	rts, err := h.service.RoomTypes(ctx)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "room types listed")
	api.DataResponse(w, r, roomTypeOptions(rts))
}

func roomTypeOptions(rts []string) []RoomTypeOption {
	opts := make([]RoomTypeOption, len(rts))
	for i, rt := range rts {
		opts[i] = RoomTypeOption{Value: rt, Label: types.RoomTypeLabel(rt)}
	}
	return opts
}

// GetSmallMultiples godoc
// @Summary      Room types per neighbourhood
// @Description  Listing counts per (room type, neighbourhood), split into one facet per value of the other column.
// @Tags         Small multiples
// @Produce      json
// @Param        column query string false "x-axis column: neighbourhood or room_type" default(neighbourhood)
// @Success      200 {object} api.Response{data=types.SmallMultiples}
// @Failure      400 {object} api.Response "Unknown column"
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /small-multiples [get]
func (h *HandlerImpl) GetSmallMultiples(w http.ResponseWriter, r *http.Request) {
	column := queryString(r, "column", analytics.ColumnNeighbourhood)
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetSmallMultiples", trace.WithAttributes(
		attribute.String("column", column),
	))
	defer span.End()
	l := h.logger.With(slog.String("method", "GetSmallMultiples"))

	sm, err := h.service.SmallMultiples(ctx, column)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "small multiples computed")
	api.DataResponse(w, r, sm)
}

// GetHistogram godoc
// @Summary      Room type histogram
// @Tags         Room types
// @Produce      json
// @Success      200 {object} api.Response{data=[]types.HistogramBucket}
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /histogram [get]
func (h *HandlerImpl) GetHistogram(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetHistogram")
	defer span.End()
	l := h.logger.With(slog.String("method", "GetHistogram"))

	buckets, err := h.service.Histogram(ctx)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "histogram computed")
	api.DataResponse(w, r, buckets)
}

// GetPriceDistribution godoc
// @Summary      Price distribution of a room type
// @Description  Five-number summary of the prices at or below the configured quantile.
// @Tags         Room types
// @Produce      json
// @Param        room_type query string false "Room type, defaults to the first one of the file"
// @Success      200 {object} api.Response{data=types.PriceDistribution}
// @Failure      400 {object} api.Response "Unknown room type"
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /price-distribution [get]
func (h *HandlerImpl) GetPriceDistribution(w http.ResponseWriter, r *http.Request) {
	roomType := r.URL.Query().Get("room_type")
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetPriceDistribution", trace.WithAttributes(
		attribute.String("room_type", roomType),
	))
	defer span.End()
	l := h.logger.With(slog.String("method", "GetPriceDistribution"))

	dist, err := h.service.PriceDistribution(ctx, roomType)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetStatus(codes.Ok, "distribution computed")
	api.DataResponse(w, r, dist)
}

// GetMapPoints godoc
// @Summary      Listing markers
// @Description  The first n listings of the file, n clamped to [min(10, total), total].
// @Tags         Room types
// @Produce      json
// @Param        points query int false "Number of markers" default(50)
// @Success      200 {object} api.Response{data=[]types.MapPoint}
// @Failure      400 {object} api.Response "Invalid points"
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /map-points [get]
func (h *HandlerImpl) GetMapPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetMapPoints")
	defer span.End()
	l := h.logger.With(slog.String("method", "GetMapPoints"))

	n, err := queryInt(r, "points", h.cfg.DefaultMapPoints)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	points, _, err := h.service.MapPoints(ctx, n)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}
	span.SetAttributes(attribute.Int("points", len(points)))
	span.SetStatus(codes.Ok, "points selected")
	api.DataResponse(w, r, points)
}

// GetNeighbourhoods godoc
// @Summary      Neighbourhood statistics
// @Description  Per-neighbourhood count, average price and entire-home share, filtered by minimum count and ranked by the statistic.
// @Tags         Neighbourhoods
// @Produce      json
// @Param        stat query string false "count, avg_price or entire_share" default(count)
// @Param        min query int false "Minimum number of listings" default(0)
// @Success      200 {object} api.Response{data=NeighbourhoodView}
// @Failure      400 {object} api.Response "Invalid parameters"
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /neighbourhoods [get]
func (h *HandlerImpl) GetNeighbourhoods(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetNeighbourhoods")
	defer span.End()
	l := h.logger.With(slog.String("method", "GetNeighbourhoods"))

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
	span.SetStatus(codes.Ok, "neighbourhoods aggregated")
	api.DataResponse(w, r, view)
}

// GetSummary godoc
// @Summary      Headline figures
// @Description  Number of neighbourhoods shown and their total listings for the given filter.
// @Tags         Neighbourhoods
// @Produce      json
// @Param        stat query string false "count, avg_price or entire_share" default(count)
// @Param        min query int false "Minimum number of listings" default(0)
// @Success      200 {object} api.Response{data=types.Summary}
// @Failure      400 {object} api.Response "Invalid parameters"
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /summary [get]
func (h *HandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetSummary")
	defer span.End()
	l := h.logger.With(slog.String("method", "GetSummary"))

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
	span.SetStatus(codes.Ok, "summary computed")
	api.DataResponse(w, r, view.Summary)
}

// GetChoropleth godoc
// @Summary      Choropleth features
// @Description  GeoJSON FeatureCollection of the neighbourhoods shown, with hover data and a Viridis fill colour per feature. Not wrapped in the response envelope.
// @Tags         Neighbourhoods
// @Produce      application/geo+json
// @Param        stat query string false "count, avg_price or entire_share" default(count)
// @Param        min query int false "Minimum number of listings" default(0)
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} api.Response "Invalid parameters"
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /choropleth [get]
func (h *HandlerImpl) GetChoropleth(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetChoropleth")
	defer span.End()
	l := h.logger.With(slog.String("method", "GetChoropleth"))

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
	body, err := analytics.ChoroplethGeoJSON(view.Regions).MarshalJSON()
	if err != nil {
		h.fail(w, r, span, l, fmt.Errorf("failed to encode choropleth: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		l.ErrorContext(ctx, "Failed to write choropleth", slog.Any("error", err))
	}
	span.SetStatus(codes.Ok, "choropleth computed")
}

// ExportNeighbourhoods godoc
// @Summary      Download the aggregated table
// @Description  The neighbourhood table of the current filter as an xlsx workbook.
// @Tags         Neighbourhoods
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        stat query string false "count, avg_price or entire_share" default(count)
// @Param        min query int false "Minimum number of listings" default(0)
// @Success      200 {file} file
// @Failure      400 {object} api.Response "Invalid parameters"
// @Failure      502 {object} api.Response "Dataset unavailable"
// @Router       /export/neighbourhoods.xlsx [get]
func (h *HandlerImpl) ExportNeighbourhoods(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "ExportNeighbourhoods")
	defer span.End()
	l := h.logger.With(slog.String("method", "ExportNeighbourhoods"))

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

	var buf bytes.Buffer
	if err := export.WriteNeighbourhoodWorkbook(&buf, view.Stats); err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="neighbourhoods.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		l.ErrorContext(ctx, "Failed to write workbook", slog.Any("error", err))
	}
	span.SetStatus(codes.Ok, "workbook written")
}
