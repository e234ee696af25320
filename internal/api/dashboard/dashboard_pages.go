package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-rental-dashboard/config"
	"github.com/FACorreiaa/go-rental-dashboard/internal/analytics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/charts"
	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"roomTypeLabel": types.RoomTypeLabel,
	"price":         formatPrice,
	"decimal":       func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}).ParseFS(templateFS, "templates/*.html"))

func formatPrice(p *float64) string {
	if p == nil {
		return "prix non renseigné"
	}
	return fmt.Sprintf("%.0f €", *p)
}

// option is an entry of a select widget.
type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Title  string
	Active string
	City   string
}

type mapView struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Style     config.MapStyle
}

type facetView struct {
	types.Facet
	ChartURL string
}

type smallMultiplesPage struct {
	pageData
	Columns []option
	Facets  []facetView
}

type marker struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Price string  `json:"price"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type roomTypesPage struct {
	pageData
	RoomTypes    []option
	RoomType     string
	Histogram    []types.HistogramBucket
	HistogramURL string
	BoxURL       string
	Distribution types.PriceDistribution
	Points       int
	PointsMin    int
	PointsMax    int
	Markers      []marker
	Map          mapView
}

type legendStop struct {
	Color template.CSS
}

type neighbourhoodsPage struct {
	pageData
	Stats      []option
	Styles     []option
	View       NeighbourhoodView
	Step       int
	Map        mapView
	GeoJSON    any
	Legend     []legendStop
	Scale      analytics.ColorScale
	RankingURL string
	ExportURL  string
}

type errorPage struct {
	pageData
	Status  int
	Message string
}

func (h *HandlerImpl) page(title, active string) pageData {
	return pageData{Title: title, Active: active}
}

func (h *HandlerImpl) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write page", slog.Any("error", err))
	}
}

func (h *HandlerImpl) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	h.logger.WarnContext(r.Context(), "Page failed", slog.Any("error", err), slog.Int("status", status))
	h.render(w, r, status, "error", errorPage{
		pageData: h.page("Erreur", ""),
		Status:   status,
		Message:  msg,
	})
}

// Home serves GET /.
func (h *HandlerImpl) Home(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("DashboardHandler").Start(r.Context(), "Home")
	defer span.End()
	h.render(w, r, http.StatusOK, "home", h.page("Accueil", "home"))
}

// SmallMultiplesPage serves GET /dashboard/1.
func (h *HandlerImpl) SmallMultiplesPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "SmallMultiplesPage")
	defer span.End()

	column := queryString(r, "column", analytics.ColumnNeighbourhood)
	sm, err := h.service.SmallMultiples(ctx, column)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "small multiples failed")
		h.renderError(w, r, err)
		return
	}

	data := smallMultiplesPage{pageData: h.page("Types de logements par quartier", "dashboard1")}
	for _, c := range []string{analytics.ColumnNeighbourhood, analytics.ColumnRoomType} {
		data.Columns = append(data.Columns, option{Value: c, Label: columnLabels[c], Selected: c == column})
	}
	for _, f := range sm.Facets {
		data.Facets = append(data.Facets, facetView{
			Facet:    f,
			ChartURL: chartURL("small-multiples", charts.FormatSVG, url.Values{"column": {column}, "facet": {f.Value}}),
		})
	}
	span.SetStatus(codes.Ok, "page rendered")
	h.render(w, r, http.StatusOK, "dashboard1", data)
}

// RoomTypesPage serves GET /dashboard/2.
func (h *HandlerImpl) RoomTypesPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "RoomTypesPage")
	defer span.End()

	n, err := queryInt(r, "points", h.cfg.DefaultMapPoints)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	rts, err := h.service.RoomTypes(ctx)
	if err != nil {
		span.RecordError(err)
		h.renderError(w, r, err)
		return
	}
	roomType := r.URL.Query().Get("room_type")
	if roomType == "" && len(rts) > 0 {
		roomType = rts[0]
	}
	buckets, err := h.service.Histogram(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	dist, err := h.service.PriceDistribution(ctx, roomType)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	points, total, err := h.service.MapPoints(ctx, n)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := roomTypesPage{
		pageData:     h.page("Types de logements", "dashboard2"),
		RoomType:     roomType,
		Histogram:    buckets,
		HistogramURL: chartURL("histogram", charts.FormatSVG, nil),
		BoxURL:       chartURL("box", charts.FormatSVG, url.Values{"room_type": {roomType}}),
		Distribution: dist,
		Points:       len(points),
		PointsMin:    min(10, total),
		PointsMax:    total,
		Map: mapView{
			CenterLat: h.cfg.CenterLat,
			CenterLon: h.cfg.CenterLon,
			Zoom:      h.cfg.PointsZoom,
			Style:     h.cfg.MapStyle(""),
		},
	}
	for _, rt := range roomTypeOptions(rts) {
		data.RoomTypes = append(data.RoomTypes, option{Value: rt.Value, Label: rt.Label, Selected: rt.Value == roomType})
	}
	data.Markers = make([]marker, len(points))
	for i, p := range points {
		data.Markers[i] = marker{
			Name:  p.Name,
			Label: types.RoomTypeLabel(p.RoomType),
			Price: formatPrice(p.Price),
			Lat:   p.Latitude,
			Lon:   p.Longitude,
		}
	}
	span.SetStatus(codes.Ok, "page rendered")
	h.render(w, r, http.StatusOK, "dashboard2", data)
}

// NeighbourhoodsPage serves GET /dashboard/3.
func (h *HandlerImpl) NeighbourhoodsPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "NeighbourhoodsPage")
	defer span.End()

	q, err := neighbourhoodQuery(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	view, err := h.service.Neighbourhoods(ctx, q)
	if err != nil {
		span.RecordError(err)
		h.renderError(w, r, err)
		return
	}
	choro, err := h.service.Choropleth(ctx, q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	style := h.cfg.MapStyle(r.URL.Query().Get("style"))
	params := url.Values{"stat": {string(q.Metric)}, "min": {strconv.Itoa(q.MinCount)}}
	data := neighbourhoodsPage{
		pageData: h.page("Statistiques par quartier", "dashboard3"),
		View:     view,
		Step:     h.cfg.MinCountStep,
		Map: mapView{
			CenterLat: h.cfg.CenterLat,
			CenterLon: h.cfg.CenterLon,
			Zoom:      h.cfg.ChoroplethZoom,
			Style:     style,
		},
		GeoJSON:    analytics.ChoroplethGeoJSON(choro.Regions),
		Scale:      choro.Scale,
		RankingURL: chartURL("ranking", charts.FormatSVG, params),
		ExportURL:  "/api/v1/export/neighbourhoods.xlsx?" + params.Encode(),
	}
	for _, m := range analytics.Metrics {
		data.Stats = append(data.Stats, option{Value: string(m), Label: m.Option(), Selected: m == q.Metric})
	}
	for _, s := range h.cfg.MapStyles {
		data.Styles = append(data.Styles, option{Value: s.Key, Label: s.Name, Selected: s.Key == style.Key})
	}
	for i := 0; i <= 10; i++ {
		data.Legend = append(data.Legend, legendStop{Color: template.CSS(analytics.Hex(analytics.Viridis(float64(i) / 10)))})
	}
	span.SetStatus(codes.Ok, "page rendered")
	h.render(w, r, http.StatusOK, "dashboard3", data)
}
