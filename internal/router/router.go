package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-rental-dashboard/docs"
	"github.com/FACorreiaa/go-rental-dashboard/internal/api/dashboard"
)

// Config contains dependencies needed for the router setup
type Config struct {
	DashboardHandler *dashboard.HandlerImpl
	AllowedOrigins   []string
	// MetricsHandler is mounted on MetricsPath when not nil.
	MetricsHandler http.Handler
	MetricsPath    string
	SwaggerEnabled bool
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}
	if cfg.SwaggerEnabled {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	h := cfg.DashboardHandler

	// Pages
	r.Get("/", h.Home)
	r.Get("/dashboard/1", h.SmallMultiplesPage)
	r.Get("/dashboard/2", h.RoomTypesPage)
	r.Get("/dashboard/3", h.NeighbourhoodsPage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dataset", h.GetDataset)
		r.Post("/dataset/refresh", h.RefreshDataset)

		// Dashboard 1
		r.Get("/small-multiples", h.GetSmallMultiples)

		// Dashboard 2
		r.Get("/room-types", h.GetRoomTypes)
		r.Get("/histogram", h.GetHistogram)
		r.Get("/price-distribution", h.GetPriceDistribution)
		r.Get("/map-points", h.GetMapPoints)

		// Dashboard 3
		r.Get("/neighbourhoods", h.GetNeighbourhoods)
		r.Get("/summary", h.GetSummary)
		r.Get("/choropleth", h.GetChoropleth)
		r.Get("/export/neighbourhoods.xlsx", h.ExportNeighbourhoods)

		r.Route("/charts", func(r chi.Router) {
			r.Get("/small-multiples.{format}", h.SmallMultiplesChart)
			r.Get("/histogram.{format}", h.HistogramChart)
			r.Get("/box.{format}", h.BoxChart)
			r.Get("/ranking.{format}", h.RankingChart)
			r.Get("/choropleth.{format}", h.ChoroplethChart)
		})
	})

	return r
}
