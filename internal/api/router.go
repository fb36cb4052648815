package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/blaisecz/vitality-tracker/docs"
	"github.com/blaisecz/vitality-tracker/internal/api/handler"
	"github.com/blaisecz/vitality-tracker/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	sampleHandler   *handler.SampleHandler
	scoreHandler    *handler.ScoreHandler
	insightsHandler *handler.InsightsHandler
	registry        *prometheus.Registry
}

func NewRouter(
	sampleHandler *handler.SampleHandler,
	scoreHandler *handler.ScoreHandler,
	insightsHandler *handler.InsightsHandler,
	registry *prometheus.Registry,
) *Router {
	return &Router{
		sampleHandler:   sampleHandler,
		scoreHandler:    scoreHandler,
		insightsHandler: insightsHandler,
		registry:        registry,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Route("/samples", func(r chi.Router) {
			r.Post("/", rt.sampleHandler.Ingest)
			r.Get("/", rt.sampleHandler.List)
		})

		r.Route("/scores", func(r chi.Router) {
			r.Get("/", rt.scoreHandler.List)
			r.Get("/{date}/{kind}", rt.scoreHandler.Get)
		})

		r.Get("/insights", rt.insightsHandler.Get)
	})

	return r
}
