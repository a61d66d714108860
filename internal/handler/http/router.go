package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/shirtsearch/internal/service"
	"github.com/utafrali/shirtsearch/pkg/health"
	"github.com/utafrali/shirtsearch/pkg/middleware"
)

const serviceName = "shirtsearch"

// NewRouter creates a chi router with all shirt search routes registered.
func NewRouter(
	searchService *service.SearchService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	searchHandler := NewSearchHandler(searchService, logger)

	r.Route("/api/v1/shirts", func(r chi.Router) {
		r.Get("/search", searchHandler.Search)
		r.Get("/facets", searchHandler.Facets)
		r.Get("/catalog", searchHandler.Catalog)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/search", searchHandler.SearchJSON)
			r.Post("/reload", searchHandler.Reload)
		})
	})

	return r
}
